package plugins

import "strings"

// ModelDescription copies the type-level description onto the model.
type ModelDescription struct{}

func (ModelDescription) Supports(docType DocumentationType) bool { return swaggerDocumentation(docType) }
func (ModelDescription) Order() int                              { return SwaggerOrder }

func (ModelDescription) ApplyModel(ctx *ModelContext) {
	if d := strings.TrimSpace(ctx.Metadata.Description); d != "" {
		ctx.Model.Description = d
	}
}

// Discriminator records the discriminator property and the names of the
// resolved subtypes.
type Discriminator struct{}

func (Discriminator) Supports(docType DocumentationType) bool { return swaggerDocumentation(docType) }
func (Discriminator) Order() int                              { return SwaggerOrder }

func (Discriminator) ApplyModel(ctx *ModelContext) {
	if ctx.Metadata.Discriminator != "" {
		ctx.Model.Discriminator = ctx.Metadata.Discriminator
	}
	if len(ctx.SubTypeNames) > 0 {
		ctx.Model.SubTypes = append([]string(nil), ctx.SubTypeNames...)
	}
}
