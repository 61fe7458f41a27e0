package plugins

import "strings"

// DocComment uses a member's Go doc comment as its description.
type DocComment struct{}

func (DocComment) Supports(DocumentationType) bool { return true }
func (DocComment) Order() int                      { return HighestPrecedence + 10 }

func (DocComment) ApplyProperty(ctx *PropertyContext) {
	if doc := strings.TrimSpace(ctx.Member.Doc); doc != "" {
		ctx.Property.Description = doc
	}
}

func (DocComment) ApplyParameter(ctx *ParameterContext) {
	if doc := strings.TrimSpace(ctx.Member.Doc); doc != "" {
		ctx.Parameter.Description = doc
	}
}

// DocTags reads the plain `description` and `example` struct tags.
type DocTags struct{}

func (DocTags) Supports(docType DocumentationType) bool { return swaggerDocumentation(docType) }
func (DocTags) Order() int                              { return SwaggerOrder }

func (DocTags) ApplyProperty(ctx *PropertyContext) {
	if v := ctx.Member.Tag.Get("description"); v != "" {
		ctx.Property.Description = v
	}
	if v := ctx.Member.Tag.Get("example"); v != "" {
		ctx.Property.Example = v
	}
}

func (DocTags) ApplyParameter(ctx *ParameterContext) {
	if v := ctx.Member.Tag.Get("description"); v != "" {
		ctx.Parameter.Description = v
	}
	if v := ctx.Member.Tag.Get("example"); v != "" {
		ctx.Parameter.Example = v
	}
	if v := ctx.Member.Tag.Get("default"); v != "" {
		ctx.Parameter.DefaultValue = v
	}
}
