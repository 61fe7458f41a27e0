package plugins

import "sort"

// Pipeline is an immutable, ordered composition of stages for one
// documentation type. It is safe for concurrent use as long as the stages are.
type Pipeline struct {
	docType    DocumentationType
	properties []PropertyPlugin
	models     []ModelPlugin
	parameters []ParameterPlugin
}

// Builder composes a Pipeline.
//
//	p := plugins.NewBuilder(plugins.Swagger2).
//		Register(plugins.Defaults()...).
//		Register(myStage).
//		Build()
type Builder struct {
	docType DocumentationType
	plugins []Plugin
}

// NewBuilder returns a builder for the given documentation type.
func NewBuilder(docType DocumentationType) *Builder {
	return &Builder{docType: docType}
}

// Register appends stages. A stage may implement any combination of
// PropertyPlugin, ModelPlugin and ParameterPlugin.
func (b *Builder) Register(ps ...Plugin) *Builder {
	b.plugins = append(b.plugins, ps...)
	return b
}

// Build keeps the stages that support the documentation type and sorts them
// by ascending order. Stages with equal order keep registration order.
func (b *Builder) Build() *Pipeline {
	var supported []Plugin
	for _, p := range b.plugins {
		if p != nil && p.Supports(b.docType) {
			supported = append(supported, p)
		}
	}
	sort.SliceStable(supported, func(i, j int) bool {
		return orderOf(supported[i]) < orderOf(supported[j])
	})

	pl := &Pipeline{docType: b.docType}
	for _, p := range supported {
		if pp, ok := p.(PropertyPlugin); ok {
			pl.properties = append(pl.properties, pp)
		}
		if mp, ok := p.(ModelPlugin); ok {
			pl.models = append(pl.models, mp)
		}
		if pp, ok := p.(ParameterPlugin); ok {
			pl.parameters = append(pl.parameters, pp)
		}
	}
	return pl
}

// Default returns the pipeline of built-in stages for docType.
func Default(docType DocumentationType) *Pipeline {
	return NewBuilder(docType).Register(Defaults()...).Build()
}

// Defaults returns the built-in stages in registration order.
func Defaults() []Plugin {
	return []Plugin{
		ParameterName{},
		ParameterLocation{},
		DocComment{},
		EnumValues{},
		RequiredConstraint{},
		RangeConstraint{},
		OneOfConstraint{},
		DocTags{},
		APIModelProperty{},
		ModelDescription{},
		Discriminator{},
	}
}

// DocumentationType returns the documentation type the pipeline was built for.
func (p *Pipeline) DocumentationType() DocumentationType { return p.docType }

// ApplyProperty runs every property stage in order.
func (p *Pipeline) ApplyProperty(ctx *PropertyContext) {
	ctx.DocumentationType = p.docType
	for _, s := range p.properties {
		s.ApplyProperty(ctx)
	}
}

// ApplyModel runs every model stage in order.
func (p *Pipeline) ApplyModel(ctx *ModelContext) {
	ctx.DocumentationType = p.docType
	for _, s := range p.models {
		s.ApplyModel(ctx)
	}
}

// ApplyParameter runs every parameter stage in order.
func (p *Pipeline) ApplyParameter(ctx *ParameterContext) {
	ctx.DocumentationType = p.docType
	for _, s := range p.parameters {
		s.ApplyParameter(ctx)
	}
}

// Len returns the number of property, model and parameter stages.
func (p *Pipeline) Len() (properties, models, parameters int) {
	return len(p.properties), len(p.models), len(p.parameters)
}
