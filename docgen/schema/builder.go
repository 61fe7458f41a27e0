package schema

import (
	"sort"

	"github.com/springdox/springdox/docgen/ir"
	"github.com/springdox/springdox/docgen/plugins"
)

// buildModel assembles the model for the complex type d, registering the
// models its properties and subtypes depend on first.
func (w *walk) buildModel(rc *Context, d *ir.TypeDescriptor) (*ir.Model, error) {
	name, err := w.r.namer.TypeName(d)
	if err != nil {
		return nil, err
	}
	model := &ir.Model{
		ID:            name,
		Name:          name,
		QualifiedType: d.Key(),
		Type:          d,
	}

	for _, ep := range w.propertiesOf(d) {
		prop, err := w.buildProperty(rc, d, ep)
		if err != nil {
			return nil, err
		}
		if prop != nil {
			model.Properties = append(model.Properties, prop)
		}
	}
	sort.SliceStable(model.Properties, func(i, j int) bool {
		return model.Properties[i].Position < model.Properties[j].Position
	})

	md := w.readTypeMetadata(d)
	var subNames []string
	for _, sub := range md.SubTypes {
		if sub == nil {
			continue
		}
		if err := w.resolve(rc, sub); err != nil {
			return nil, err
		}
		subName, err := w.r.namer.TypeName(rc.AlternateFor(sub))
		if err != nil {
			return nil, err
		}
		w.baseOf[rc.AlternateFor(sub).Key()] = name
		subNames = append(subNames, subName)
	}

	w.r.pipeline.ApplyModel(&plugins.ModelContext{
		Type:         d,
		Model:        model,
		Metadata:     md,
		SubTypeNames: subNames,
	})
	return model, nil
}

// buildProperty resolves the property's dependencies, runs the property
// stages and returns nil when a stage hides it.
func (w *walk) buildProperty(rc *Context, owner *ir.TypeDescriptor, ep extractedProperty) (*ir.Property, error) {
	if err := w.resolve(rc, ep.member.Type); err != nil {
		return nil, err
	}
	typ := rc.AlternateFor(ep.member.Type)
	prop := &ir.Property{
		Name:          ep.name,
		Type:          typ,
		QualifiedType: typ.Key(),
	}

	valueType := w.valueType(rc, typ)
	w.r.pipeline.ApplyProperty(&plugins.PropertyContext{
		Owner:         ep.owner,
		Member:        ep.member,
		Property:      prop,
		ValueType:     valueType,
		EnumConstants: w.enumConstants(valueType),
	})
	if prop.Hidden {
		return nil, nil
	}

	ref, err := w.modelRef(rc, typ)
	if err != nil {
		return nil, err
	}
	attachAllowableValues(ref, prop.AllowableValues)
	prop.ModelRef = ref
	return prop, nil
}

// buildParameter describes one request member as a parameter.
func (w *walk) buildParameter(rc *Context, index int, m ir.Member) (*ir.Parameter, error) {
	typ := rc.AlternateFor(m.Type)
	param := &ir.Parameter{Type: typ}
	valueType := w.valueType(rc, typ)
	w.r.pipeline.ApplyParameter(&plugins.ParameterContext{
		Index:         index,
		DefaultName:   m.Name,
		Member:        m,
		Parameter:     param,
		ValueType:     valueType,
		EnumConstants: w.enumConstants(valueType),
	})
	if param.Hidden {
		return nil, nil
	}
	if err := w.resolve(rc, m.Type); err != nil {
		return nil, err
	}
	ref, err := w.modelRef(rc, typ)
	if err != nil {
		return nil, err
	}
	attachAllowableValues(ref, param.AllowableValues)
	param.ModelRef = ref
	return param, nil
}

// valueType unwraps containers and maps down to the element type that
// constraints such as enum values apply to.
func (w *walk) valueType(rc *Context, d *ir.TypeDescriptor) *ir.TypeDescriptor {
	for {
		switch Classify(d) {
		case Container:
			d = rc.AlternateFor(d.Elem())
		case Map:
			d = rc.AlternateFor(d.MapValue())
		default:
			return d
		}
	}
}

func (w *walk) enumConstants(d *ir.TypeDescriptor) []ir.EnumConstant {
	if d == nil || Classify(d) != Enum {
		return nil
	}
	return w.readEnumConstants(d)
}

// modelRef describes how a property of type d refers to its schema.
func (w *walk) modelRef(rc *Context, d *ir.TypeDescriptor) (*ir.ModelRef, error) {
	switch Classify(d) {
	case Container:
		item, err := w.modelRef(rc, rc.AlternateFor(d.Elem()))
		if err != nil {
			return nil, err
		}
		return &ir.ModelRef{Type: "List", Container: ir.ContainerList, Item: item}, nil
	case Map:
		item, err := w.modelRef(rc, rc.AlternateFor(d.MapValue()))
		if err != nil {
			return nil, err
		}
		return &ir.ModelRef{Type: "Map", Container: ir.ContainerMap, Item: item}, nil
	case Base:
		b, _ := LookupBase(d)
		return &ir.ModelRef{Type: b.Name, Format: b.Format}, nil
	case Enum:
		return &ir.ModelRef{Type: baseString.Name}, nil
	}
	if w.r.isIgnored(d) {
		return &ir.ModelRef{Type: baseObject.Name}, nil
	}
	name, err := w.r.namer.TypeName(d)
	if err != nil {
		return nil, err
	}
	return &ir.ModelRef{Type: name, IsModel: true}, nil
}

// attachAllowableValues places a constraint on the innermost item: the
// elements of a list, the values of a map, or the value itself.
func attachAllowableValues(ref *ir.ModelRef, av ir.AllowableValues) {
	if ref == nil || av == nil {
		return
	}
	for ref.Item != nil {
		ref = ref.Item
	}
	ref.AllowableValues = av
}
