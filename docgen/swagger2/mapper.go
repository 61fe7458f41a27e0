package swagger2

import (
	"strconv"

	"github.com/springdox/springdox/docgen/ir"
	"github.com/springdox/springdox/docgen/schema"
)

// Options carries the document metadata that is not part of the models.
type Options struct {
	Info     Info
	Host     string
	BasePath string
}

// Map builds the Swagger 2.0 object for doc. Definitions follow the model
// order of the document, so dependencies precede their dependents.
func Map(doc *ir.Document, opts Options) *Swagger {
	s := &Swagger{
		Swagger:  Version,
		Info:     opts.Info,
		Host:     opts.Host,
		BasePath: opts.BasePath,
		Paths:    map[string]any{},
	}
	if doc == nil {
		return s
	}

	for _, m := range doc.Models {
		s.Definitions.Set(m.ID, mapModel(doc, m))
	}
	for _, p := range doc.Parameters {
		mp := MapParameter(p)
		s.Parameters.Set(parameterKey(s.Parameters, mp), mp)
	}
	return s
}

// parameterKey returns the name of p, qualified with its location and then a
// counter while another parameter holds the key.
func parameterKey(params OrderedMap[*Parameter], p *Parameter) string {
	key := p.Name
	for i := 1; ; i++ {
		if _, taken := params.Get(key); !taken {
			return key
		}
		key = p.In + "." + p.Name
		if i > 1 {
			key += strconv.Itoa(i)
		}
	}
}

func mapModel(doc *ir.Document, m *ir.Model) *Schema {
	var base *ir.Model
	if m.BaseModel != "" {
		base = doc.FindModel(m.BaseModel)
	}

	own := &Schema{Type: "object"}
	for _, p := range m.Properties {
		if base != nil && base.Property(p.Name) != nil {
			continue
		}
		own.Properties.Set(p.Name, mapProperty(p))
		if p.Required {
			own.Required = append(own.Required, p.Name)
		}
	}

	if base == nil {
		own.Description = m.Description
		own.Discriminator = m.Discriminator
		return own
	}
	return &Schema{
		Description:   m.Description,
		Discriminator: m.Discriminator,
		AllOf:         []*Schema{{Ref: ref(base.ID)}, own},
	}
}

func mapProperty(p *ir.Property) *Schema {
	s := MapRef(p.ModelRef)
	s.Description = p.Description
	s.ReadOnly = p.ReadOnly
	s.Example = p.Example
	return s
}

// MapRef describes the schema a model reference points at, including the
// allowable values attached to its innermost item.
func MapRef(r *ir.ModelRef) *Schema {
	if r == nil {
		return &Schema{Type: "object"}
	}
	switch r.Container {
	case ir.ContainerList:
		return &Schema{Type: "array", Items: MapRef(r.Item)}
	case ir.ContainerMap:
		return &Schema{Type: "object", AdditionalProperties: MapRef(r.Item)}
	}
	if r.IsModel {
		return &Schema{Ref: ref(r.Type)}
	}

	s := &Schema{Type: r.Type, Format: r.Format}
	if b, ok := schema.BaseTypeByName(r.Type); ok {
		s.Type, s.Format = b.Type, b.Format
	}
	applyAllowable(r.AllowableValues, &s.Enum, &s.Minimum, &s.ExclusiveMinimum, &s.Maximum, &s.ExclusiveMaximum)
	return s
}

// MapParameter maps a parameter the way Swagger 2 expects: body parameters
// carry a schema, the others their type inline.
func MapParameter(p *ir.Parameter) *Parameter {
	out := &Parameter{
		Name:        p.Name,
		In:          p.ParamType,
		Description: p.Description,
		Required:    p.Required || p.ParamType == ir.ParamPath,
		Default:     p.DefaultValue,
		Example:     p.Example,
	}
	if out.In == "" {
		out.In = ir.ParamQuery
	}
	if out.In == ir.ParamBody {
		out.Schema = MapRef(p.ModelRef)
		return out
	}

	s := MapRef(p.ModelRef)
	switch {
	case s.Ref != "" || s.AdditionalProperties != nil:
		// Only body parameters can carry a structured value.
		out.Type = "string"
	case s.Type == "array":
		out.Type = "array"
		out.Items = s.Items
		out.CollectionFormat = "multi"
	default:
		out.Type, out.Format = s.Type, s.Format
		out.Enum = s.Enum
		out.Minimum, out.ExclusiveMinimum = s.Minimum, s.ExclusiveMinimum
		out.Maximum, out.ExclusiveMaximum = s.Maximum, s.ExclusiveMaximum
	}
	return out
}

func applyAllowable(av ir.AllowableValues, enum *[]string, lo **Number, exLo *bool, hi **Number, exHi *bool) {
	switch v := av.(type) {
	case *ir.AllowableList:
		*enum = append([]string(nil), v.Values...)
	case *ir.AllowableRange:
		if v.Min != "" {
			*lo, *exLo = NewNumber(v.Min), v.ExclusiveMin
		}
		if v.Max != "" {
			*hi, *exHi = NewNumber(v.Max), v.ExclusiveMax
		}
	}
}

func ref(id string) string { return "#/definitions/" + id }
