package plugins

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/springdox/springdox/docgen/ir"
)

// APIModelProperty applies the explicit `swagger` struct tag, a
// semicolon-separated list of options:
//
//	swagger:"description=Unique id;required;readOnly;position=1;example=42;allowableValues=range[1,]"
//
// Recognized options are description, required, readOnly, hidden, position,
// example, allowableValues and (parameters only) defaultValue. Boolean options
// may be written bare or as option=true|false.
type APIModelProperty struct{}

func (APIModelProperty) Supports(docType DocumentationType) bool { return swaggerDocumentation(docType) }

// Order places explicit options after the bean validation and doc tag stages
// so that they win.
func (APIModelProperty) Order() int { return SwaggerOrder + 1 }

func (APIModelProperty) ApplyProperty(ctx *PropertyContext) {
	opts, ok := swaggerOptions(ctx.Member.Tag)
	if !ok {
		return
	}
	p := ctx.Property
	if v, ok := opts["description"]; ok && v != "" {
		p.Description = v
	}
	if v, ok := opts["example"]; ok && v != "" {
		p.Example = v
	}
	if v, ok := opts["required"]; ok {
		p.Required = optionBool(v)
	}
	if v, ok := opts["readOnly"]; ok {
		p.ReadOnly = optionBool(v)
	}
	if v, ok := opts["hidden"]; ok {
		p.Hidden = optionBool(v)
	}
	if v, ok := opts["position"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			p.Position = n
		}
	}
	if v, ok := opts["allowableValues"]; ok {
		if av := ir.ParseAllowableValues(v); av != nil {
			p.AllowableValues = av
		}
	}
}

func (APIModelProperty) ApplyParameter(ctx *ParameterContext) {
	opts, ok := swaggerOptions(ctx.Member.Tag)
	if !ok {
		return
	}
	p := ctx.Parameter
	if v, ok := opts["description"]; ok && v != "" {
		p.Description = v
	}
	if v, ok := opts["example"]; ok && v != "" {
		p.Example = v
	}
	if v, ok := opts["defaultValue"]; ok && v != "" {
		p.DefaultValue = v
	}
	if v, ok := opts["required"]; ok {
		p.Required = optionBool(v)
	}
	if v, ok := opts["hidden"]; ok {
		p.Hidden = optionBool(v)
	}
	if v, ok := opts["position"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			p.Order = n
		}
	}
	if v, ok := opts["allowableValues"]; ok {
		if av := ir.ParseAllowableValues(v); av != nil {
			p.AllowableValues = av
		}
	}
}

// swaggerOptions parses the swagger tag. Bare options map to "true".
func swaggerOptions(tag reflect.StructTag) (map[string]string, bool) {
	raw, ok := tag.Lookup("swagger")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, false
	}
	opts := make(map[string]string)
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !found {
			opts[key] = "true"
			continue
		}
		opts[key] = strings.TrimSpace(value)
	}
	return opts, true
}

func optionBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
