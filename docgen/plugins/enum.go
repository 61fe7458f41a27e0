package plugins

import "github.com/springdox/springdox/docgen/ir"

// EnumValues lists the constants of an enum-typed value as an ENUMERATED
// constraint. A constant's serialized form is preferred over its default
// string form.
type EnumValues struct{}

func (EnumValues) Supports(DocumentationType) bool { return true }
func (EnumValues) Order() int                      { return HighestPrecedence + 20 }

func (EnumValues) ApplyProperty(ctx *PropertyContext) {
	if v := enumAllowableValues(ctx.ValueType, ctx.EnumConstants); v != nil {
		ctx.Property.AllowableValues = v
	}
}

func (EnumValues) ApplyParameter(ctx *ParameterContext) {
	if v := enumAllowableValues(ctx.ValueType, ctx.EnumConstants); v != nil {
		ctx.Parameter.AllowableValues = v
	}
}

func enumAllowableValues(t *ir.TypeDescriptor, constants []ir.EnumConstant) ir.AllowableValues {
	if t == nil || t.Kind() != ir.KindEnum {
		return nil
	}
	return ir.ListOf(EnumStrings(constants)...)
}

// EnumStrings returns the wire strings of constants, de-duplicated in
// first-seen order.
func EnumStrings(constants []ir.EnumConstant) []string {
	seen := make(map[string]bool, len(constants))
	var out []string
	for _, c := range constants {
		s := c.Serialized
		if s == "" {
			s = c.String()
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
