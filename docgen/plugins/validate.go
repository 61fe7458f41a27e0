package plugins

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/springdox/springdox/docgen/ir"
)

// The bean-validation stages read go-playground/validator "validate" tags.
// Rules before a "dive" constrain the member itself; rules after it
// constrain the elements of a slice or the values of a map.

type validateRule struct {
	name  string
	param string
}

// validateRules splits a validate tag into the rules for the member and the
// rules for its elements.
func validateRules(tag reflect.StructTag) (member, elem []validateRule) {
	raw, ok := tag.Lookup("validate")
	if !ok || raw == "" || raw == "-" {
		return nil, nil
	}
	dived := false
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "dive" {
			if dived {
				break
			}
			dived = true
			continue
		}
		// Alternatives ("a|b") cannot be expressed as a single constraint.
		if strings.Contains(part, "|") {
			continue
		}
		name, param, _ := strings.Cut(part, "=")
		r := validateRule{name: name, param: param}
		if dived {
			elem = append(elem, r)
		} else {
			member = append(member, r)
		}
	}
	return member, elem
}

// constrainedRules returns the rules that apply to the value described by
// ValueType: element rules for containers, member rules otherwise.
func constrainedRules(m ir.Member, valueType *ir.TypeDescriptor) []validateRule {
	member, elem := validateRules(m.Tag)
	if m.Type != nil && valueType != nil && !m.Type.Equal(valueType) {
		return elem
	}
	return member
}

// RequiredConstraint marks members tagged validate:"required" as required.
type RequiredConstraint struct{}

func (RequiredConstraint) Supports(DocumentationType) bool { return true }
func (RequiredConstraint) Order() int                      { return BeanValidatorOrder }

func (RequiredConstraint) ApplyProperty(ctx *PropertyContext) {
	if hasRequired(ctx.Member.Tag) {
		ctx.Property.Required = true
	}
}

func (RequiredConstraint) ApplyParameter(ctx *ParameterContext) {
	if hasRequired(ctx.Member.Tag) {
		ctx.Parameter.Required = true
	}
}

func hasRequired(tag reflect.StructTag) bool {
	member, _ := validateRules(tag)
	for _, r := range member {
		if r.name == "required" {
			return true
		}
	}
	return false
}

// RangeConstraint combines lower and upper bound rules on numeric values into
// a single RANGE. min/gte are inclusive lower bounds and gt is exclusive;
// max/lte and lt mirror them. Exclusive bounds on integers are normalized to
// inclusive ones (gt=0 becomes min 1).
type RangeConstraint struct{}

func (RangeConstraint) Supports(DocumentationType) bool { return true }
func (RangeConstraint) Order() int                      { return BeanValidatorOrder }

func (RangeConstraint) ApplyProperty(ctx *PropertyContext) {
	if r := allowableRange(constrainedRules(ctx.Member, ctx.ValueType), ctx.ValueType); r != nil {
		ctx.Property.AllowableValues = r
	}
}

func (RangeConstraint) ApplyParameter(ctx *ParameterContext) {
	if r := allowableRange(constrainedRules(ctx.Member, ctx.ValueType), ctx.ValueType); r != nil {
		ctx.Parameter.AllowableValues = r
	}
}

func allowableRange(rules []validateRule, t *ir.TypeDescriptor) ir.AllowableValues {
	integer := isInteger(t)
	if !integer && !isFloat(t) {
		return nil
	}
	rng := &ir.AllowableRange{}
	for _, r := range rules {
		switch r.name {
		case "min", "gte":
			rng.Min, rng.ExclusiveMin = r.param, false
		case "gt":
			rng.Min, rng.ExclusiveMin = exclusiveBound(r.param, 1, integer)
		case "max", "lte":
			rng.Max, rng.ExclusiveMax = r.param, false
		case "lt":
			rng.Max, rng.ExclusiveMax = exclusiveBound(r.param, -1, integer)
		}
	}
	if rng.Min == "" && rng.Max == "" {
		return nil
	}
	return rng
}

// exclusiveBound turns an exclusive integer bound into the adjacent inclusive
// one. Other bounds are returned unchanged and flagged exclusive.
func exclusiveBound(param string, step int64, integer bool) (string, bool) {
	if integer {
		if n, err := strconv.ParseInt(param, 10, 64); err == nil {
			return strconv.FormatInt(n+step, 10), false
		}
	}
	return param, true
}

// OneOfConstraint turns validate:"oneof=a b c" into an ENUMERATED constraint.
type OneOfConstraint struct{}

func (OneOfConstraint) Supports(DocumentationType) bool { return true }
func (OneOfConstraint) Order() int                      { return BeanValidatorOrder }

func (OneOfConstraint) ApplyProperty(ctx *PropertyContext) {
	if v := oneOf(constrainedRules(ctx.Member, ctx.ValueType)); v != nil {
		ctx.Property.AllowableValues = v
	}
}

func (OneOfConstraint) ApplyParameter(ctx *ParameterContext) {
	if v := oneOf(constrainedRules(ctx.Member, ctx.ValueType)); v != nil {
		ctx.Parameter.AllowableValues = v
	}
}

func oneOf(rules []validateRule) ir.AllowableValues {
	for _, r := range rules {
		if r.name == "oneof" {
			return ir.ListOf(splitOneOf(r.param)...)
		}
	}
	return nil
}

// splitOneOf splits a oneof parameter on spaces, honoring single quotes.
func splitOneOf(param string) []string {
	var (
		values []string
		cur    strings.Builder
		quoted bool
	)
	flush := func() {
		if cur.Len() > 0 {
			values = append(values, cur.String())
			cur.Reset()
		}
	}
	for _, r := range param {
		switch {
		case r == '\'':
			quoted = !quoted
		case r == ' ' && !quoted:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return values
}

var (
	integerTypes = map[string]bool{
		"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
		"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
		"byte": true, "rune": true, "uintptr": true,
	}
	floatTypes = map[string]bool{"float32": true, "float64": true}
)

func isInteger(t *ir.TypeDescriptor) bool {
	return t != nil && t.Kind() == ir.KindPrimitive && integerTypes[t.Name()]
}

func isFloat(t *ir.TypeDescriptor) bool {
	return t != nil && t.Kind() == ir.KindPrimitive && floatTypes[t.Name()]
}
