package schema

import "github.com/springdox/springdox/docgen/ir"

// AlternateRule substitutes one type for another before classification.
//
// From may contain ir.Wildcard placeholders, each matching any type. Types
// matched by wildcards are substituted, in order, for the wildcards in To:
//
//	// Response[T] is documented as T.
//	schema.AlternateRule{From: ir.Named("example.com/api", "Response", ir.Wildcard()), To: ir.Wildcard()}
type AlternateRule struct {
	From *ir.TypeDescriptor
	To   *ir.TypeDescriptor
}

// NewRule returns the rule substituting to for from.
func NewRule(from, to *ir.TypeDescriptor) AlternateRule {
	return AlternateRule{From: from, To: to}
}

// Applies reports whether the rule matches d.
func (r AlternateRule) Applies(d *ir.TypeDescriptor) bool {
	var bound []*ir.TypeDescriptor
	return matchPattern(r.From, d, &bound)
}

// Alternate returns the substitution for d, or d itself when the rule does
// not match.
func (r AlternateRule) Alternate(d *ir.TypeDescriptor) *ir.TypeDescriptor {
	var bound []*ir.TypeDescriptor
	if !matchPattern(r.From, d, &bound) {
		return d
	}
	next := 0
	return substitute(r.To, bound, &next)
}

func matchPattern(pattern, d *ir.TypeDescriptor, bound *[]*ir.TypeDescriptor) bool {
	if pattern == nil || d == nil {
		return false
	}
	if pattern.Kind() == ir.KindWildcard {
		*bound = append(*bound, d)
		return true
	}
	if !sameShape(pattern, d) {
		return false
	}
	if pattern.NumArgs() != d.NumArgs() {
		return false
	}
	for i := 0; i < pattern.NumArgs(); i++ {
		if !matchPattern(pattern.Arg(i), d.Arg(i), bound) {
			return false
		}
	}
	return true
}

func sameShape(a, b *ir.TypeDescriptor) bool {
	if a.Kind() != b.Kind() {
		// Arrays and slices share an erased base.
		return isSequence(a) && isSequence(b)
	}
	return a.Package() == b.Package() && a.Name() == b.Name()
}

func isSequence(d *ir.TypeDescriptor) bool {
	return d.Kind() == ir.KindSlice || d.Kind() == ir.KindArray
}

// substitute replaces wildcards in tmpl with bound types, in order.
// Unbound wildcards become untyped objects.
func substitute(tmpl *ir.TypeDescriptor, bound []*ir.TypeDescriptor, next *int) *ir.TypeDescriptor {
	if tmpl.Kind() == ir.KindWildcard {
		if *next < len(bound) {
			d := bound[*next]
			*next++
			return d
		}
		return ir.Interface("", "")
	}
	if tmpl.NumArgs() == 0 {
		return tmpl
	}
	args := make([]*ir.TypeDescriptor, tmpl.NumArgs())
	for i := range args {
		args[i] = substitute(tmpl.Arg(i), bound, next)
	}
	return tmpl.WithArgs(args...)
}
