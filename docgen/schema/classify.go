package schema

import "github.com/springdox/springdox/docgen/ir"

// Category is the classification of a type descriptor.
type Category int

const (
	// Complex types have introspectable properties and become models.
	Complex Category = iota
	// Container is a slice or array of one element type.
	Container
	// Map associates string-like keys with one value type.
	Map
	// Enum has a fixed set of named constants.
	Enum
	// Base is a member of the static base-type registry.
	Base
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case Complex:
		return "COMPLEX"
	case Container:
		return "CONTAINER"
	case Map:
		return "MAP"
	case Enum:
		return "ENUM"
	case Base:
		return "BASE"
	default:
		return "INVALID"
	}
}

// Classify decides how d is represented in a schema. It is a pure function of
// the descriptor and the base-type registry. Shapes it does not recognize are
// Complex, which yields a model with no properties rather than an error.
func Classify(d *ir.TypeDescriptor) Category {
	if _, ok := LookupBase(d); ok {
		return Base
	}
	switch d.Kind() {
	case ir.KindSlice, ir.KindArray:
		return Container
	case ir.KindMap:
		return Map
	case ir.KindEnum:
		return Enum
	}
	return Complex
}
