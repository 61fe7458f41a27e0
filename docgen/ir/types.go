// Package ir defines the data model shared by the schema engine, its metadata
// sources and the emitters: type descriptors, models, properties, allowable
// values and parameters.
package ir

import (
	"fmt"
	"reflect"
)

// Member is one declared member of a complex type, as reported by a metadata source.
type Member struct {
	// Name is the Go field name.
	Name string

	// Type is the member's declared type with pointers removed.
	Type *TypeDescriptor

	// Tag holds the raw struct tag. Enrichment stages read constraints,
	// names and documentation hints from it.
	Tag reflect.StructTag

	// Doc is the member's documentation comment, if the source knows it.
	Doc string

	// Embedded reports an anonymous (embedded) field.
	Embedded bool

	// Nullable reports a member declared through a pointer.
	Nullable bool
}

// EnumConstant is one named constant of an enum type.
type EnumConstant struct {
	// Name is the constant's identifier, or its String() form when the source
	// only has the value.
	Name string

	// Value is the constant value (string, int64, float64 or bool for source
	// providers; the runtime value for reflection).
	Value any

	// Serialized is an explicit wire form (MarshalText/MarshalJSON).
	// Empty when the constant has no override.
	Serialized string
}

// String returns the constant's default string form: string values verbatim,
// otherwise the constant name.
func (c EnumConstant) String() string {
	if s, ok := c.Value.(string); ok {
		return s
	}
	if c.Name != "" {
		return c.Name
	}
	if c.Value != nil {
		return fmt.Sprint(c.Value)
	}
	return ""
}

// TypeMetadata is type-level documentation supplied by a metadata source.
type TypeMetadata struct {
	Description   string
	Discriminator string
	SubTypes      []*TypeDescriptor
}

// IsZero returns true if no metadata is present.
func (m TypeMetadata) IsZero() bool {
	return m.Description == "" && m.Discriminator == "" && len(m.SubTypes) == 0
}

// Warning represents a non-fatal issue encountered during resolution.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// TypeName is the type that triggered the warning, if applicable.
	TypeName string
}
