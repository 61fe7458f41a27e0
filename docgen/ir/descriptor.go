package ir

import "strings"

// Kind identifies the shape of a type descriptor.
type Kind int

const (
	KindStruct    Kind = iota // Named type with introspectable members
	KindEnum                  // Defined type with a fixed set of named constants
	KindPrimitive             // Builtin type (string, int64, bool, ...)
	KindSlice                 // []T
	KindArray                 // [N]T
	KindMap                   // map[K]V
	KindInterface             // Interface types, including any
	KindUnknown               // chan, func and other shapes with no schema
	KindWildcard              // Placeholder matching any type in alternate rules
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "Struct"
	case KindEnum:
		return "Enum"
	case KindPrimitive:
		return "Primitive"
	case KindSlice:
		return "Slice"
	case KindArray:
		return "Array"
	case KindMap:
		return "Map"
	case KindInterface:
		return "Interface"
	case KindUnknown:
		return "Unknown"
	case KindWildcard:
		return "Wildcard"
	default:
		return "Invalid"
	}
}

// TypeDescriptor is the normalized, generic-aware identity of a type.
//
// Identity is the erased base type (package path and simple name) plus the
// ordered type arguments. Slices and arrays share the erased base "[]" and
// maps use "map", so their element types are their arguments. Pointers never
// appear: providers dereference them.
//
// A TypeDescriptor is immutable once constructed. Use Key to place it in maps.
type TypeDescriptor struct {
	kind Kind
	pkg  string
	name string
	args []*TypeDescriptor
	key  string
}

// Named returns a descriptor for a named (complex) type, optionally instantiated
// with type arguments.
func Named(pkg, name string, args ...*TypeDescriptor) *TypeDescriptor {
	return newDescriptor(KindStruct, pkg, name, args)
}

// Enum returns a descriptor for a defined type whose values are a fixed set of constants.
func Enum(pkg, name string) *TypeDescriptor {
	return newDescriptor(KindEnum, pkg, name, nil)
}

// Primitive returns a descriptor for a builtin type such as "string" or "int64".
func Primitive(name string) *TypeDescriptor {
	return newDescriptor(KindPrimitive, "", name, nil)
}

// Slice returns a descriptor for []elem.
func Slice(elem *TypeDescriptor) *TypeDescriptor {
	return newDescriptor(KindSlice, "", "[]", []*TypeDescriptor{elem})
}

// Array returns a descriptor for [N]elem. The length is not part of the identity.
func Array(elem *TypeDescriptor) *TypeDescriptor {
	return newDescriptor(KindArray, "", "[]", []*TypeDescriptor{elem})
}

// Map returns a descriptor for map[key]value.
func Map(key, value *TypeDescriptor) *TypeDescriptor {
	return newDescriptor(KindMap, "", "map", []*TypeDescriptor{key, value})
}

// Interface returns a descriptor for an interface type.
// Pass empty strings for the unnamed empty interface (any).
func Interface(pkg, name string) *TypeDescriptor {
	if name == "" {
		name = "any"
		pkg = ""
	}
	return newDescriptor(KindInterface, pkg, name, nil)
}

// Unknown returns a descriptor for a shape that cannot be represented in a schema.
// repr is a display string such as "chan int".
func Unknown(repr string) *TypeDescriptor {
	return newDescriptor(KindUnknown, "", repr, nil)
}

// Wildcard returns the placeholder used by alternate type rules to match any type.
func Wildcard() *TypeDescriptor {
	return newDescriptor(KindWildcard, "", "?", nil)
}

func newDescriptor(kind Kind, pkg, name string, args []*TypeDescriptor) *TypeDescriptor {
	d := &TypeDescriptor{kind: kind, pkg: pkg, name: name}
	if len(args) > 0 {
		d.args = make([]*TypeDescriptor, len(args))
		copy(d.args, args)
	}
	d.key = d.computeKey()
	return d
}

func (d *TypeDescriptor) computeKey() string {
	var sb strings.Builder
	switch d.kind {
	case KindSlice, KindArray:
		sb.WriteString("[]")
		sb.WriteString(d.args[0].Key())
	case KindMap:
		sb.WriteString("map[")
		sb.WriteString(d.args[0].Key())
		sb.WriteString("]")
		sb.WriteString(d.args[1].Key())
	default:
		sb.WriteString(d.QualifiedName())
		if len(d.args) > 0 {
			sb.WriteString("[")
			for i, a := range d.args {
				if i > 0 {
					sb.WriteString(",")
				}
				sb.WriteString(a.Key())
			}
			sb.WriteString("]")
		}
	}
	return sb.String()
}

// Kind returns the shape of the descriptor.
func (d *TypeDescriptor) Kind() Kind { return d.kind }

// Package returns the import path of the erased type, empty for builtins.
func (d *TypeDescriptor) Package() string { return d.pkg }

// Name returns the simple name of the erased type, without type arguments.
func (d *TypeDescriptor) Name() string { return d.name }

// Args returns a copy of the type arguments.
func (d *TypeDescriptor) Args() []*TypeDescriptor {
	if len(d.args) == 0 {
		return nil
	}
	out := make([]*TypeDescriptor, len(d.args))
	copy(out, d.args)
	return out
}

// NumArgs returns the number of type arguments.
func (d *TypeDescriptor) NumArgs() int { return len(d.args) }

// Arg returns the i'th type argument.
func (d *TypeDescriptor) Arg(i int) *TypeDescriptor { return d.args[i] }

// Elem returns the element type of a slice or array, nil otherwise.
func (d *TypeDescriptor) Elem() *TypeDescriptor {
	if d.kind != KindSlice && d.kind != KindArray {
		return nil
	}
	return d.args[0]
}

// MapKey returns the key type of a map, nil otherwise.
func (d *TypeDescriptor) MapKey() *TypeDescriptor {
	if d.kind != KindMap {
		return nil
	}
	return d.args[0]
}

// MapValue returns the value type of a map, nil otherwise.
func (d *TypeDescriptor) MapValue() *TypeDescriptor {
	if d.kind != KindMap {
		return nil
	}
	return d.args[1]
}

// QualifiedName returns the erased type's package-qualified name, e.g.
// "github.com/acme/api.User". Builtins return their bare name.
func (d *TypeDescriptor) QualifiedName() string {
	if d.pkg == "" {
		return d.name
	}
	return d.pkg + "." + d.name
}

// Key returns the canonical identity string. Two descriptors are equal iff
// their keys are equal.
func (d *TypeDescriptor) Key() string { return d.key }

// Equal reports whether d and other have the same identity.
func (d *TypeDescriptor) Equal(other *TypeDescriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.key == other.key
}

// WithArgs returns a copy of d with its type arguments replaced.
func (d *TypeDescriptor) WithArgs(args ...*TypeDescriptor) *TypeDescriptor {
	return newDescriptor(d.kind, d.pkg, d.name, args)
}

// String returns a Go-like display form using short package names,
// e.g. "api.Page[api.User]" or "[]string".
func (d *TypeDescriptor) String() string {
	if d == nil {
		return "<nil>"
	}
	switch d.kind {
	case KindSlice, KindArray:
		return "[]" + d.args[0].String()
	case KindMap:
		return "map[" + d.args[0].String() + "]" + d.args[1].String()
	}
	name := d.name
	if d.pkg != "" {
		name = lastSegment(d.pkg) + "." + name
	}
	if len(d.args) == 0 {
		return name
	}
	parts := make([]string, len(d.args))
	for i, a := range d.args {
		parts[i] = a.String()
	}
	return name + "[" + strings.Join(parts, ",") + "]"
}

func lastSegment(pkg string) string {
	if i := strings.LastIndex(pkg, "/"); i >= 0 {
		return pkg[i+1:]
	}
	return pkg
}
