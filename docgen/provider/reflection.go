package provider

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/springdox/springdox/docgen/ir"
	"github.com/springdox/springdox/docgen/schema"
)

// Optional methods a type can declare to document itself when described
// through reflection. Methods promoted from an embedded type are ignored.
type (
	schemaDescriber     interface{ SchemaDescription() string }
	schemaDiscriminator interface{ SchemaDiscriminator() string }
	schemaSubtyper      interface{ SchemaSubtypes() []any }
)

// ReflectionProvider extracts type metadata using runtime reflection.
// It has no access to doc comments; types document themselves through the
// SchemaDescription, SchemaDiscriminator and SchemaSubtypes methods, and
// enums must be registered with WithEnum.
type ReflectionProvider struct {
	mu     sync.RWMutex
	types  map[string]reflect.Type
	enums  map[reflect.Type][]any
	byName map[string]reflect.Type
}

// NewReflectionProvider returns an empty provider.
func NewReflectionProvider() *ReflectionProvider {
	return &ReflectionProvider{
		types:  make(map[string]reflect.Type),
		enums:  make(map[reflect.Type][]any),
		byName: make(map[string]reflect.Type),
	}
}

// WithEnum registers values as the constants of their (shared) type, in order.
// It panics if the values have different types.
func (p *ReflectionProvider) WithEnum(values ...any) *ReflectionProvider {
	if len(values) == 0 {
		return p
	}
	t := reflect.TypeOf(values[0])
	for _, v := range values[1:] {
		if reflect.TypeOf(v) != t {
			panic(fmt.Sprintf("provider: enum values of mixed types %s and %T", t, v))
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.enums[t] = append(p.enums[t], values...)
	return p
}

// Describe returns the descriptor of t and remembers t so its members and
// metadata can be read later.
func (p *ReflectionProvider) Describe(t reflect.Type) *ir.TypeDescriptor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.describe(t, anonOwner{})
}

// anonOwner names the synthetic model of an anonymous struct met in a field.
// declared is set when name is the declared type standing for the struct.
type anonOwner struct {
	pkg, name string
	args      []*ir.TypeDescriptor
	declared  bool
}

// describe must be called with p.mu held.
func (p *ReflectionProvider) describe(t reflect.Type, owner anonOwner) *ir.TypeDescriptor {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Name() != "" && t.PkgPath() != "" {
		p.byName[t.PkgPath()+"."+t.Name()] = t
		if schema.IsBaseName(t.PkgPath(), t.Name()) {
			if t.Kind() == reflect.Interface {
				return ir.Interface(t.PkgPath(), t.Name())
			}
			return ir.Named(t.PkgPath(), t.Name())
		}
		if _, ok := p.enums[t]; ok {
			d := ir.Enum(t.PkgPath(), t.Name())
			p.types[d.Key()] = t
			return d
		}
	}

	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return ir.Primitive(t.Kind().String())

	case reflect.Slice:
		return ir.Slice(p.describe(t.Elem(), owner))

	case reflect.Array:
		return ir.Array(p.describe(t.Elem(), owner))

	case reflect.Map:
		return ir.Map(p.describe(t.Key(), owner), p.describe(t.Elem(), owner))

	case reflect.Interface:
		if t.Name() == "" || t.PkgPath() == "" {
			return ir.Interface("", "")
		}
		return ir.Interface(t.PkgPath(), t.Name())

	case reflect.Struct:
		return p.describeStruct(t, owner)
	}
	return ir.Unknown(t.String())
}

func (p *ReflectionProvider) describeStruct(t reflect.Type, owner anonOwner) *ir.TypeDescriptor {
	if t.Name() == "" {
		if owner.name == "" {
			owner.name = "Anonymous"
		}
		name := owner.name
		for i := 2; ; i++ {
			d := ir.Named(owner.pkg, name, owner.args...)
			prev, seen := p.types[d.Key()]
			if seen && prev == t {
				return d
			}
			if _, declared := p.byName[owner.pkg+"."+name]; !seen && !declared {
				p.types[d.Key()] = t
				return d
			}
			name = owner.name + strconv.Itoa(i)
		}
	}

	name, rawArgs := splitTypeArgs(t.Name())
	var args []*ir.TypeDescriptor
	if len(rawArgs) > 0 {
		// Type arguments are only known by name; describe the fields first so
		// that named arguments reached through them resolve to real types.
		for i := 0; i < t.NumField(); i++ {
			p.learn(t.Field(i).Type)
		}
		for _, a := range rawArgs {
			args = append(args, p.parseArg(a))
		}
	}
	d := ir.Named(t.PkgPath(), name, args...)
	p.types[d.Key()] = t
	return d
}

// learn records the named types reachable through t's element types.
func (p *ReflectionProvider) learn(t reflect.Type) {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		p.learn(t.Elem())
		return
	case reflect.Map:
		p.learn(t.Key())
		p.learn(t.Elem())
		return
	}
	if t.Name() != "" && t.PkgPath() != "" {
		p.byName[t.PkgPath()+"."+t.Name()] = t
	}
}

// parseArg turns one type argument, as printed in an instantiated type's
// name, back into a descriptor.
func (p *ReflectionProvider) parseArg(s string) *ir.TypeDescriptor {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "*"):
		return p.parseArg(s[1:])
	case strings.HasPrefix(s, "[]"):
		return ir.Slice(p.parseArg(s[2:]))
	case strings.HasPrefix(s, "["):
		if end := strings.IndexByte(s, ']'); end > 0 {
			return ir.Array(p.parseArg(s[end+1:]))
		}
	case strings.HasPrefix(s, "map["):
		if end := matchingBracket(s, 3); end > 0 {
			return ir.Map(p.parseArg(s[4:end]), p.parseArg(s[end+1:]))
		}
	case s == "interface {}" || s == "any":
		return ir.Interface("", "")
	}

	if t, ok := p.byName[s]; ok {
		return p.describe(t, anonOwner{})
	}

	base, rawArgs := splitTypeArgs(s)
	dot := strings.LastIndex(base, ".")
	if dot < 0 {
		if rt, ok := builtinTypes[base]; ok {
			return p.describe(rt, anonOwner{})
		}
		return ir.Unknown(s)
	}
	var args []*ir.TypeDescriptor
	for _, a := range rawArgs {
		args = append(args, p.parseArg(a))
	}
	return ir.Named(base[:dot], base[dot+1:], args...)
}

var builtinTypes = map[string]reflect.Type{
	"bool":    reflect.TypeFor[bool](),
	"string":  reflect.TypeFor[string](),
	"int":     reflect.TypeFor[int](),
	"int8":    reflect.TypeFor[int8](),
	"int16":   reflect.TypeFor[int16](),
	"int32":   reflect.TypeFor[int32](),
	"int64":   reflect.TypeFor[int64](),
	"uint":    reflect.TypeFor[uint](),
	"uint8":   reflect.TypeFor[uint8](),
	"uint16":  reflect.TypeFor[uint16](),
	"uint32":  reflect.TypeFor[uint32](),
	"uint64":  reflect.TypeFor[uint64](),
	"uintptr": reflect.TypeFor[uintptr](),
	"float32": reflect.TypeFor[float32](),
	"float64": reflect.TypeFor[float64](),
}

// splitTypeArgs splits "Page[a.B,map[string]c.D]" into "Page" and its
// top-level arguments.
func splitTypeArgs(name string) (string, []string) {
	open := strings.IndexByte(name, '[')
	if open < 0 || !strings.HasSuffix(name, "]") {
		return name, nil
	}
	// Package paths never contain brackets, so the first one opens the
	// argument list.
	inner := name[open+1 : len(name)-1]
	var (
		args  []string
		depth int
		start int
	)
	for i, r := range inner {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, inner[start:i])
				start = i + 1
			}
		}
	}
	args = append(args, inner[start:])
	return name[:open], args
}

// matchingBracket returns the index of the bracket closing the one at open.
func matchingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Members implements schema.TypeSource.
func (p *ReflectionProvider) Members(d *ir.TypeDescriptor) ([]ir.Member, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.types[d.Key()]
	if !ok || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("members of %s: %w", d, ErrTypeNotFound)
	}

	members := make([]ir.Member, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() && !f.Anonymous {
			continue
		}
		members = append(members, ir.Member{
			Name:     f.Name,
			Type:     p.describe(f.Type, anonOwner{pkg: d.Package(), name: d.Name() + f.Name, args: d.Args()}),
			Tag:      f.Tag,
			Embedded: f.Anonymous,
			Nullable: f.Type.Kind() == reflect.Pointer,
		})
	}
	return members, nil
}

// EnumConstants implements schema.TypeSource for types registered with WithEnum.
func (p *ReflectionProvider) EnumConstants(d *ir.TypeDescriptor) ([]ir.EnumConstant, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	t, ok := p.types[d.Key()]
	if !ok {
		return nil, fmt.Errorf("enum constants of %s: %w", d, ErrTypeNotFound)
	}
	values := p.enums[t]
	out := make([]ir.EnumConstant, 0, len(values))
	for _, v := range values {
		c := ir.EnumConstant{Value: v, Name: fmt.Sprint(v)}
		serialized, err := serializedForm(v)
		if err != nil {
			return nil, fmt.Errorf("enum constant %s of %s: %w", c.Name, d, err)
		}
		c.Serialized = serialized
		out = append(out, c)
	}
	return out, nil
}

// serializedForm returns the wire form of v when its type overrides it.
func serializedForm(v any) (string, error) {
	switch m := v.(type) {
	case encoding.TextMarshaler:
		b, err := m.MarshalText()
		return string(b), err
	case json.Marshaler:
		b, err := m.MarshalJSON()
		if err != nil {
			return "", err
		}
		var s string
		if json.Unmarshal(b, &s) == nil {
			return s, nil
		}
		return string(b), nil
	}
	return "", nil
}

// TypeMetadata implements schema.TypeSource by calling the type's optional
// Schema* methods on its zero value.
func (p *ReflectionProvider) TypeMetadata(d *ir.TypeDescriptor) (md ir.TypeMetadata, err error) {
	p.mu.RLock()
	t, ok := p.types[d.Key()]
	p.mu.RUnlock()
	if !ok {
		return ir.TypeMetadata{}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			md, err = ir.TypeMetadata{}, fmt.Errorf("metadata of %s: panic: %v", d, r)
		}
	}()

	v := reflect.New(t).Elem().Interface()
	embedded := embeddedValues(t)

	if x, ok := v.(schemaDescriber); ok && !promoted(x.SchemaDescription(), embedded, func(e any) (any, bool) {
		y, ok := e.(schemaDescriber)
		if !ok {
			return nil, false
		}
		return y.SchemaDescription(), true
	}) {
		md.Description = x.SchemaDescription()
	}

	if x, ok := v.(schemaDiscriminator); ok && !promoted(x.SchemaDiscriminator(), embedded, func(e any) (any, bool) {
		y, ok := e.(schemaDiscriminator)
		if !ok {
			return nil, false
		}
		return y.SchemaDiscriminator(), true
	}) {
		md.Discriminator = x.SchemaDiscriminator()
	}

	if x, ok := v.(schemaSubtyper); ok {
		subs := x.SchemaSubtypes()
		if !promoted(subs, embedded, func(e any) (any, bool) {
			y, ok := e.(schemaSubtyper)
			if !ok {
				return nil, false
			}
			return y.SchemaSubtypes(), true
		}) {
			p.mu.Lock()
			for _, s := range subs {
				if s == nil {
					continue
				}
				md.SubTypes = append(md.SubTypes, p.describe(reflect.TypeOf(s), anonOwner{}))
			}
			p.mu.Unlock()
		}
	}
	return md, nil
}

// embeddedValues returns zero values of t's embedded fields.
func embeddedValues(t reflect.Type) []any {
	var out []any
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous || !f.IsExported() {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		out = append(out, reflect.New(ft).Elem().Interface())
	}
	return out
}

// promoted reports whether got is what an embedded value returns for the
// same method, meaning the method was promoted rather than declared.
func promoted(got any, embedded []any, call func(any) (any, bool)) bool {
	for _, e := range embedded {
		if want, ok := call(e); ok && reflect.DeepEqual(got, want) {
			return true
		}
	}
	return false
}
