package schema

import (
	"strings"
	"sync"

	"github.com/springdox/springdox/docgen/ir"
)

// Namer assigns canonical model names. The first erased type to claim a
// simple name keeps it; later distinct types with the same simple name are
// qualified with trailing package path segments ("b.User", "pkg.b.User").
//
// Instantiated generic types are named from their arguments (Page<User>).
// Argument names are documentation names, so distinct instantiations can
// render alike (Page[int] and Page[int64] are both Page<long>). The first
// instantiation keeps the short id; a later one falls back to its Go
// argument names (Page<int64>) and then to its full type key.
//
// A Namer is safe for concurrent use and is meant to be shared by every
// resolution feeding one document, so that names stay stable across calls.
type Namer struct {
	mu     sync.Mutex
	owners map[string]string // model name -> qualified erased type
	names  map[string]string // qualified erased type -> model name
	ids    map[string]string // instantiated model id -> descriptor key
	keys   map[string]string // descriptor key -> instantiated model id
}

// NewNamer returns an empty Namer.
func NewNamer() *Namer {
	return &Namer{
		owners: make(map[string]string),
		names:  make(map[string]string),
		ids:    make(map[string]string),
		keys:   make(map[string]string),
	}
}

// TypeName returns the model name of d. Generic arguments are appended in
// angle brackets: Page<User>, Map<string,User>, List<User>.
func (n *Namer) TypeName(d *ir.TypeDescriptor) (string, error) {
	if _, ok := LookupBase(d); ok {
		return n.render(d, false)
	}
	switch d.Kind() {
	case ir.KindSlice, ir.KindArray, ir.KindMap:
		return n.render(d, false)
	case ir.KindUnknown:
	default:
		if d.NumArgs() == 0 {
			return n.claim(d.Package(), d.Name())
		}
	}

	key := d.Key()
	n.mu.Lock()
	id, ok := n.keys[key]
	n.mu.Unlock()
	if ok {
		return id, nil
	}

	short, err := n.render(d, false)
	if err != nil {
		return "", err
	}
	exact, err := n.render(d, true)
	if err != nil {
		return "", err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if id, ok := n.keys[key]; ok {
		return id, nil
	}
	for _, candidate := range []string{short, exact, key} {
		if owner, taken := n.ids[candidate]; taken && owner != key {
			continue
		}
		if _, taken := n.owners[candidate]; taken {
			continue
		}
		n.ids[candidate] = key
		n.keys[key] = candidate
		return candidate, nil
	}
	owner := n.ids[short]
	if owner == "" {
		owner = n.owners[short]
	}
	return "", &NameCollisionError{Name: short, Type: key, Owner: owner}
}

// render writes the name of d. Unless exact is set, arguments use their
// documentation names: base types by registry name, arrays as lists and map
// keys as strings. With exact set they keep their Go names.
func (n *Namer) render(d *ir.TypeDescriptor, exact bool) (string, error) {
	if b, ok := LookupBase(d); ok {
		if exact && d.NumArgs() == 0 {
			return d.Name(), nil
		}
		return b.Name, nil
	}
	switch d.Kind() {
	case ir.KindSlice, ir.KindArray:
		elem, err := n.nested(d.Elem(), exact)
		if err != nil {
			return "", err
		}
		if exact && d.Kind() == ir.KindArray {
			return "Array<" + elem + ">", nil
		}
		return "List<" + elem + ">", nil
	case ir.KindMap:
		value, err := n.nested(d.MapValue(), exact)
		if err != nil {
			return "", err
		}
		key := "string"
		if exact {
			if key, err = n.nested(d.MapKey(), exact); err != nil {
				return "", err
			}
		}
		return "Map<" + key + "," + value + ">", nil
	case ir.KindUnknown:
		return d.Name(), nil
	}

	name, err := n.claim(d.Package(), d.Name())
	if err != nil {
		return "", err
	}
	if d.NumArgs() == 0 {
		return name, nil
	}
	args := make([]string, d.NumArgs())
	for i := range args {
		if args[i], err = n.nested(d.Arg(i), exact); err != nil {
			return "", err
		}
	}
	return name + "<" + strings.Join(args, ",") + ">", nil
}

// nested names a type met inside another name. Instantiated and unknown
// types use their own model id so that the outer name stays unique too.
func (n *Namer) nested(d *ir.TypeDescriptor, exact bool) (string, error) {
	if _, ok := LookupBase(d); !ok {
		switch d.Kind() {
		case ir.KindSlice, ir.KindArray, ir.KindMap:
		default:
			if d.Kind() == ir.KindUnknown || d.NumArgs() > 0 {
				return n.TypeName(d)
			}
		}
	}
	return n.render(d, exact)
}

// claim returns the name held by the erased type pkg.name, assigning one on
// first use.
func (n *Namer) claim(pkg, simple string) (string, error) {
	qualified := simple
	if pkg != "" {
		qualified = pkg + "." + simple
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if name, ok := n.names[qualified]; ok {
		return name, nil
	}
	for _, candidate := range nameCandidates(pkg, simple) {
		if _, taken := n.owners[candidate]; taken {
			continue
		}
		if _, taken := n.ids[candidate]; taken {
			continue
		}
		n.owners[candidate] = qualified
		n.names[qualified] = candidate
		return candidate, nil
	}
	return "", &NameCollisionError{Name: simple, Type: qualified, Owner: n.owners[simple]}
}

// nameCandidates lists the names tried for pkg.simple, least qualified first.
func nameCandidates(pkg, simple string) []string {
	candidates := []string{simple}
	if pkg == "" {
		return candidates
	}
	segments := strings.Split(pkg, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		candidates = append(candidates, strings.Join(segments[i:], ".")+"."+simple)
	}
	return candidates
}
