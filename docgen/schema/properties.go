package schema

import (
	"reflect"
	"strings"
	"sync"

	"github.com/viant/tagly/format/text"

	"github.com/springdox/springdox/docgen/ir"
)

// extractedProperty pairs a declared member with its documented name.
type extractedProperty struct {
	name   string
	member ir.Member
	owner  *ir.TypeDescriptor
}

// propertiesOf lists the properties of a complex type: its own members in
// declaration order, then the members of embedded types breadth-first.
// When names clash the most-derived member wins.
func (w *walk) propertiesOf(d *ir.TypeDescriptor) []extractedProperty {
	var (
		out     []extractedProperty
		taken   = make(map[string]bool)
		visited = map[string]bool{d.Key(): true}
		queue   = []*ir.TypeDescriptor{d}
	)
	for len(queue) > 0 {
		owner := queue[0]
		queue = queue[1:]
		for _, m := range w.readMembers(owner) {
			if m.Type == nil || w.r.isIgnored(m.Type) {
				continue
			}
			name, skip := jsonName(m.Tag)
			if skip {
				continue
			}
			if m.Embedded && name == "" && m.Type.Kind() == ir.KindStruct {
				if !visited[m.Type.Key()] {
					visited[m.Type.Key()] = true
					queue = append(queue, m.Type)
				}
				continue
			}
			if name == "" {
				name = w.r.propertyName(m.Name)
			}
			if taken[name] {
				continue
			}
			taken[name] = true
			out = append(out, extractedProperty{name: name, member: m, owner: owner})
		}
	}
	return out
}

// jsonName returns the explicit name from the json tag, and whether the
// member is excluded with json:"-".
func jsonName(tag reflect.StructTag) (string, bool) {
	v := tag.Get("json")
	if v == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(v, ",")
	return name, false
}

// caseIndex caches re-cased property names per target format.
type caseIndex struct {
	mu       sync.Mutex
	registry map[text.CaseFormat]map[string]string
}

func newCaseIndex() *caseIndex {
	return &caseIndex{registry: make(map[text.CaseFormat]map[string]string)}
}

func (n *caseIndex) formatTo(value string, dst text.CaseFormat) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	registry, ok := n.registry[dst]
	if !ok {
		registry = make(map[string]string)
		n.registry[dst] = registry
	}
	formatted, ok := registry[value]
	if !ok {
		src := text.DetectCaseFormat(value)
		if src.IsDefined() {
			formatted = src.Format(value, dst)
		} else {
			formatted = value
		}
		registry[value] = formatted
	}
	return formatted
}
