package schema

import (
	"strings"

	"github.com/springdox/springdox/docgen/ir"
	"github.com/springdox/springdox/docgen/plugins"
)

// Context tracks one root resolution: the set of types already seen and the
// alternate type rules. Child contexts share the parent's seen-set, so a type
// seen anywhere in the walk stays seen until the walk ends.
//
// A Context is not safe for concurrent use. Create one per root resolution.
type Context struct {
	seen    map[string]bool
	rules   []AlternateRule
	docType plugins.DocumentationType
	path    []*ir.TypeDescriptor
}

// NewContext returns an empty context for a root resolution.
func NewContext(docType plugins.DocumentationType, rules ...AlternateRule) *Context {
	return &Context{
		seen:    make(map[string]bool),
		rules:   rules,
		docType: docType,
	}
}

// Child returns a context for resolving a dependency of the type d.
// It shares the seen-set and rules and extends the path.
func (c *Context) Child(d *ir.TypeDescriptor) *Context {
	path := make([]*ir.TypeDescriptor, len(c.path), len(c.path)+1)
	copy(path, c.path)
	return &Context{
		seen:    c.seen,
		rules:   c.rules,
		docType: c.docType,
		path:    append(path, d),
	}
}

// AlternateFor applies the first matching alternate rule to d.
// It returns d unchanged when no rule matches.
func (c *Context) AlternateFor(d *ir.TypeDescriptor) *ir.TypeDescriptor {
	for _, r := range c.rules {
		if r.Applies(d) {
			return r.Alternate(d)
		}
	}
	return d
}

// HasSeenBefore reports whether the substituted form of d was already seen
// during this resolution.
func (c *Context) HasSeenBefore(d *ir.TypeDescriptor) bool {
	return c.seen[c.AlternateFor(d).Key()]
}

// MarkSeen records the substituted form of d as seen.
func (c *Context) MarkSeen(d *ir.TypeDescriptor) {
	c.seen[c.AlternateFor(d).Key()] = true
}

// DocumentationType returns the documentation type being generated.
func (c *Context) DocumentationType() plugins.DocumentationType { return c.docType }

// Depth returns the number of enclosing models.
func (c *Context) Depth() int { return len(c.path) }

// Path renders the chain of enclosing models, outermost first.
func (c *Context) Path() string {
	parts := make([]string, len(c.path))
	for i, d := range c.path {
		parts[i] = d.String()
	}
	return strings.Join(parts, " > ")
}
