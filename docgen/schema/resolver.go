// Package schema resolves type descriptors into a de-duplicated list of named
// models.
//
// A Resolver walks the type graph depth first starting from one root. It
// classifies each type, recurses into container elements and map values, and
// builds a model for every complex type not seen before in the same walk.
// Dependencies are appended before the models that need them, so the root
// comes last. Self-referential and mutually recursive types terminate because
// a type is marked seen before its properties are walked.
package schema

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/viant/tagly/format/text"

	"github.com/springdox/springdox/docgen/ir"
	"github.com/springdox/springdox/docgen/plugins"
)

// Resolver turns root types into models. It is safe for concurrent use; each
// call builds its own Context.
type Resolver struct {
	source   TypeSource
	pipeline *plugins.Pipeline
	namer    *Namer
	rules    []AlternateRule
	ignored  map[string]bool
	logger   *slog.Logger

	propertyCase text.CaseFormat
	cases        *caseIndex
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPipeline sets the enrichment pipeline. The default is
// plugins.Default(plugins.Swagger2).
func WithPipeline(p *plugins.Pipeline) Option {
	return func(r *Resolver) {
		if p != nil {
			r.pipeline = p
		}
	}
}

// WithNamer shares a Namer between resolvers so that every model in a
// document is named consistently.
func WithNamer(n *Namer) Option {
	return func(r *Resolver) {
		if n != nil {
			r.namer = n
		}
	}
}

// WithAlternateRules adds alternate type rules. The first matching rule wins.
func WithAlternateRules(rules ...AlternateRule) Option {
	return func(r *Resolver) {
		r.rules = append(r.rules, rules...)
	}
}

// WithIgnoredTypes excludes types from property lists and supertype walks.
func WithIgnoredTypes(types ...*ir.TypeDescriptor) Option {
	return func(r *Resolver) {
		for _, t := range types {
			r.ignored[t.QualifiedName()] = true
		}
	}
}

// WithPropertyCase re-cases property names that have no explicit json name,
// e.g. text.CaseFormatLowerCamel turns FirstName into firstName.
func WithPropertyCase(format text.CaseFormat) Option {
	return func(r *Resolver) {
		r.propertyCase = format
	}
}

// WithLogger sets the logger. A nil logger means slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver returns a resolver reading metadata from source.
func NewResolver(source TypeSource, opts ...Option) *Resolver {
	r := &Resolver{
		source:  source,
		ignored: make(map[string]bool),
		logger:  slog.Default(),
		cases:   newCaseIndex(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.pipeline == nil {
		r.pipeline = plugins.Default(plugins.Swagger2)
	}
	if r.namer == nil {
		r.namer = NewNamer()
	}
	return r
}

// Namer returns the resolver's namer.
func (r *Resolver) Namer() *Namer { return r.namer }

// Resolution is the result of resolving one root.
type Resolution struct {
	// Models are ordered with dependencies before dependents.
	Models []*ir.Model

	// Parameters is set by ResolveParameters.
	Parameters []*ir.Parameter

	// Warnings records metadata-read failures. They never abort resolution.
	Warnings []ir.Warning
}

// Resolve returns the models for root and everything it depends on.
//
// Base, enum and container roots produce no model of their own; only the
// complex types they reference do. The only errors are ErrInvalidInput for a
// nil root or source and *NameCollisionError when two distinct types cannot be
// given distinct names.
func (r *Resolver) Resolve(ctx context.Context, root *ir.TypeDescriptor) (*Resolution, error) {
	if root == nil {
		return nil, fmt.Errorf("resolve: nil root: %w", ErrInvalidInput)
	}
	if r.source == nil {
		return nil, fmt.Errorf("resolve %s: nil type source: %w", root, ErrInvalidInput)
	}

	w := r.newWalk(ctx)
	rc := NewContext(r.pipeline.DocumentationType(), r.rules...)
	if err := w.resolve(rc, root); err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	w.linkSubTypes()

	r.logger.DebugContext(ctx, "resolved type",
		"root", root.String(),
		"models", len(w.models),
		"warnings", len(w.warnings))
	return &Resolution{Models: w.models, Warnings: w.warnings}, nil
}

// ResolveParameters describes each member of the request type as a request
// parameter and resolves the models the parameters reference.
func (r *Resolver) ResolveParameters(ctx context.Context, request *ir.TypeDescriptor) (*Resolution, error) {
	if request == nil {
		return nil, fmt.Errorf("resolve parameters: nil request type: %w", ErrInvalidInput)
	}
	if r.source == nil {
		return nil, fmt.Errorf("resolve parameters %s: nil type source: %w", request, ErrInvalidInput)
	}

	w := r.newWalk(ctx)
	rc := NewContext(r.pipeline.DocumentationType(), r.rules...)
	var params []*ir.Parameter
	for i, m := range w.readMembers(request) {
		if m.Type == nil || r.isIgnored(m.Type) {
			continue
		}
		p, err := w.buildParameter(rc, i, m)
		if err != nil {
			return nil, fmt.Errorf("resolve parameters %s: %w", request, err)
		}
		if p != nil {
			params = append(params, p)
		}
	}
	sort.SliceStable(params, func(i, j int) bool { return params[i].Order < params[j].Order })
	w.linkSubTypes()

	return &Resolution{Models: w.models, Parameters: params, Warnings: w.warnings}, nil
}

func (r *Resolver) isIgnored(d *ir.TypeDescriptor) bool {
	q := d.QualifiedName()
	return ignorableTypes[q] || r.ignored[q]
}

func (r *Resolver) propertyName(field string) string {
	if r.propertyCase == "" {
		return field
	}
	return r.cases.formatTo(field, r.propertyCase)
}

// walk is the mutable state of one resolution call.
type walk struct {
	r        *Resolver
	ctx      context.Context
	models   []*ir.Model
	warnings []ir.Warning

	// baseOf maps a subtype key to the name of the model listing it.
	baseOf map[string]string
}

func (r *Resolver) newWalk(ctx context.Context) *walk {
	if ctx == nil {
		ctx = context.Background()
	}
	return &walk{r: r, ctx: ctx, baseOf: make(map[string]string)}
}

// resolve registers the models d depends on, and d itself when it is complex.
func (w *walk) resolve(rc *Context, d *ir.TypeDescriptor) error {
	effective := rc.AlternateFor(d)
	switch Classify(effective) {
	case Container:
		return w.resolve(rc, effective.Elem())
	case Map:
		if rc.HasSeenBefore(d) {
			return nil
		}
		rc.MarkSeen(d)
		return w.resolve(rc, effective.MapValue())
	case Enum, Base:
		return nil
	}

	if w.r.isIgnored(effective) {
		return nil
	}
	if rc.HasSeenBefore(d) {
		w.r.logger.DebugContext(w.ctx, "skipping type seen before",
			"type", effective.String(),
			"path", rc.Path())
		return nil
	}
	rc.MarkSeen(d)

	m, err := w.buildModel(rc.Child(effective), effective)
	if err != nil {
		return err
	}
	w.models = append(w.models, m)
	return nil
}

// linkSubTypes points subtype models at the model that listed them.
func (w *walk) linkSubTypes() {
	for _, m := range w.models {
		if base, ok := w.baseOf[m.Type.Key()]; ok && m.BaseModel == "" && base != m.Name {
			m.BaseModel = base
		}
	}
}
