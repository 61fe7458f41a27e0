// Package springdox generates Swagger documentation from Go types.
//
// A Docket describes one documentation group: the root model types, the
// request types whose members become parameters, and the rules that shape
// resolution. Document resolves everything into an ir.Document; Swagger and
// Render turn that into a Swagger 2.0 object or its JSON/YAML encoding.
//
//	docket := springdox.NewDocket("default", source).
//		WithInfo(swagger2.Info{Title: "Pets", Version: "1.0"}).
//		WithModels(pet, owner)
//	out, err := docket.Render(ctx, "yaml")
package springdox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viant/tagly/format/text"

	"github.com/springdox/springdox/docgen/ir"
	"github.com/springdox/springdox/docgen/plugins"
	"github.com/springdox/springdox/docgen/schema"
	"github.com/springdox/springdox/docgen/swagger2"
)

// DefaultGroup is the group name used when none is given.
const DefaultGroup = "default"

// Docket is the configuration of one documentation group.
// The With* methods return the docket for chaining and must not be called
// concurrently with Document.
type Docket struct {
	group    string
	docType  plugins.DocumentationType
	source   schema.TypeSource
	info     swagger2.Info
	host     string
	basePath string

	roots    []*ir.TypeDescriptor
	requests []*ir.TypeDescriptor
	rules    []schema.AlternateRule
	ignored  []*ir.TypeDescriptor
	plugins  []plugins.Plugin

	propertyCase text.CaseFormat
	logger       *slog.Logger

	// namer is shared by every resolution of this docket so that a type
	// keeps its model name across documents.
	namer *schema.Namer
}

// NewDocket returns a Swagger 2 docket for group that reads type metadata
// from source.
func NewDocket(group string, source schema.TypeSource) *Docket {
	if group == "" {
		group = DefaultGroup
	}
	return &Docket{
		group:   group,
		docType: plugins.Swagger2,
		source:  source,
		namer:   schema.NewNamer(),
	}
}

// Group returns the docket's group name.
func (d *Docket) Group() string { return d.group }

// WithDocumentationType selects the documentation type plugins are filtered for.
func (d *Docket) WithDocumentationType(dt plugins.DocumentationType) *Docket {
	d.docType = dt
	return d
}

// WithInfo sets the API metadata of the rendered document.
func (d *Docket) WithInfo(info swagger2.Info) *Docket {
	d.info = info
	return d
}

// WithHost sets the host (and optional port) serving the API.
func (d *Docket) WithHost(host string) *Docket {
	d.host = host
	return d
}

// WithBasePath sets the path prefix of the API.
func (d *Docket) WithBasePath(path string) *Docket {
	d.basePath = path
	return d
}

// WithModels adds root types. Each root is resolved with its own context;
// models shared by several roots appear once.
func (d *Docket) WithModels(roots ...*ir.TypeDescriptor) *Docket {
	d.roots = append(d.roots, roots...)
	return d
}

// WithParameters adds request types whose members are documented as
// parameters.
func (d *Docket) WithParameters(requests ...*ir.TypeDescriptor) *Docket {
	d.requests = append(d.requests, requests...)
	return d
}

// WithAlternateRules adds alternate type rules, e.g. to unwrap a generic
// response envelope. The first matching rule wins.
func (d *Docket) WithAlternateRules(rules ...schema.AlternateRule) *Docket {
	d.rules = append(d.rules, rules...)
	return d
}

// WithIgnoredTypes excludes types from properties and supertype walks.
func (d *Docket) WithIgnoredTypes(types ...*ir.TypeDescriptor) *Docket {
	d.ignored = append(d.ignored, types...)
	return d
}

// WithPlugins registers enrichment plugins in addition to the defaults.
// Plugins run in ascending order; equal orders keep registration order, and
// the defaults are registered first.
func (d *Docket) WithPlugins(ps ...plugins.Plugin) *Docket {
	d.plugins = append(d.plugins, ps...)
	return d
}

// WithPropertyCase re-cases property names that have no explicit json name.
func (d *Docket) WithPropertyCase(format text.CaseFormat) *Docket {
	d.propertyCase = format
	return d
}

// WithLogger sets the logger. If not set, slog.Default() is used.
func (d *Docket) WithLogger(logger *slog.Logger) *Docket {
	d.logger = logger
	return d
}

func (d *Docket) log() *slog.Logger {
	if d.logger == nil {
		return slog.Default()
	}
	return d.logger
}

func (d *Docket) resolver() *schema.Resolver {
	pipeline := plugins.NewBuilder(d.docType).
		Register(plugins.Defaults()...).
		Register(d.plugins...).
		Build()

	opts := []schema.Option{
		schema.WithPipeline(pipeline),
		schema.WithNamer(d.namer),
		schema.WithAlternateRules(d.rules...),
		schema.WithIgnoredTypes(d.ignored...),
		schema.WithLogger(d.logger),
	}
	if d.propertyCase != "" {
		opts = append(opts, schema.WithPropertyCase(d.propertyCase))
	}
	return schema.NewResolver(d.source, opts...)
}

// Document resolves every root and request type of the docket. Each call
// uses fresh resolution contexts, so concurrent calls are safe.
func (d *Docket) Document(ctx context.Context) (*ir.Document, error) {
	r := d.resolver()
	doc := &ir.Document{Group: d.group, DocumentationType: string(d.docType)}

	for _, root := range d.roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := r.Resolve(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", d.group, err)
		}
		merge(doc, res)
	}
	for _, req := range d.requests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := r.ResolveParameters(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", d.group, err)
		}
		merge(doc, res)
		for _, p := range res.Parameters {
			doc.AddParameter(p)
		}
	}

	for _, err := range doc.Validate() {
		var ve *ir.ValidationError
		code := "invalid_document"
		if errors.As(err, &ve) {
			code = ve.Code
		}
		doc.AddWarning(ir.Warning{Code: code, Message: err.Error()})
		d.log().WarnContext(ctx, "document validation failed",
			slog.String("group", d.group),
			slog.String("code", code),
			slog.String("error", err.Error()))
	}

	d.log().InfoContext(ctx, "generated document",
		slog.String("group", d.group),
		slog.Int("models", len(doc.Models)),
		slog.Int("parameters", len(doc.Parameters)),
		slog.Int("warnings", len(doc.Warnings)))
	return doc, nil
}

func merge(doc *ir.Document, res *schema.Resolution) {
	for _, m := range res.Models {
		if doc.AddModel(m) {
			continue
		}
		if existing := doc.FindModel(m.ID); existing.QualifiedType != m.QualifiedType {
			doc.AddWarning(ir.Warning{
				Code:    "duplicate_model",
				Message: "model " + m.ID + " names both " + existing.QualifiedType + " and " + m.QualifiedType,
			})
		}
	}
	doc.Warnings = append(doc.Warnings, res.Warnings...)
}

// Swagger builds the Swagger 2.0 object of the docket's document.
func (d *Docket) Swagger(ctx context.Context) (*swagger2.Swagger, error) {
	doc, err := d.Document(ctx)
	if err != nil {
		return nil, err
	}
	return swagger2.Map(doc, swagger2.Options{
		Info:     d.info,
		Host:     d.host,
		BasePath: d.basePath,
	}), nil
}

// Render encodes the docket's Swagger document as "json" (the default) or "yaml".
func (d *Docket) Render(ctx context.Context, format string) ([]byte, error) {
	s, err := d.Swagger(ctx)
	if err != nil {
		return nil, err
	}
	return swagger2.Encode(s, format)
}
