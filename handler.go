package springdox

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/gorilla/schema"

	"github.com/springdox/springdox/docgen/swagger2"
)

const (
	// DocsPath serves a group's Swagger 2.0 document.
	DocsPath = "/v2/api-docs"

	// ResourcesPath lists the available groups.
	ResourcesPath = "/swagger-resources"
)

var queryDecoder = schema.NewDecoder()

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

// docsQuery is the query string of a DocsPath request.
type docsQuery struct {
	Group  string `schema:"group"`
	Format string `schema:"format" validate:"omitempty,oneof=json yaml"`
}

// Resource describes one documentation group for ResourcesPath.
type Resource struct {
	Name           string `json:"name"`
	URL            string `json:"url"`
	SwaggerVersion string `json:"swaggerVersion"`
}

// DocsHandler serves the documents of a set of dockets. Documents are
// generated on every request.
type DocsHandler struct {
	mu               sync.RWMutex
	dockets          map[string]*Docket
	order            []string
	middlewares      []func(http.Handler) http.Handler
	errorTransformer ErrorTransformer
	logger           *slog.Logger
}

// NewDocsHandler returns a handler serving dockets. A later docket with the
// same group replaces an earlier one.
func NewDocsHandler(dockets ...*Docket) *DocsHandler {
	h := &DocsHandler{dockets: make(map[string]*Docket)}
	for _, d := range dockets {
		h.Add(d)
	}
	return h
}

// Handler returns an http.Handler serving dockets with no middleware.
func Handler(dockets ...*Docket) http.Handler {
	return NewDocsHandler(dockets...).Handler()
}

// Add registers d under its group.
func (h *DocsHandler) Add(d *Docket) *DocsHandler {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.dockets[d.Group()]; ok {
		h.log().Warn("replacing docket", slog.String("group", d.Group()))
	} else {
		h.order = append(h.order, d.Group())
	}
	h.dockets[d.Group()] = d
	return h
}

// WithMiddleware adds an HTTP middleware. The first added is outermost.
func (h *DocsHandler) WithMiddleware(mw func(http.Handler) http.Handler) *DocsHandler {
	h.middlewares = append(h.middlewares, mw)
	return h
}

// WithErrorTransformer sets a custom error transformer. Errors it returns
// nil for fall back to DefaultErrorTransformer.
func (h *DocsHandler) WithErrorTransformer(fn ErrorTransformer) *DocsHandler {
	h.errorTransformer = fn
	return h
}

// WithLogger sets the logger. If not set, slog.Default() is used.
func (h *DocsHandler) WithLogger(logger *slog.Logger) *DocsHandler {
	h.logger = logger
	return h
}

func (h *DocsHandler) log() *slog.Logger {
	if h.logger == nil {
		return slog.Default()
	}
	return h.logger
}

// Handler returns the http.Handler including all configured middleware.
func (h *DocsHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(DocsPath, h.serveDocs)
	mux.HandleFunc(ResourcesPath, h.serveResources)

	var out http.Handler = h.recovery(mux)
	for i := len(h.middlewares) - 1; i >= 0; i-- {
		out = h.middlewares[i](out)
	}
	return out
}

func (h *DocsHandler) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.log().Error("PANIC recovered",
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())))
				writeError(w, Errorf(CodeInternal, "internal server error (panic): %v", rec), h.logger)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *DocsHandler) transform(err error) *Error {
	if h.errorTransformer != nil {
		if e := h.errorTransformer(err); e != nil {
			return e
		}
	}
	return DefaultErrorTransformer(err)
}

func (h *DocsHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	e := h.transform(err)
	if e.Code == CodeInternal {
		h.log().ErrorContext(r.Context(), "docs request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	writeError(w, e, h.logger)
}

func (h *DocsHandler) serveDocs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, Errorf(CodeMethodNotAllowed, "method %s not allowed", r.Method), h.logger)
		return
	}

	var q docsQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		writeError(w, Errorf(CodeInvalidArgument, "invalid query: %v", err), h.logger)
		return
	}
	if err := validate.Struct(&q); err != nil {
		h.fail(w, r, err)
		return
	}

	d, err := h.docket(q.Group)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := d.Render(r.Context(), q.Format)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", swagger2.ContentType(q.Format))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(out); err != nil {
		h.log().DebugContext(r.Context(), "failed to write document", slog.Any("error", err))
	}
}

// docket returns the docket of group. An empty group selects the default
// group, or the first registered docket when there is none.
func (h *DocsHandler) docket(group string) (*Docket, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	name := group
	if name == "" {
		name = DefaultGroup
	}
	if d, ok := h.dockets[name]; ok {
		return d, nil
	}
	if group == "" && len(h.order) > 0 {
		return h.dockets[h.order[0]], nil
	}
	return nil, Errorf(CodeNotFound, "no documentation group %q", name)
}

func (h *DocsHandler) serveResources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, Errorf(CodeMethodNotAllowed, "method %s not allowed", r.Method), h.logger)
		return
	}

	h.mu.RLock()
	groups := append([]string(nil), h.order...)
	h.mu.RUnlock()
	sort.Strings(groups)

	resources := make([]Resource, 0, len(groups))
	for _, g := range groups {
		resources = append(resources, Resource{
			Name:           g,
			URL:            fmt.Sprintf("%s?group=%s", DocsPath, url.QueryEscape(g)),
			SwaggerVersion: swagger2.Version,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resources); err != nil {
		h.log().DebugContext(r.Context(), "failed to write resources", slog.Any("error", err))
	}
}
