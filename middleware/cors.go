package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// CORSConfig configures the CORS middleware. Zero fields take the defaults
// noted below.
type CORSConfig struct {
	// AllowOrigins lists the origins allowed to fetch documents. "*" allows all.
	// Default: ["*"]
	AllowOrigins []string

	// AllowMethods lists the methods allowed in preflight responses.
	// Default: ["GET", "HEAD", "OPTIONS"]
	AllowMethods []string

	// AllowHeaders lists the request headers allowed in preflight responses.
	// Default: ["Accept", "Content-Type"]
	AllowHeaders []string

	// ExposeHeaders lists response headers readable by the browser.
	ExposeHeaders []string

	// AllowCredentials sets Access-Control-Allow-Credentials.
	AllowCredentials bool

	// MaxAge is how long, in seconds, a preflight result may be cached.
	// Zero omits the header.
	MaxAge int
}

// CORS returns a middleware letting browser-based API explorers on other
// origins read the documents. A nil config allows every origin.
func CORS(cfg *CORSConfig) func(http.Handler) http.Handler {
	if cfg == nil {
		cfg = &CORSConfig{}
	}
	origins := orDefault(cfg.AllowOrigins, "*")
	anyOrigin := slices.Contains(origins, "*")
	methods := strings.Join(orDefault(cfg.AllowMethods, http.MethodGet, http.MethodHead, http.MethodOptions), ", ")
	headers := strings.Join(orDefault(cfg.AllowHeaders, "Accept", "Content-Type"), ", ")
	exposed := strings.Join(cfg.ExposeHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			h := w.Header()

			switch {
			case origin == "":
				if anyOrigin {
					h.Set("Access-Control-Allow-Origin", "*")
				}
			case anyOrigin && !cfg.AllowCredentials:
				h.Set("Access-Control-Allow-Origin", "*")
			case anyOrigin || slices.Contains(origins, origin):
				// A wildcard cannot be combined with credentials, so the
				// origin is echoed.
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
			}
			if exposed != "" {
				h.Set("Access-Control-Expose-Headers", exposed)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func orDefault(values []string, defaults ...string) []string {
	if len(values) == 0 {
		return defaults
	}
	return values
}
