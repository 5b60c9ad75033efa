// Package swagger serves the OpenAPI document and a ReDoc page for it.
package swagger

import (
	"context"
	"net/http"
)

const (
	// redocCDN is loaded by the docs page when no bundle is configured.
	redocCDN = "https://cdn.redoc.ly/redoc/v2.1.5/bundles/redoc.standalone.js"
	// redocPath serves a configured bundle from the API's own origin.
	redocPath = "/api-docs/redoc.standalone.js"
)

type docs struct {
	redocJS []byte
}

// Option configures the docs routes.
type Option func(*docs)

// WithRedocBundle serves js at /api-docs/redoc.standalone.js and points the
// docs page at it instead of the CDN. Empty js keeps the CDN.
func WithRedocBundle(js []byte) Option {
	return func(d *docs) {
		d.redocJS = js
	}
}

// Register attaches the docs routes to mux.
//
//	GET /api-docs                      -> ReDoc HTML
//	GET /openapi.yaml                  -> embedded OpenAPI document
//	GET /api-docs/redoc.standalone.js  -> ReDoc bundle, when configured
func Register(_ context.Context, mux *http.ServeMux, opts ...Option) {
	if mux == nil {
		panic("mux is nil")
	}
	var d docs
	for _, opt := range opts {
		opt(&d)
	}

	script := redocCDN
	if len(d.redocJS) > 0 {
		script = redocPath
		mux.HandleFunc("GET "+redocPath, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
			_, _ = w.Write(d.redocJS)
		})
	}
	page := []byte(indexHTML(script))

	mux.HandleFunc("GET /api-docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})

	mux.HandleFunc("GET /openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})
}

func indexHTML(script string) string {
	return `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Arthouse API Docs</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="` + script + `"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
}
