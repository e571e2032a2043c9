package reportserver

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"

	"evalcmp/internal/report"
)

// Routes served by the report handler.
const (
	RouteIndex    = "/"
	RouteExport   = "/data/comparison.json"
	RouteDatabase = "/data/db.duckdb"
)

// NewHandler builds the HTTP handler for the rendered report, its JSON export
// and, when configured, the DuckDB file.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Export == nil {
		return nil, errors.New("reportserver: export is required")
	}

	mux := http.NewServeMux()
	mux.Handle("GET "+RouteIndex+"{$}", templ.Handler(report.ReportPage(*cfg.Export)))
	mux.Handle("GET "+RouteExport, serveExport(*cfg.Export))
	if cfg.DBPath != "" {
		mux.Handle("GET "+RouteDatabase, serveDatabase(cfg.DBPath))
	}
	return mux, nil
}

// serveExport writes the comparison document as JSON.
func serveExport(export report.Export) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := report.WriteJSON(w, export); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// serveDatabase serves the DuckDB file from disk for browser-side processing.
func serveDatabase(dbPath string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		http.ServeFile(w, r, dbPath)
	})
}
