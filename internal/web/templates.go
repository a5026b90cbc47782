package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/contactsheet/formatter/internal/mapping"
)

//go:embed templates static
var assetFiles embed.FS

// pageTemplates holds the parsed page templates.
type pageTemplates struct {
	dashboard *template.Template
}

// loadPageTemplates parses the embedded page templates. Parse errors are
// fatal since the templates ship inside the binary.
func loadPageTemplates() *pageTemplates {
	return &pageTemplates{
		dashboard: template.Must(template.ParseFS(assetFiles, "templates/index.html")),
	}
}

// dashboardData feeds the import page template.
type dashboardData struct {
	Profiles       []mapping.Profile
	DefaultProfile string
	MaxFileSizeMB  int64
	EnhanceEnabled bool
}

// renderDashboard executes the dashboard template into a buffer first so a
// render error can still produce a clean 500 instead of a half-written page.
func (p *pageTemplates) renderDashboard(w http.ResponseWriter, data dashboardData) {
	var buf bytes.Buffer
	if err := p.dashboard.Execute(&buf, data); err != nil {
		slog.Error("template render failed", "template", "index.html", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
