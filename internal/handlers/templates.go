package handlers

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the portal pages. Each template is named after its file.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
