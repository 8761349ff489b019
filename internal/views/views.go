// Package views holds the console's HTML templates.
package views

import (
	"bytes"
	"embed"
	"html/template"
	"sync"

	"github.com/franciscosanchezn/gin-users-console/internal/models"
)

//go:embed templates/*.tmpl
var files embed.FS

// PageTemplate is the name gin renders for the console page
const PageTemplate = "console.tmpl"

var (
	parseOnce sync.Once
	parsed    *template.Template
	parseErr  error
)

// Templates parses every embedded template once
func Templates() (*template.Template, error) {
	parseOnce.Do(func() {
		parsed, parseErr = template.New("views").ParseFS(files, "templates/*.tmpl")
	})
	return parsed, parseErr
}

// RenderRows renders the table body for users.
// An empty slice renders the "No data" placeholder row.
func RenderRows(users []models.User) (template.HTML, error) {
	tmpl, err := Templates()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "rows", users); err != nil {
		return "", err
	}
	// Output of html/template is already escaped
	return template.HTML(buf.String()), nil
}
