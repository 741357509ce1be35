package email

import (
	"bytes"
	"embed"
	"html/template"
	"sync"

	"github.com/pkg/errors"
)

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateEventCancelled corresponds to templates/event_cancelled.html
	TemplateEventCancelled Template = "event_cancelled"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	parsed     *template.Template
	parseErr   error
	parseOnce  sync.Once
	knownNames = map[Template]bool{TemplateEventCancelled: true}
)

func templates() (*template.Template, error) {
	parseOnce.Do(func() {
		parsed, parseErr = template.ParseFS(templateFS, "templates/*.html")
	})
	return parsed, parseErr
}

// Render executes the named template with data.
func Render(name Template, data map[string]string) (string, error) {
	if !knownNames[name] {
		return "", errors.Errorf("unknown email template %q", name)
	}

	tmpl, err := templates()
	if err != nil {
		return "", errors.Wrap(err, "failed to parse email templates")
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, string(name)+".html", data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}
	return body.String(), nil
}
