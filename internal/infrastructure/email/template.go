package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const fallbackNDATemplate = `<html>
  <body>
    <h2>Hello {{.Name}},</h2>
    <p>Thank you for your interest in EasyFinder AI{{if .Company}} on behalf of {{.Company}}{{end}}.</p>
    <p>We'd like to invite you to a private demo of our enterprise-grade AI system.</p>
    <p>Before the demo we will share a short mutual NDA for your review.</p>
    <p>Best regards,<br>The EasyFinder AI Team</p>
  </body>
</html>`

var whitespaceRun = regexp.MustCompile(`[ \t]*\n[ \t\n]*`)

// TemplateData is the placeholder set available to NDA templates.
type TemplateData struct {
	Name    string
	Company string
}

// Renderer turns the NDA template into HTML and plain-text bodies.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer loads the template at path. An empty path or a missing file
// falls back to the built-in template; a malformed file is an error.
func NewRenderer(path string) (*Renderer, error) {
	source := fallbackNDATemplate
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			source = legacyPlaceholders(string(raw))
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("read template %s: %w", path, err)
		}
	}

	tmpl, err := template.New("nda").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the template and derives the text alternative.
func (r *Renderer) Render(data TemplateData) (htmlBody, textBody string, err error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render template: %w", err)
	}

	htmlBody = buf.String()
	textBody, err = PlainText(htmlBody)
	if err != nil {
		return "", "", err
	}
	return htmlBody, textBody, nil
}

// PlainText strips markup, keeping line structure readable.
func PlainText(htmlBody string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("style, script").Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, "\n")), nil
}

// legacyPlaceholders rewrites {{name}} and {{company}} markers used by older
// template files into template actions.
func legacyPlaceholders(src string) string {
	return strings.NewReplacer("{{name}}", "{{.Name}}", "{{company}}", "{{.Company}}").Replace(src)
}
