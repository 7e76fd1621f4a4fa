package dashboard

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"
)

//go:embed page.html.tmpl
var pageTemplate string

// PageConfig controls the rendered dashboard page.
type PageConfig struct {
	Title       string
	MetricsPath string
}

// Page is the dashboard HTML, rendered once and served as-is.
type Page struct {
	html []byte
}

type pageView struct {
	Title               string
	MetricsPath         string
	OutcomeCategories   []string
	SentimentCategories []string
}

// NewPage renders the dashboard template. The page fetches MetricsPath in the
// browser and draws the charts client-side.
func NewPage(cfg PageConfig) (*Page, error) {
	view := pageView{
		Title:               strings.TrimSpace(cfg.Title),
		MetricsPath:         strings.TrimSpace(cfg.MetricsPath),
		OutcomeCategories:   OutcomeCategories,
		SentimentCategories: SentimentCategories,
	}
	if view.Title == "" {
		view.Title = "Carrier Sales Dashboard"
	}
	if view.MetricsPath == "" {
		view.MetricsPath = "/dashboard/metrics"
	}

	tpl, err := template.New("dashboard").Parse(pageTemplate)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, view); err != nil {
		return nil, err
	}
	return &Page{html: buf.Bytes()}, nil
}

// HTML returns the rendered page.
func (p *Page) HTML() []byte {
	return p.html
}
