package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	templates     *template.Template
	templatesOnce sync.Once
	errTemplates  error
)

var funcMap = template.FuncMap{
	"odd": func(i int) bool {
		return i%2 == 1
	},
}

// getTemplates returns the parsed templates, loading them once.
func getTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		var parseErr error

		templates, parseErr = template.New("").
			Funcs(funcMap).
			ParseFS(templateFS, "templates/*.html")
		if parseErr != nil {
			errTemplates = fmt.Errorf("parsing templates: %w", parseErr)
		}
	})

	return templates, errTemplates
}

// renderTemplate renders a named template with the given data.
func renderTemplate(name string, data any) (template.HTML, error) {
	tmpl, err := getTemplates()
	if err != nil {
		return "", fmt.Errorf("loading templates: %w", err)
	}

	var buf bytes.Buffer

	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}

	return template.HTML(buf.String()), nil
}

type pageData struct {
	Title      string
	Theme      string
	Colors     themeColors
	Loading    bool
	Alert      string
	Cards      []cardData
	Filters    filtersData
	Sections   template.HTML
	Stores     template.HTML
	EChartsURL string
}

// themeColors are trusted constants, typed so the CSS escaper keeps them.
type themeColors struct {
	Background  template.CSS
	Surface     template.CSS
	Border      template.CSS
	TextPrimary template.CSS
	TextMuted   template.CSS
	Accent      template.CSS
	AccentHover template.CSS
	Error       template.CSS
	ErrorSubtle template.CSS
}

type cardData struct {
	Label string
	Value string
}

type filtersData struct {
	Categories []string
	Locations  []string
	Category   string
	Location   string
	AgeRange   string
	Rating     string
	StartDate  string
	EndDate    string
}

type sectionData struct {
	ID      string
	Title   string
	Hint    string
	Visible bool
	Chart   template.HTML
}

type storesData struct {
	Order string
	Rows  []storeRow
}

type storeRow struct {
	Rank  int
	Store string
	Sales string
}
