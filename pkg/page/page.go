// Package page renders a dashboard session as a self-contained HTML page.
package page

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/Sumatoshi-tech/salesboard/pkg/board"
	"github.com/Sumatoshi-tech/salesboard/pkg/format"
	"github.com/Sumatoshi-tech/salesboard/pkg/theme"
	"github.com/Sumatoshi-tech/salesboard/pkg/widgets"
)

const (
	defaultTitle = "Sales Dashboard"
	echartsURL   = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"
	styleTagLen  = 8 // len("</style>").
)

// Titles are the section headings of the chart widgets.
var Titles = map[string]string{
	widgets.CategoryID:          "Sales by Category",
	widgets.SeasonID:            "Sales by Season",
	widgets.LocationID:          "Sales by Location",
	widgets.SalesTrendID:        "Sales Trend",
	widgets.RegionID:            "Sales by Region",
	widgets.StoreSizeID:         "Sales by Store Size",
	widgets.TopProductsID:       "Top Selling Products",
	widgets.CrossSellID:         "Cross-Sell & Upsell Opportunities",
	widgets.CLVID:               "Customer Lifetime Value",
	widgets.DiscountImpactID:    "Discount Impact",
	widgets.AgeID:               "Age Distribution",
	widgets.GenderID:            "Gender Distribution",
	widgets.AgeBinsID:           "Sales by Age Group",
	widgets.PeakHoursID:         "Peak Purchase Hours",
	widgets.PromoCodeID:         "Promo Code Usage",
	widgets.DiscountHistogramID: "Discount Distribution",
	widgets.RFMSegmentsID:       "RFM Segments",
	widgets.VisitFrequencyID:    "Visit vs Purchase Frequency",
	widgets.SalesByDayID:        "Sales by Day of Week",
	widgets.PredictedSalesID:    "Actual vs Predicted Sales",
}

// Options configure a rendered page.
type Options struct {
	Title string
}

// Render writes the board as an HTML page. Hidden surfaces are emitted with
// display:none and no chart body.
func Render(w io.Writer, b *board.Board, o Options) error {
	title := o.Title
	if title == "" {
		title = defaultTitle
	}

	sections, err := renderSections(b)
	if err != nil {
		return err
	}

	stores, err := renderStores(b)
	if err != nil {
		return err
	}

	t := b.Engine.Theme()

	html, err := renderTemplate("page.html", pageData{
		Title:      title,
		Theme:      string(t),
		Colors:     colorsOf(t),
		Loading:    b.State() == board.Loading,
		Alert:      b.LastError(),
		Cards:      cards(b),
		Filters:    filters(b),
		Sections:   sections,
		Stores:     stores,
		EChartsURL: echartsURL,
	})
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	if _, err := io.WriteString(w, string(html)); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

func renderSections(b *board.Board) (template.HTML, error) {
	var out bytes.Buffer

	for _, id := range b.Engine.Layout.IDs() {
		data := sectionData{ID: id, Title: Titles[id], Visible: b.Engine.Layout.Visible(id)}

		if id == widgets.SalesTrendID {
			data.Hint = b.TrendText()
		}

		if h, ok := b.Engine.Registry.Get(id); ok && data.Visible {
			var chartHTML bytes.Buffer

			if err := h.Render(&chartHTML); err != nil {
				return "", err
			}

			data.Chart = template.HTML(extractChartContent(chartHTML.String()))
		}

		html, err := renderTemplate("section.html", data)
		if err != nil {
			return "", fmt.Errorf("render section %s: %w", id, err)
		}

		out.WriteString(string(html))
	}

	return template.HTML(out.String()), nil
}

func renderStores(b *board.Board) (template.HTML, error) {
	rows := b.Ranking.Rows()
	data := storesData{Order: string(b.Ranking.Order()), Rows: make([]storeRow, len(rows))}

	for i, r := range rows {
		data.Rows[i] = storeRow{Rank: i + 1, Store: r.Store, Sales: r.Formatted}
	}

	html, err := renderTemplate("stores.html", data)
	if err != nil {
		return "", fmt.Errorf("render store table: %w", err)
	}

	return html, nil
}

// cardFormats maps known card labels onto their display format.
var cardFormats = map[string]func(float64) string{
	"Total Sales":        func(v float64) string { return format.Currency(v, false) },
	"Average Sales":      func(v float64) string { return format.Currency(v, false) },
	"Total Transactions": func(v float64) string { return format.Count(v) },
	"Average Rating":     func(v float64) string { return fmt.Sprintf("%.2f", v) },
}

func cards(b *board.Board) []cardData {
	series := b.Cards()
	out := make([]cardData, len(series))

	for i, e := range series {
		value := format.LargeNumber(e.Value)
		if f, ok := cardFormats[e.Key]; ok {
			value = f(e.Value)
		}

		out[i] = cardData{Label: e.Key, Value: value}
	}

	return out
}

func filters(b *board.Board) filtersData {
	categories, locations := b.Options()
	state := b.Filters()

	return filtersData{
		Categories: categories,
		Locations:  locations,
		Category:   state.Category,
		Location:   state.Location,
		AgeRange:   state.AgeRange.String(),
		Rating:     state.RatingRange.String(),
		StartDate:  state.StartDate,
		EndDate:    state.EndDate,
	}
}

func colorsOf(t theme.Theme) themeColors {
	c := theme.GetConfig(t)

	return themeColors{
		Background:  template.CSS(c.Background),
		Surface:     template.CSS(c.Surface),
		Border:      template.CSS(c.Border),
		TextPrimary: template.CSS(c.TextPrimary),
		TextMuted:   template.CSS(c.TextMuted),
		Accent:      template.CSS(c.Accent),
		AccentHover: template.CSS(c.AccentHover),
		Error:       template.CSS(c.Error),
		ErrorSubtle: template.CSS(c.ErrorSubtle),
	}
}

// extractChartContent cuts the chart container and its script out of a full
// go-echarts page.
func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}

	end := strings.Index(html, `</body>`)
	if end == -1 {
		return html
	}

	content := html[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			return content
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			return content
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}
}
