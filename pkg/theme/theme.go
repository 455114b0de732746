// Package theme resolves the dashboard colour theme into the colours chart
// styling needs.
package theme

import "strings"

// Theme represents a colour theme for the dashboard.
type Theme string

const (
	// Light is the light colour theme.
	Light Theme = "light"
	// Dark is the dark colour theme. It is the default.
	Dark Theme = "dark"
)

// Parse maps a theme flag onto a Theme. Anything other than "light" is dark.
func Parse(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(Light)) {
		return Light
	}

	return Dark
}

// Pair is the colour pair every themed chart option depends on.
type Pair struct {
	Text string `json:"text" yaml:"text"`
	Grid string `json:"grid" yaml:"grid"`
}

var (
	darkPair  = Pair{Text: "#E0E0E0", Grid: "rgba(255, 255, 255, 0.1)"}
	lightPair = Pair{Text: "#333333", Grid: "rgba(0, 0, 0, 0.1)"}
)

// Resolve returns the text and grid colours for t.
func Resolve(t Theme) Pair {
	if t == Light {
		return lightPair
	}

	return darkPair
}

// Config holds the page-level styling values for a theme.
type Config struct {
	// Base colours.
	Background string
	Surface    string
	Border     string

	// Text colours.
	TextPrimary string
	TextMuted   string

	// Accent colours.
	Accent      string
	AccentHover string

	// Semantic colours.
	Error       string
	ErrorSubtle string

	// Chart-specific.
	ChartBackground string
}

// GetConfig returns the page configuration for a given theme.
func GetConfig(t Theme) Config {
	if t == Light {
		return lightConfig
	}

	return darkConfig
}

var lightConfig = Config{
	Background:      "#fafaf9", // stone-50.
	Surface:         "#ffffff",
	Border:          "#e7e5e4", // stone-200.
	TextPrimary:     "#1c1917", // stone-900.
	TextMuted:       "#78716c", // stone-500.
	Accent:          "#018786",
	AccentHover:     "#016D6B",
	Error:           "#dc2626", // red-600.
	ErrorSubtle:     "#fee2e2", // red-100.
	ChartBackground: "transparent",
}

var darkConfig = Config{
	Background:      "#121212",
	Surface:         "#1e1e1e",
	Border:          "#2c2c2c",
	TextPrimary:     "#E0E0E0",
	TextMuted:       "#a8a29e", // stone-400.
	Accent:          "#03DAC6",
	AccentHover:     "#67E8C7",
	Error:           "#ef4444", // red-500.
	ErrorSubtle:     "#450a0a", // red-950.
	ChartBackground: "transparent",
}

// Bins is the fixed categorical palette. Colours are assigned cyclically.
var Bins = []string{
	"#03DAC6", "#018786", "#67E8C7", "#00B9B3",
	"#40E0D0", "#48D1CC", "#20B2AA", "#5F9EA0",
}

// Named accent colours shared by several charts.
const (
	Background = "#03DAC6"
	Primary    = "#018786"
	Secondary  = "#67E8C7"
	Accent1    = "#00B9B3"
	Accent2    = "#40E0D0"
	Accent3    = "#ff06ef"
	Accent4    = "#ff06ee2a"
	Highlight  = "#B2FFF9"
	Neutral    = "#5F9EA0"
	Contrast   = "#016D6B"

	// Trend is the line colour of time-trend charts.
	Trend = "#bd2ba0"
	// TrendFill is the translucent area under a trend line.
	TrendFill = "rgba(189, 43, 160, 0.1)"
	// PrimaryFill is the translucent area under a secondary trend line.
	PrimaryFill = "rgba(1, 135, 134, 0.1)"
	// DataLabel is the colour of in-slice percentage labels.
	DataLabel = "#fff"
)

// Cycle returns n colours taken cyclically from palette.
func Cycle(palette []string, n int) []string {
	if len(palette) == 0 || n <= 0 {
		return nil
	}

	out := make([]string, n)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}

	return out
}
