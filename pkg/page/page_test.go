package page_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/salesboard/pkg/board"
	"github.com/Sumatoshi-tech/salesboard/pkg/page"
	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
	"github.com/Sumatoshi-tech/salesboard/pkg/theme"
	"github.com/Sumatoshi-tech/salesboard/pkg/widgets"
)

const body = `{
	"cards": {"Total Sales": 1234567.8, "Total Transactions": 3900, "Average Rating": 3.75},
	"graphs": {
		"sales_by_category": {"Clothing": 300, "Footwear": 100},
		"sales_by_month": {"Jan": 10, "Feb": 20},
		"sales_by_store": {"North": 1500, "South": 250000}
	}
}`

func renderBoard(t *testing.T, th theme.Theme) string {
	t.Helper()

	p, err := payload.Parse([]byte(body))
	require.NoError(t, err)

	b := board.New(th, board.Deps{})
	b.Load(p)

	var buf bytes.Buffer

	require.NoError(t, page.Render(&buf, b, page.Options{}))

	return buf.String()
}

func TestRender_SectionsInLayoutOrder(t *testing.T) {
	t.Parallel()

	html := renderBoard(t, theme.Dark)

	category := strings.Index(html, `id="`+widgets.CategoryID+`"`)
	trend := strings.Index(html, `id="`+widgets.SalesTrendID+`"`)
	predicted := strings.Index(html, `id="`+widgets.PredictedSalesID+`"`)

	require.NotEqual(t, -1, category)
	assert.Less(t, category, trend)
	assert.Less(t, trend, predicted)
}

func TestRender_HiddenSurfaces(t *testing.T) {
	t.Parallel()

	html := renderBoard(t, theme.Dark)

	assert.Contains(t, html, `<div class="chart-section" id="`+widgets.GenderID+`" style="display:none">`)
	assert.NotContains(t, html, `<div class="chart-section" id="`+widgets.CategoryID+`" style="display:none">`)
	assert.Contains(t, html, `class="echart-box"`)
	assert.Contains(t, html, "Monthly sales trends")
}

func TestRender_CardsStoresAndTheme(t *testing.T) {
	t.Parallel()

	html := renderBoard(t, theme.Light)

	assert.Contains(t, html, `data-theme="light"`)
	assert.Contains(t, html, "$1,234,568")
	assert.Contains(t, html, "3,900")
	assert.Contains(t, html, "3.75")
	assert.Less(t, strings.Index(html, "South"), strings.Index(html, "North"))
	assert.Contains(t, html, "$250.0K")
	assert.Contains(t, html, `id="loader" class="loader" hidden`)
	assert.NotContains(t, html, `role="alert"`)
	assert.Contains(t, html, "#fafaf9")
}
