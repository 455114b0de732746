package payload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
)

const combinedBody = `{
  "cards": {"Total Sales": 1500.5, "Total Transactions": 12},
  "categories": ["Clothing", "Footwear", null],
  "locations": ["Ohio"],
  "response": {
    "monthly_sales": [
      {"Month-Year": "2023-01-01T00:00:00", "Purchase Amount (USD)": 100, "Predicted": 90},
      {"Month-Year": 1675209600000, "Purchase Amount (USD)": null, "Predicted": 120}
    ],
    "next_month_sales": 130
  },
  "graphs": {
    "sales_by_season": {"Winter": 5, "Summer": 9, "Fall": 1},
    "sales_by_store": null
  }
}`

func TestParse_Combined(t *testing.T) {
	t.Parallel()

	p, err := payload.Parse([]byte(combinedBody))
	require.NoError(t, err)

	assert.True(t, p.Has("sales_by_season"))
	assert.False(t, p.Has("sales_by_store"))
	assert.False(t, p.Has("sales_by_category"))
	assert.Equal(t, []string{"sales_by_season"}, p.Keys())

	assert.Equal(t, []string{"Total Sales", "Total Transactions"}, p.Cards.Keys())
	assert.Equal(t, []string{"Clothing", "Footwear"}, p.Categories)
	assert.Equal(t, []string{"Ohio"}, p.Locations)

	require.NotNil(t, p.Response)
	require.Len(t, p.Response.MonthlySales, 2)
	assert.Equal(t, payload.Label("2023-01-01T00:00:00"), p.Response.MonthlySales[0].MonthYear)
	assert.Equal(t, payload.Label("1675209600000"), p.Response.MonthlySales[1].MonthYear)
	assert.Nil(t, p.Response.MonthlySales[1].Actual)
	assert.InDelta(t, 130, p.Response.NextMonthSales, 1e-9)
}

func TestParse_Flat(t *testing.T) {
	t.Parallel()

	p, err := payload.Parse([]byte(`{"sales_by_category": {"B": 2, "A": 1}, "response": null}`))
	require.NoError(t, err)

	assert.Nil(t, p.Response)
	assert.Equal(t, []string{"sales_by_category"}, p.Keys())

	series, err := p.Series("sales_by_category")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, series.Keys())
	assert.Equal(t, []float64{2, 1}, series.Values())
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"", "[]", "not json", `{"a": }`, "null"} {
		_, err := payload.Parse([]byte(body))
		require.ErrorIs(t, err, payload.ErrMalformed, body)
	}
}

func TestParse_Schema(t *testing.T) {
	t.Parallel()

	_, err := payload.Parse([]byte(`{"graphs": [1, 2]}`))
	require.ErrorIs(t, err, payload.ErrSchema)

	_, err = payload.Parse([]byte(`{"response": {"monthly_sales": "soon"}}`))
	require.ErrorIs(t, err, payload.ErrSchema)
}

func TestSeries_Missing(t *testing.T) {
	t.Parallel()

	p, err := payload.Parse([]byte(`{}`))
	require.NoError(t, err)

	_, err = p.Series("sales_by_category")
	require.ErrorIs(t, err, payload.ErrMissing)
}

func TestSeries_NotObject(t *testing.T) {
	t.Parallel()

	p, err := payload.Parse([]byte(`{"sales_by_category": [1, 2]}`))
	require.NoError(t, err)

	_, err = p.Series("sales_by_category")
	require.ErrorIs(t, err, payload.ErrNotObject)
}

func TestSeries_Sorted(t *testing.T) {
	t.Parallel()

	s := payload.Series{{Key: "a", Value: 3}, {Key: "b", Value: 1}, {Key: "c", Value: 3}, {Key: "d", Value: 2}}

	assert.Equal(t, []string{"b", "d", "a", "c"}, s.Sorted(payload.OrderAscending).Keys())
	assert.Equal(t, []string{"a", "c", "d", "b"}, s.Sorted(payload.OrderDescending).Keys())
	assert.Equal(t, []string{"a", "b", "c", "d"}, s.Sorted(payload.OrderInsertion).Keys())
	assert.Equal(t, "a", s[0].Key)
}

func TestRecords(t *testing.T) {
	t.Parallel()

	p, err := payload.Parse([]byte(`{"visit_vs_purchase_frequency": {"Frequency": [1, 2], "Recency": [10, 20]}}`))
	require.NoError(t, err)

	var got struct {
		Frequency []float64
		Recency   []float64
	}

	require.NoError(t, p.Records("visit_vs_purchase_frequency", &got))
	assert.Equal(t, []float64{10, 20}, got.Recency)

	require.ErrorIs(t, p.Records("missing", &got), payload.ErrMissing)
}

func TestParseOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, payload.OrderAscending, payload.ParseOrder("asc"))
	assert.Equal(t, payload.OrderDescending, payload.ParseOrder("desc"))
	assert.Equal(t, payload.OrderDescending, payload.ParseOrder(""))
}
