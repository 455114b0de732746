package widgets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
	"github.com/Sumatoshi-tech/salesboard/pkg/widgets"
)

func TestStoreRanking_SortWithoutRefetch(t *testing.T) {
	t.Parallel()

	r := widgets.NewStoreRanking("")
	assert.Equal(t, payload.OrderDescending, r.Order())

	ok, err := r.Load(parse(t, `{"sales_by_store": {"North": 1500, "South": 250000, "East": 900}}`))
	require.NoError(t, err)
	require.True(t, ok)

	rows := r.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "South", rows[0].Store)
	assert.Equal(t, "$250.0K", rows[0].Formatted)
	assert.Equal(t, "East", rows[2].Store)

	r.Sort(payload.OrderAscending)

	rows = r.Rows()
	assert.Equal(t, "East", rows[0].Store)
	assert.Equal(t, "South", rows[2].Store)
}

func TestStoreRanking_AbsentKeepsRows(t *testing.T) {
	t.Parallel()

	r := widgets.NewStoreRanking(payload.OrderDescending)

	_, err := r.Load(parse(t, `{"sales_by_store": {"North": 10}}`))
	require.NoError(t, err)

	ok, err := r.Load(parse(t, `{"sales_by_category": {"A": 1}}`))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, r.Rows(), 1)
}
