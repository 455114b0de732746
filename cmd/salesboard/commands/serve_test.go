package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/salesboard/pkg/board"
	"github.com/Sumatoshi-tech/salesboard/pkg/filterapi"
	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
	"github.com/Sumatoshi-tech/salesboard/pkg/theme"
	"github.com/Sumatoshi-tech/salesboard/pkg/widgets"
)

const (
	waitFor = 2 * time.Second
	pollAt  = 5 * time.Millisecond
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testHost is a router over a board whose fetcher points at an httptest
// filter endpoint.
type testHost struct {
	router *gin.Engine
	srv    *dashboardServer
}

func newTestHost(t *testing.T, endpoint http.HandlerFunc, loaded bool) testHost {
	t.Helper()

	upstream := httptest.NewServer(endpoint)
	t.Cleanup(upstream.Close)

	b := board.New(theme.Dark, board.Deps{Fetcher: filterapi.NewClient(upstream.URL, "token")})
	srv := newDashboardServer(b, "Test Board")

	if loaded {
		p, err := payload.Parse([]byte(testPayload))
		require.NoError(t, err)

		b.Load(p)
		srv.ready.Store(true)
	}

	return testHost{router: newRouter(srv, nil, nil, nil), srv: srv}
}

func staticEndpoint(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (h testHost) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequestWithContext(context.Background(), method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func samplePNGBase64(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 3, G: 218, B: 198, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestServe_Index(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, staticEndpoint(http.StatusOK, filteredPayload), true)

	rec := h.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `id="categoryChart"`)
	assert.Contains(t, rec.Body.String(), "Test Board")
}

func TestServe_FilterAppliesAndHides(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, staticEndpoint(http.StatusOK, filteredPayload), true)

	rec := h.do(http.MethodPost, "/filter/", `{"category": "Clothing"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp refreshResponse
	decode(t, rec, &resp)

	assert.Equal(t, []string{widgets.SeasonID}, resp.Rendered)
	assert.Contains(t, resp.Hidden, widgets.CategoryID)
	assert.Equal(t, "Clothing", resp.Filters.Category)
	assert.False(t, h.srv.board.Engine.Layout.Visible(widgets.CategoryID))
}

func TestServe_FilterEmptyBody(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, staticEndpoint(http.StatusOK, filteredPayload), true)

	rec := h.do(http.MethodPost, "/filter/", `{"category": "Clothing", "location": "Ohio"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodPost, "/filter/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp refreshResponse
	decode(t, rec, &resp)

	assert.Equal(t, "Clothing", resp.Filters.Category)
	assert.Equal(t, "Ohio", resp.Filters.Location)
	assert.Equal(t, h.srv.board.Filters(), resp.Filters)
}

func TestServe_FilterReplacesState(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, staticEndpoint(http.StatusOK, filteredPayload), true)

	rec := h.do(http.MethodPost, "/filter/", `{"category": "Clothing", "location": "Ohio"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodPost, "/filter/", `{"category": "Footwear"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp refreshResponse
	decode(t, rec, &resp)

	assert.Equal(t, "Footwear", resp.Filters.Category)
	assert.Empty(t, resp.Filters.Location)
}

func TestServe_FilterInvalidJSON(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, staticEndpoint(http.StatusOK, filteredPayload), true)

	rec := h.do(http.MethodPost, "/filter/", `{"category":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServe_UpstreamFailure(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, staticEndpoint(http.StatusInternalServerError, `{"error": "database offline"}`), true)

	rec := h.do(http.MethodPost, "/reset", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp map[string]string
	decode(t, rec, &resp)
	assert.Equal(t, "Error resetting filters: database offline", resp["error"])

	// Charts are untouched.
	assert.True(t, h.srv.board.Engine.Layout.Visible(widgets.CategoryID))
}

func TestServe_BusyWhileLoading(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})

	h := newTestHost(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = io.WriteString(w, filteredPayload)
	}, true)

	var (
		wg    sync.WaitGroup
		first *httptest.ResponseRecorder
	)

	wg.Add(1)

	go func() {
		defer wg.Done()

		first = h.do(http.MethodPost, "/filter/", `{}`)
	}()

	require.Eventually(t, func() bool {
		return h.srv.board.State() == board.Loading
	}, waitFor, pollAt)

	second := h.do(http.MethodPost, "/filter/", `{}`)
	assert.Equal(t, http.StatusConflict, second.Code)

	close(release)
	wg.Wait()

	assert.Equal(t, http.StatusOK, first.Code)
}

func TestServe_ThemeAndPeriod(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, staticEndpoint(http.StatusOK, filteredPayload), true)

	rec := h.do(http.MethodPost, "/theme/light", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, theme.Light, h.srv.board.Engine.Theme())

	rec = h.do(http.MethodPost, "/period/year", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp periodResponse
	decode(t, rec, &resp)
	assert.Equal(t, widgets.PeriodYear, resp.Period)
	assert.Contains(t, resp.Text, "Yearly")

	trend, ok := h.srv.board.Engine.Registry.Get(widgets.SalesTrendID)
	require.True(t, ok)
	assert.Equal(t, []string{"2023", "2024"}, trend.Spec().Labels)
}

func TestServe_Stores(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, staticEndpoint(http.StatusOK, filteredPayload), true)

	rec := h.do(http.MethodGet, "/stores?order=asc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp storesResponse
	decode(t, rec, &resp)

	assert.Equal(t, payload.OrderAscending, resp.Order)
	require.Len(t, resp.Stores, 3)
	assert.Equal(t, "North", resp.Stores[0].Store)
	assert.Equal(t, "$10.0K", resp.Stores[0].Formatted)

	rec = h.do(http.MethodGet, "/stores.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, mimeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), storesFilename)
}

func TestServe_ReportPDF(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, staticEndpoint(http.StatusOK, filteredPayload), true)

	rec := h.do(http.MethodGet, "/report.pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, mimePDF, rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestServe_GenerateReport(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, staticEndpoint(http.StatusOK, filteredPayload), true)

	body := `{
		"filters": {"category": "", "age_range": [20, 60]},
		"cards": {"Total Sales": "$1,500", "Average Rating": 3.5},
		"graphs": ["` + samplePNGBase64(t) + `"]
	}`

	rec := h.do(http.MethodPost, "/generate_report/", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	rec = h.do(http.MethodPost, "/generate_report/", `{"graphs": ["not base64!"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to decode graphs")

	rec = h.do(http.MethodPost, "/generate_report/", `{"cards": {"Total": "abc"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/generate_report/", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServe_NoDataUploaded(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, staticEndpoint(http.StatusOK, filteredPayload), false)

	rec := h.do(http.MethodPost, "/generate_report/", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), msgNoData)

	rec = h.do(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = h.do(http.MethodPost, "/filter/", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServe_Charts(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, staticEndpoint(http.StatusOK, filteredPayload), true)

	rec := h.do(http.MethodGet, "/charts/"+widgets.CategoryID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "echarts")

	rec = h.do(http.MethodGet, "/charts/"+widgets.CategoryID+"/png?width=300&height=200", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, mimePNG, rec.Header().Get("Content-Type"))

	again := h.do(http.MethodGet, "/charts/"+widgets.CategoryID+"/png?width=300&height=200", "")
	assert.Equal(t, rec.Body.Bytes(), again.Body.Bytes())
	assert.Equal(t, int64(1), h.srv.snapshots.Stats().Hits)

	rec = h.do(http.MethodGet, "/charts/"+widgets.RegionID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServe_Health(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, staticEndpoint(http.StatusOK, filteredPayload), true)

	rec := h.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPostedFilters(t *testing.T) {
	t.Parallel()

	filters, err := postedFilters(json.RawMessage(`{"location": "Ohio", "rating_range": [1, 4.5], "end_date": null}`))
	require.NoError(t, err)

	assert.Equal(t, []filterapi.Labeled{
		{Name: "location", Value: "Ohio"},
		{Name: "rating_range", Value: "1 - 4.5"},
		{Name: "end_date", Value: ""},
	}, filters)

	_, err = postedFilters(json.RawMessage(`[1]`))
	require.ErrorIs(t, err, payload.ErrNotObject)
}
