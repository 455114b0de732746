package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Sumatoshi-tech/salesboard/pkg/board"
	"github.com/Sumatoshi-tech/salesboard/pkg/chart"
	"github.com/Sumatoshi-tech/salesboard/pkg/export"
	"github.com/Sumatoshi-tech/salesboard/pkg/filterapi"
	"github.com/Sumatoshi-tech/salesboard/pkg/format"
	"github.com/Sumatoshi-tech/salesboard/pkg/page"
	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
	"github.com/Sumatoshi-tech/salesboard/pkg/theme"
	"github.com/Sumatoshi-tech/salesboard/pkg/widgets"
)

const (
	mimeHTML = "text/html; charset=utf-8"
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePNG  = "image/png"

	storesFilename = "stores.xlsx"
	reportFilename = "report.pdf"
)

// Error messages returned to clients.
const (
	msgInvalidJSON   = "Invalid JSON data"
	msgNoData        = "No data uploaded"
	msgUnknownChart  = "Unknown chart"
	msgDecodeGraphs  = "Failed to decode graphs: "
	msgReportFailure = "Error generating report: "
)

// ErrInvalidCard is returned when a posted card value is not a number.
var ErrInvalidCard = errors.New("invalid card value")

type refreshResponse struct {
	Rendered []string              `json:"rendered"`
	Hidden   []string              `json:"hidden"`
	Filters  filterapi.FilterState `json:"filters"`
}

type storesResponse struct {
	Order  payload.Order      `json:"order"`
	Stores []widgets.StoreRow `json:"stores"`
}

type periodResponse struct {
	Period widgets.Period `json:"period"`
	Text   string         `json:"text"`
}

// reportRequest is the body of a client-side report: chart images the
// browser captured, plus the cards and filters it showed.
type reportRequest struct {
	Filters json.RawMessage `json:"filters"`
	Cards   json.RawMessage `json:"cards"`
	Graphs  []string        `json:"graphs"`
}

func errorJSON(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

func attachment(c *gin.Context, name, mime string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, mime, body)
}

func (s *dashboardServer) index(c *gin.Context) {
	var buf bytes.Buffer

	if err := page.Render(&buf, s.board, page.Options{Title: s.title}); err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())

		return
	}

	c.Data(http.StatusOK, mimeHTML, buf.Bytes())
}

// filter applies the posted filter state. An empty body re-applies the
// current filters.
func (s *dashboardServer) filter(c *gin.Context) {
	var state filterapi.FilterState

	switch err := c.ShouldBindJSON(&state); {
	case errors.Is(err, io.EOF):
		state = s.board.Filters()
	case err != nil:
		errorJSON(c, http.StatusBadRequest, msgInvalidJSON)

		return
	}

	out, err := s.board.Apply(c.Request.Context(), state)
	s.refreshed(c, out, err)
}

func (s *dashboardServer) reset(c *gin.Context) {
	out, err := s.board.Reset(c.Request.Context())
	s.refreshed(c, out, err)
}

func (s *dashboardServer) refreshed(c *gin.Context, out widgets.Outcome, err error) {
	switch {
	case errors.Is(err, board.ErrBusy):
		errorJSON(c, http.StatusConflict, err.Error())
	case err != nil:
		errorJSON(c, http.StatusBadGateway, s.board.LastError())
	default:
		s.ready.Store(true)
		c.JSON(http.StatusOK, refreshResponse{
			Rendered: out.Rendered,
			Hidden:   out.Hidden,
			Filters:  s.board.Filters(),
		})
	}
}

func (s *dashboardServer) setTheme(c *gin.Context) {
	t := theme.Parse(c.Param("name"))
	s.board.SetTheme(t)

	c.JSON(http.StatusOK, gin.H{"theme": string(t)})
}

func (s *dashboardServer) setPeriod(c *gin.Context) {
	period := widgets.ParsePeriod(c.Param("period"))

	if err := s.board.SetTrendPeriod(period); err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())

		return
	}

	c.JSON(http.StatusOK, periodResponse{Period: period, Text: s.board.TrendText()})
}

func (s *dashboardServer) stores(c *gin.Context) {
	rows := s.board.Ranking.Rows()
	if order := c.Query("order"); order != "" {
		rows = s.board.SortStores(payload.ParseOrder(order))
	}

	c.JSON(http.StatusOK, storesResponse{Order: s.board.Ranking.Order(), Stores: rows})
}

func (s *dashboardServer) storesWorkbook(c *gin.Context) {
	buf, err := export.StoreWorkbook(s.board.Cards(), s.board.Ranking.Rows())
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())

		return
	}

	attachment(c, storesFilename, mimeXLSX, buf.Bytes())
}

func (s *dashboardServer) report(c *gin.Context) {
	if !s.ready.Load() {
		errorJSON(c, http.StatusBadRequest, msgNoData)

		return
	}

	report, err := sessionReport(s.board, export.DefaultTitle, s.snapshots)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, msgReportFailure+err.Error())

		return
	}

	s.writeReport(c, report)
}

func (s *dashboardServer) generateReport(c *gin.Context) {
	if !s.ready.Load() {
		errorJSON(c, http.StatusBadRequest, msgNoData)

		return
	}

	var req reportRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, msgInvalidJSON)

		return
	}

	images, err := export.DecodeImages(req.Graphs)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, msgDecodeGraphs+err.Error())

		return
	}

	cards, err := postedCards(req.Cards)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())

		return
	}

	filters, err := postedFilters(req.Filters)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())

		return
	}

	s.writeReport(c, export.Report{Title: export.DefaultTitle, Cards: cards, Filters: filters, Images: images})
}

func (s *dashboardServer) writeReport(c *gin.Context, report export.Report) {
	var buf bytes.Buffer

	if err := report.Write(&buf); err != nil {
		errorJSON(c, http.StatusInternalServerError, msgReportFailure+err.Error())

		return
	}

	attachment(c, reportFilename, mimePDF, buf.Bytes())
}

func (s *dashboardServer) visibleHandle(c *gin.Context) (*chart.Handle, bool) {
	id := c.Param("id")

	h, ok := s.board.Engine.Registry.Get(id)
	if !ok || !s.board.Engine.Layout.Visible(id) {
		errorJSON(c, http.StatusNotFound, msgUnknownChart)

		return nil, false
	}

	return h, true
}

func (s *dashboardServer) chart(c *gin.Context) {
	h, ok := s.visibleHandle(c)
	if !ok {
		return
	}

	var buf bytes.Buffer

	if err := h.Render(&buf); err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())

		return
	}

	c.Data(http.StatusOK, mimeHTML, buf.Bytes())
}

func (s *dashboardServer) chartImage(c *gin.Context) {
	h, ok := s.visibleHandle(c)
	if !ok {
		return
	}

	width := queryInt(c, "width", export.SnapshotWidth)
	height := queryInt(c, "height", export.SnapshotHeight)

	img, err := s.snapshots.Snapshot(h, width, height)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())

		return
	}

	c.Data(http.StatusOK, mimePNG, img)
}

func isEmptyObject(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))

	return trimmed == "" || trimmed == "null"
}

// postedCards reads the card object of a report request in document order.
// Values may be numbers or formatted currency strings.
func postedCards(raw json.RawMessage) (payload.Series, error) {
	if isEmptyObject(raw) {
		return nil, nil
	}

	entries, err := payload.DecodeOrdered[any](raw)
	if err != nil {
		return nil, fmt.Errorf("cards: %w", err)
	}

	cards := make(payload.Series, 0, len(entries))

	for _, e := range entries {
		v, ok := format.Number(e.Value)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCard, e.Key)
		}

		cards = append(cards, payload.Entry[float64]{Key: e.Key, Value: v})
	}

	return cards, nil
}

// postedFilters reads the filter object of a report request in document
// order. Range values posted as [low, high] are shown as "low - high".
func postedFilters(raw json.RawMessage) ([]filterapi.Labeled, error) {
	if isEmptyObject(raw) {
		return nil, nil
	}

	entries, err := payload.DecodeOrdered[any](raw)
	if err != nil {
		return nil, fmt.Errorf("filters: %w", err)
	}

	filters := make([]filterapi.Labeled, len(entries))

	for i, e := range entries {
		filters[i] = filterapi.Labeled{Name: e.Key, Value: filterText(e.Value)}
	}

	return filters, nil
}

func filterText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, p := range val {
			parts[i] = filterText(p)
		}

		return strings.Join(parts, " - ")
	default:
		return fmt.Sprint(val)
	}
}
