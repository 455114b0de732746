// Package board is the dashboard session: it owns the chart engine, applies
// filters through the endpoint and dispatches every response to the widgets.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Sumatoshi-tech/salesboard/pkg/chart"
	"github.com/Sumatoshi-tech/salesboard/pkg/filterapi"
	"github.com/Sumatoshi-tech/salesboard/pkg/observability"
	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
	"github.com/Sumatoshi-tech/salesboard/pkg/theme"
	"github.com/Sumatoshi-tech/salesboard/pkg/widgets"
)

// State is the refresh state of a board.
type State int

// Board states. Success and failure are transitions back to Idle.
const (
	Idle State = iota
	Loading
)

func (s State) String() string {
	if s == Loading {
		return "loading"
	}

	return "idle"
}

// ErrBusy is returned when a refresh is triggered while one is in flight.
var ErrBusy = errors.New("refresh already in progress")

// Operation names recorded in refresh metrics.
const (
	opApply = "apply"
	opReset = "reset"

	statusOK    = "ok"
	statusError = "error"
)

// Trend period tooltip texts.
const (
	monthlyTrendText = "Monthly sales trends, showing how sales fluctuate over the course of a year."
	yearlyTrendText  = "Yearly sales trends, showing long-term sales performance."
)

// Fetcher retrieves the payload for a filter state.
type Fetcher interface {
	Fetch(ctx context.Context, state filterapi.FilterState) (payload.Payload, error)
}

// Indicator is the loading indicator.
type Indicator interface {
	Show()
	Hide()
}

// Notifier presents a refresh failure to the user.
type Notifier interface {
	Alert(message string)
}

// Deps are the collaborators of a board. Only Fetcher is required for
// refreshes; nil indicator, notifier and metrics are skipped.
type Deps struct {
	Fetcher   Fetcher
	Indicator Indicator
	Notifier  Notifier
	Metrics   *observability.REDMetrics
	Logger    *slog.Logger
}

// Board is one dashboard session.
type Board struct {
	Engine  *chart.Engine
	Ranking *widgets.StoreRanking
	Logger  *slog.Logger

	deps Deps

	mu         sync.Mutex
	state      State
	period     widgets.Period
	filters    filterapi.FilterState
	last       payload.Payload
	cards      payload.Series
	categories []string
	locations  []string
	lastError  string
}

// New creates a board rendering into every widget surface with theme t.
func New(t theme.Theme, deps Deps) *Board {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	layout := chart.NewLayout(widgets.IDs()...)

	return &Board{
		Engine:  chart.NewEngine(chart.NewRegistry(), layout, logger, t),
		Ranking: widgets.NewStoreRanking(payload.OrderDescending),
		Logger:  logger,
		deps:    deps,
		period:  widgets.PeriodMonth,
		filters: filterapi.Initial(),
	}
}

// State returns the refresh state.
func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// Load renders the initial page payload. Cards and option lists are taken
// from it when present.
func (b *Board) Load(p payload.Payload) widgets.Outcome {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.Cards != nil {
		b.cards = p.Cards
	}

	if p.Categories != nil {
		b.categories = p.Categories
	}

	if p.Locations != nil {
		b.locations = p.Locations
	}

	return b.dispatch(p)
}

// Apply fetches the payload for state and dispatches it. While a refresh
// is in flight it returns ErrBusy without issuing a request.
func (b *Board) Apply(ctx context.Context, state filterapi.FilterState) (widgets.Outcome, error) {
	return b.refresh(ctx, opApply, state)
}

// Reset restores the default filters and refreshes.
func (b *Board) Reset(ctx context.Context) (widgets.Outcome, error) {
	return b.refresh(ctx, opReset, filterapi.Defaults())
}

func (b *Board) refresh(ctx context.Context, op string, state filterapi.FilterState) (widgets.Outcome, error) {
	if b.deps.Fetcher == nil {
		return widgets.Outcome{}, errors.New("board has no fetcher")
	}

	b.mu.Lock()
	if b.state == Loading {
		b.mu.Unlock()

		return widgets.Outcome{}, ErrBusy
	}

	b.state = Loading
	b.mu.Unlock()

	if b.deps.Metrics != nil {
		done := b.deps.Metrics.TrackInflight(ctx, op)
		defer done()
	}

	b.showIndicator()
	defer b.finish()

	start := time.Now()

	p, err := b.deps.Fetcher.Fetch(ctx, state)

	b.record(ctx, op, err, time.Since(start))

	if err != nil {
		b.Logger.ErrorContext(ctx, "filter refresh failed", "op", op, "error", err)

		msg := alertMessage(op, err)

		b.mu.Lock()
		b.lastError = msg
		b.mu.Unlock()

		if b.deps.Notifier != nil {
			b.deps.Notifier.Alert(msg)
		}

		return widgets.Outcome{}, fmt.Errorf("%s: %w", op, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.filters = state
	b.lastError = ""

	if p.Cards != nil {
		b.cards = p.Cards
	}

	out := b.dispatch(p)

	b.Logger.InfoContext(ctx, "filter refresh applied", "op", op,
		"rendered", len(out.Rendered), "hidden", len(out.Hidden))

	return out, nil
}

// finish returns the board to Idle and clears the indicator.
func (b *Board) finish() {
	b.mu.Lock()
	b.state = Idle
	b.mu.Unlock()

	if b.deps.Indicator != nil {
		b.deps.Indicator.Hide()
	}
}

func (b *Board) showIndicator() {
	if b.deps.Indicator != nil {
		b.deps.Indicator.Show()
	}
}

func (b *Board) record(ctx context.Context, op string, err error, d time.Duration) {
	if b.deps.Metrics == nil {
		return
	}

	status := statusOK
	if err != nil {
		status = statusError
	}

	b.deps.Metrics.RecordRequest(ctx, op, status, d)
}

// dispatch sends p to every widget, the store table and the prediction
// chart. Callers hold b.mu.
func (b *Board) dispatch(p payload.Payload) widgets.Outcome {
	b.last = p

	c := b.context()
	out := widgets.Dispatch(b.Engine, p, c)

	if h := widgets.RenderPredicted(b.Engine, p, c); h != nil {
		out.Rendered = append(out.Rendered, widgets.PredictedSalesID)
	}

	if _, err := b.Ranking.Load(p); err != nil {
		b.Logger.Warn("store sales rejected", "error", err)
	}

	return out
}

func (b *Board) context() widgets.Context {
	return widgets.Context{Pair: b.Engine.Pair(), Period: b.period}
}

// SetTheme switches the theme and recolours every live chart.
func (b *Board) SetTheme(t theme.Theme) {
	b.Engine.SetTheme(t)
}

// SetTrendPeriod switches the sales trend chart between months and years
// using the last payload.
func (b *Board) SetTrendPeriod(period widgets.Period) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.period = period

	w, err := widgets.Lookup(widgets.SalesTrendID)
	if err != nil {
		return err
	}

	if _, err := w.Render(b.Engine, b.last, b.context()); err != nil {
		return fmt.Errorf("trend period %s: %w", period, err)
	}

	return nil
}

// TrendPeriod returns the trend period.
func (b *Board) TrendPeriod() widgets.Period {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.period
}

// TrendText returns the description of the sales trend chart for the
// current period.
func (b *Board) TrendText() string {
	if b.TrendPeriod() == widgets.PeriodYear {
		return yearlyTrendText
	}

	return monthlyTrendText
}

// SortStores resorts the store table from the retained data.
func (b *Board) SortStores(order payload.Order) []widgets.StoreRow {
	b.Ranking.Sort(order)

	return b.Ranking.Rows()
}

// Charts returns the handles of the visible widgets in layout order.
func (b *Board) Charts() []*chart.Handle {
	var handles []*chart.Handle

	for _, id := range b.Engine.Layout.IDs() {
		if !b.Engine.Layout.Visible(id) {
			continue
		}

		if h, ok := b.Engine.Registry.Get(id); ok {
			handles = append(handles, h)
		}
	}

	return handles
}

// Cards returns the summary cards of the last payload that carried them.
func (b *Board) Cards() payload.Series {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append(payload.Series(nil), b.cards...)
}

// Options returns the category and location filter choices.
func (b *Board) Options() (categories, locations []string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string(nil), b.categories...), append([]string(nil), b.locations...)
}

// Filters returns the filter state of the last successful refresh.
func (b *Board) Filters() filterapi.FilterState {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.filters
}

// LastError returns the alert message of the last failed refresh, or ""
// when the last refresh succeeded.
func (b *Board) LastError() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.lastError
}

// alertMessage is the user-facing text of a refresh failure.
func alertMessage(op string, err error) string {
	prefix := "Error: "
	if op == opReset {
		prefix = "Error resetting filters: "
	}

	var statusErr *filterapi.StatusError

	switch {
	case errors.As(err, &statusErr):
		return prefix + statusErr.Message
	case errors.Is(err, filterapi.ErrTimeout):
		return prefix + "Request timed out"
	default:
		return prefix + err.Error()
	}
}
