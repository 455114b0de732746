package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/salesboard/pkg/config"
	"github.com/Sumatoshi-tech/salesboard/pkg/observability"
)

const testPayload = `{
	"cards": {"Total Sales": 1500, "Total Transactions": 12},
	"categories": ["Clothing", "Footwear"],
	"locations": ["Ohio"],
	"graphs": {
		"sales_by_category": {"Clothing": 300, "Footwear": 100},
		"sales_by_season": {"Winter": 5, "Summer": 9},
		"sales_by_month": {"Jan": 10, "Feb": 20},
		"sales_by_year": {"2023": 100, "2024": 150},
		"gender_distribution": {"Female": 7, "Male": 5},
		"sales_by_store": {"North": 10000, "South": 30000, "East": 20000}
	}
}`

const filteredPayload = `{
	"sales_by_season": {"Winter": 2, "Summer": 4},
	"sales_by_store": {"North": 1, "South": 3}
}`

const testConfig = `
logging:
  level: error
dashboard:
  title: Test Board
`

func init() {
	color.NoColor = true //nolint:reassign // Tests compare plain output.
}

func testGlobals(t *testing.T) *GlobalOptions {
	t.Helper()

	path := filepath.Join(t.TempDir(), "salesboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	return &GlobalOptions{ConfigPath: path}
}

func writePayload(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func TestRenderCommand_WritesPage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "board.html")
	dump := filepath.Join(dir, "options.yaml")

	var stderr bytes.Buffer

	cmd := buildRenderCommand(testGlobals(t))
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{writePayload(t, testPayload), "-o", out, "--theme", "light", "--dump-options", dump})

	require.NoError(t, cmd.Execute())

	html := readFile(t, out)
	assert.Contains(t, html, `data-theme="light"`)
	assert.Contains(t, html, "Test Board")
	assert.Contains(t, html, `id="categoryChart"`)
	assert.Contains(t, html, "$1,500")

	options := readFile(t, dump)
	assert.Contains(t, options, "categoryChart:")
	assert.Contains(t, options, "genderChart:")
	assert.NotContains(t, options, "regionChart:")

	assert.Contains(t, stderr.String(), "rendered 4 charts to "+out)
}

func TestRenderCommand_Stdin(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	cmd := buildRenderCommand(testGlobals(t))
	cmd.SetIn(strings.NewReader(testPayload))
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"-", "-o", "-", "--period", "year"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "long-term sales performance")
}

func TestRenderCommand_RequiresOutput(t *testing.T) {
	t.Parallel()

	cmd := buildRenderCommand(testGlobals(t))
	cmd.SetArgs([]string{writePayload(t, testPayload)})

	require.ErrorIs(t, cmd.Execute(), ErrNoOutput)
}

func TestRenderCommand_MalformedPayload(t *testing.T) {
	t.Parallel()

	cmd := buildRenderCommand(testGlobals(t))
	cmd.SetArgs([]string{writePayload(t, "{not json"), "-o", filepath.Join(t.TempDir(), "x.html")})

	require.Error(t, cmd.Execute())
}

type recordedRequest struct {
	body map[string]any
}

func filterEndpoint(t *testing.T, status int, body string) (*httptest.Server, *recordedRequest) {
	t.Helper()

	rec := &recordedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err == nil {
			_ = json.Unmarshal(data, &rec.body)
		}

		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv, rec
}

func TestFetchCommand_AppliesFilters(t *testing.T) {
	t.Parallel()

	srv, rec := filterEndpoint(t, http.StatusOK, filteredPayload)
	out := filepath.Join(t.TempDir(), "board.html")

	var stderr bytes.Buffer

	cmd := buildFetchCommand(testGlobals(t))
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--endpoint", srv.URL, "--category", "Clothing", "--age", "30-40", "-o", out})

	require.NoError(t, cmd.Execute())

	assert.Equal(t, "Clothing", rec.body["category"])
	assert.Equal(t, []any{30.0, 40.0}, rec.body["age_range"])
	assert.Equal(t, []any{1.0, 4.5}, rec.body["rating_range"])
	assert.NotContains(t, rec.body, "location")

	assert.Contains(t, readFile(t, out), `id="seasonChart"`)
	assert.Contains(t, stderr.String(), "Loading...")
	assert.Contains(t, stderr.String(), "rendered 1 charts")
}

func TestFetchCommand_Reset(t *testing.T) {
	t.Parallel()

	srv, rec := filterEndpoint(t, http.StatusOK, filteredPayload)

	cmd := buildFetchCommand(testGlobals(t))
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--endpoint", srv.URL, "--reset", "-o", filepath.Join(t.TempDir(), "x.html")})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, []any{0.0, 100.0}, rec.body["age_range"])
	assert.Equal(t, []any{0.0, 5.0}, rec.body["rating_range"])
}

func TestFetchCommand_EndpointFailureAlerts(t *testing.T) {
	t.Parallel()

	srv, _ := filterEndpoint(t, http.StatusInternalServerError, `{"error": "database offline"}`)

	var stderr bytes.Buffer

	cmd := buildFetchCommand(testGlobals(t))
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--endpoint", srv.URL, "-o", filepath.Join(t.TempDir(), "x.html")})

	require.Error(t, cmd.Execute())
	assert.Contains(t, stderr.String(), "Error: database offline")
}

func TestFetchCommand_BadRange(t *testing.T) {
	t.Parallel()

	cmd := buildFetchCommand(testGlobals(t))
	cmd.SetArgs([]string{"--endpoint", "http://127.0.0.1:1", "--rating", "5-1", "-o", "-"})

	require.Error(t, cmd.Execute())
}

func TestRankingCommand_PrintsTable(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	cmd := buildRankingCommand(testGlobals(t))
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{writePayload(t, testPayload)})

	require.NoError(t, cmd.Execute())

	table := stdout.String()
	assert.Less(t, strings.Index(table, "South"), strings.Index(table, "North"))
	assert.Contains(t, table, "$30.0K")
	assert.Contains(t, table, "Total: 3 stores")
	assert.NotContains(t, table, "TOTAL")
	assert.Contains(t, table, "$60.0K")
}

func TestRankingCommand_AscendingWithWorkbook(t *testing.T) {
	t.Parallel()

	xlsx := filepath.Join(t.TempDir(), "stores.xlsx")

	var stdout, stderr bytes.Buffer

	cmd := buildRankingCommand(testGlobals(t))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{writePayload(t, testPayload), "--order", "asc", "--xlsx", xlsx})

	require.NoError(t, cmd.Execute())

	table := stdout.String()
	assert.Less(t, strings.Index(table, "North"), strings.Index(table, "South"))
	assert.True(t, strings.HasPrefix(readFile(t, xlsx), "PK"))
	assert.Contains(t, stderr.String(), "wrote 3 stores")
}

func TestRankingCommand_NoStores(t *testing.T) {
	t.Parallel()

	cmd := buildRankingCommand(testGlobals(t))
	cmd.SetArgs([]string{writePayload(t, `{"sales_by_season": {"Winter": 1}}`)})

	require.ErrorIs(t, cmd.Execute(), ErrNoStores)
}

func TestReportCommand_WritesPDF(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "report.pdf")

	var stderr bytes.Buffer

	cmd := buildReportCommand(testGlobals(t))
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{writePayload(t, testPayload), "-o", out})

	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(readFile(t, out), "%PDF"))
	assert.Contains(t, stderr.String(), "wrote 4 charts")
}

func TestFilterState_KeepsInitialSliders(t *testing.T) {
	t.Parallel()

	state, err := fetchOptions{location: "Ohio", rating: "2-3"}.filterState()
	require.NoError(t, err)

	assert.Equal(t, "Ohio", state.Location)
	assert.Equal(t, "20 - 60", state.AgeRange.String())
	assert.Equal(t, "2 - 3", state.RatingRange.String())
}

func TestObservabilityConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Logging:   config.LoggingConfig{Level: "warn"},
		Telemetry: config.TelemetryConfig{Prometheus: true, OTLPHeaders: "x-key=abc"},
	}

	cli := observabilityConfig(cfg, observability.ModeCLI, false)
	assert.False(t, cli.Prometheus)
	assert.Equal(t, slog.LevelWarn, cli.LogLevel)
	assert.Equal(t, map[string]string{"x-key": "abc"}, cli.OTLPHeaders)

	serve := observabilityConfig(cfg, observability.ModeServe, true)
	assert.True(t, serve.Prometheus)
	assert.Equal(t, slog.LevelDebug, serve.LogLevel)
	assert.Equal(t, observability.ModeServe, serve.Mode)
}
