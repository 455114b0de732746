// Package commands implements the salesboard CLI subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/salesboard/pkg/board"
	"github.com/Sumatoshi-tech/salesboard/pkg/config"
	"github.com/Sumatoshi-tech/salesboard/pkg/filterapi"
	"github.com/Sumatoshi-tech/salesboard/pkg/observability"
	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
	"github.com/Sumatoshi-tech/salesboard/pkg/theme"
	"github.com/Sumatoshi-tech/salesboard/pkg/version"
	"github.com/Sumatoshi-tech/salesboard/pkg/widgets"
)

const (
	configFlag       = "config"
	configUsage      = "config file (default ./salesboard.yaml)"
	envFileFlag      = "env-file"
	envFileUsage     = "KEY=VALUE file loaded into the environment"
	verboseFlag      = "verbose"
	verboseShort     = "v"
	verboseUsage     = "verbose output"
	defaultEnvFile   = ".env"
	stdinArg         = "-"
	outputFlag       = "output"
	outputShort      = "o"
	themeFlag        = "theme"
	themeUsage       = "colour theme (light or dark)"
	periodFlag       = "period"
	periodUsage      = "sales trend period (month or year)"
	outputFilePerm   = 0o644
	payloadArgsUsage = "payload file, or - for stdin"
)

// ErrNoOutput is returned when the --output flag is not set.
var ErrNoOutput = errors.New("output file is required (use --output)")

// GlobalOptions are the flags shared by every subcommand.
type GlobalOptions struct {
	ConfigPath string
	EnvFile    string
	Verbose    bool
}

// AddGlobalFlags registers the shared flags on the root command.
func AddGlobalFlags(root *cobra.Command, g *GlobalOptions) {
	root.PersistentFlags().StringVar(&g.ConfigPath, configFlag, "", configUsage)
	root.PersistentFlags().StringVar(&g.EnvFile, envFileFlag, defaultEnvFile, envFileUsage)
	root.PersistentFlags().BoolVarP(&g.Verbose, verboseFlag, verboseShort, false, verboseUsage)
}

// app is the runtime shared by the subcommands of one invocation.
type app struct {
	cfg       *config.Config
	providers observability.Providers
	red       *observability.REDMetrics
	logger    *slog.Logger
}

func newApp(g *GlobalOptions, mode observability.AppMode, logOut io.Writer) (*app, error) {
	if g == nil {
		g = &GlobalOptions{}
	}

	if g.EnvFile != "" {
		if err := config.LoadEnv(g.EnvFile); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadConfig(g.ConfigPath)
	if err != nil {
		return nil, err
	}

	providers, err := observability.InitWithWriter(observabilityConfig(cfg, mode, g.Verbose), logOut)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	red, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create refresh metrics: %w", err), providers.Shutdown(context.Background()))
	}

	return &app{cfg: cfg, providers: providers, red: red, logger: providers.Logger}, nil
}

func observabilityConfig(cfg *config.Config, mode observability.AppMode, verbose bool) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.LogLevel = observability.ParseLevel(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.JSON

	// Only a long-running host has anything to scrape.
	obsCfg.Prometheus = mode == observability.ModeServe && cfg.Telemetry.Prometheus

	if verbose {
		obsCfg.LogLevel = slog.LevelDebug
	}

	return obsCfg
}

func (a *app) close() {
	if err := a.providers.Shutdown(context.Background()); err != nil {
		a.logger.Warn("telemetry shutdown failed", "error", err)
	}
}

// client returns the filter endpoint client. baseURL overrides the
// configured address when set.
func (a *app) client(baseURL string) *filterapi.Client {
	if baseURL == "" {
		baseURL = a.cfg.Endpoint.BaseURL
	}

	c := filterapi.NewClient(baseURL, a.cfg.Endpoint.CSRFToken)
	c.Path = a.cfg.Endpoint.Path
	c.Timeout = a.cfg.Endpoint.Timeout

	return c
}

// newBoard creates a session with the configured theme, trend period and
// store order.
func (a *app) newBoard(deps board.Deps) *board.Board {
	deps.Metrics = a.red
	deps.Logger = a.logger

	b := board.New(theme.Parse(a.cfg.Dashboard.Theme), deps)
	b.Ranking.Sort(payload.ParseOrder(a.cfg.Dashboard.StoreSort))

	if err := b.SetTrendPeriod(widgets.ParsePeriod(a.cfg.Dashboard.TrendPeriod)); err != nil {
		a.logger.Warn("trend period not applied", "error", err)
	}

	return b
}

// applyDisplayFlags overrides the configured theme and period with the
// flags the user set.
func applyDisplayFlags(cmd *cobra.Command, b *board.Board, themeName, period string) error {
	if cmd.Flags().Changed(themeFlag) {
		b.SetTheme(theme.Parse(themeName))
	}

	if cmd.Flags().Changed(periodFlag) {
		if err := b.SetTrendPeriod(widgets.ParsePeriod(period)); err != nil {
			return err
		}
	}

	return nil
}

// readPayload parses the payload at path, or stdin for "-".
func readPayload(path string, stdin io.Reader) (payload.Payload, error) {
	var (
		body []byte
		err  error
	)

	if path == stdinArg {
		body, err = io.ReadAll(stdin)
	} else {
		body, err = os.ReadFile(path)
	}

	if err != nil {
		return payload.Payload{}, fmt.Errorf("read payload: %w", err)
	}

	p, err := payload.Parse(body)
	if err != nil {
		return payload.Payload{}, fmt.Errorf("parse payload %s: %w", path, err)
	}

	return p, nil
}

// createOutput opens path for writing, or returns stdout for "-".
func createOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == stdinArg {
		return stdout, func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePerm)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}

	return f, f.Close, nil
}
