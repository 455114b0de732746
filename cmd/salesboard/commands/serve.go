package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/salesboard/pkg/board"
	"github.com/Sumatoshi-tech/salesboard/pkg/cache"
	"github.com/Sumatoshi-tech/salesboard/pkg/filterapi"
	"github.com/Sumatoshi-tech/salesboard/pkg/observability"
)

const (
	serveCmdUse   = "serve"
	serveCmdShort = "Host the dashboard over HTTP"
	hostFlag      = "host"
	hostUsage     = "listen host (overrides server.host)"
	portFlag      = "port"
	portShort     = "p"
	portUsage     = "listen port (overrides server.port)"
	payloadFlag   = "payload"
	payloadUsage  = "initial payload file; without it the initial filters are fetched from the endpoint"
)

// ErrNotReady is reported by the readiness check until a payload is loaded.
var ErrNotReady = errors.New("no dashboard data loaded")

// NewServeCommand creates the serve subcommand.
func NewServeCommand(g *GlobalOptions) *cobra.Command {
	return buildServeCommand(g)
}

func buildServeCommand(g *GlobalOptions) *cobra.Command {
	var (
		host        string
		port        int
		payloadPath string
	)

	cmd := &cobra.Command{
		Use:   serveCmdUse,
		Short: serveCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(g, observability.ModeServe, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			if cmd.Flags().Changed(hostFlag) {
				a.cfg.Server.Host = host
			}

			if cmd.Flags().Changed(portFlag) {
				a.cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, a, payloadPath)
		},
	}

	cmd.Flags().StringVar(&host, hostFlag, "", hostUsage)
	cmd.Flags().IntVarP(&port, portFlag, portShort, 0, portUsage)
	cmd.Flags().StringVar(&payloadPath, payloadFlag, "", payloadUsage)

	return cmd
}

// dashboardServer serves one board to every client.
type dashboardServer struct {
	board     *board.Board
	title     string
	snapshots *cache.Snapshots
	ready     atomic.Bool
}

func newDashboardServer(b *board.Board, title string) *dashboardServer {
	return &dashboardServer{board: b, title: title, snapshots: cache.New(cache.DefaultSize)}
}

func (s *dashboardServer) readyCheck(context.Context) error {
	if !s.ready.Load() {
		return ErrNotReady
	}

	return nil
}

func runServe(ctx context.Context, a *app, payloadPath string) error {
	var fetcher board.Fetcher
	if a.cfg.Endpoint.BaseURL != "" {
		fetcher = a.client("")
	}

	b := a.newBoard(board.Deps{Fetcher: fetcher})
	srv := newDashboardServer(b, a.cfg.Dashboard.Title)

	if err := srv.loadInitial(ctx, payloadPath, a); err != nil {
		return err
	}

	if a.cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := newRouter(srv, a.providers.Tracer, a.red, a.providers.MetricsHandler)

	httpServer := &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", httpServer.Addr, err)
	}

	a.logger.Info("salesboard serving", "addr", "http://"+listener.Addr().String())

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	a.logger.Info("salesboard shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.WriteTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	return nil
}

// loadInitial renders the first payload from a file or, failing that, from
// the endpoint with the initial filters. An endpoint failure is logged and
// leaves the server unready until a refresh succeeds.
func (s *dashboardServer) loadInitial(ctx context.Context, payloadPath string, a *app) error {
	if payloadPath != "" {
		p, err := readPayload(payloadPath, os.Stdin)
		if err != nil {
			return err
		}

		s.board.Load(p)
		s.ready.Store(true)

		return nil
	}

	if a.cfg.Endpoint.BaseURL == "" {
		a.logger.Warn("no payload and no endpoint configured; dashboard starts empty")

		return nil
	}

	if _, err := s.board.Apply(ctx, filterapi.Initial()); err != nil {
		a.logger.WarnContext(ctx, "initial fetch failed", "error", err)

		return nil
	}

	s.ready.Store(true)

	return nil
}

func newRouter(s *dashboardServer, tracer trace.Tracer, red *observability.REDMetrics, metrics http.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if tracer != nil {
		router.Use(observability.Middleware(tracer, red))
	}

	router.GET("/", s.index)
	router.POST("/filter/", s.filter)
	router.POST("/reset", s.reset)
	router.POST("/theme/:name", s.setTheme)
	router.POST("/period/:period", s.setPeriod)
	router.GET("/stores", s.stores)
	router.GET("/stores.xlsx", s.storesWorkbook)
	router.GET("/report.pdf", s.report)
	router.POST("/generate_report/", s.generateReport)
	router.GET("/charts/:id", s.chart)
	router.GET("/charts/:id/png", s.chartImage)

	router.GET("/healthz", observability.HealthHandler())
	router.GET("/readyz", observability.ReadyHandler(s.readyCheck))

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	return router
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 {
		return def
	}

	return v
}
