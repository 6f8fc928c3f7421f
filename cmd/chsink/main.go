package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/guillermoBallester/chsink/internal/adapter/destinations"
	"github.com/guillermoBallester/chsink/internal/adapter/mcp"
	"github.com/guillermoBallester/chsink/internal/adapter/postgres"
	"github.com/guillermoBallester/chsink/internal/audit"
	"github.com/guillermoBallester/chsink/internal/config"
	"github.com/guillermoBallester/chsink/internal/core/domain"
	"github.com/guillermoBallester/chsink/internal/core/port"
	"github.com/guillermoBallester/chsink/internal/core/service"
	"github.com/guillermoBallester/chsink/internal/telemetry"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cliFlags is the parsed command line: config overrides plus one-shot actions.
type cliFlags struct {
	config.Overrides
	PrintSample bool
}

func parseFlags(args []string) (cliFlags, error) {
	fs := flag.NewFlagSet("chsink", flag.ContinueOnError)

	destinationsFile := fs.String("destinations-file", "", "path to destinations YAML file")
	databaseURL := fs.String("database-url", "", "Postgres URL holding destination settings")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	transport := fs.String("transport", "", "MCP transport: stdio or http")
	httpAddr := fs.String("http-addr", "", "listen address for the http transport")
	bearerToken := fs.String("http-bearer-token", "", "bearer token required by the http transport")
	poolMaxConns := fs.Int("pool-max-conns", 0, "maximum pool connections")
	poolMinConns := fs.Int("pool-min-conns", 0, "minimum pool connections")
	poolMaxConnLifetime := fs.Duration("pool-max-conn-lifetime", 0, "maximum connection lifetime")

	var f cliFlags
	fs.BoolVar(&f.OTelEnabled, "otel", false, "enable OpenTelemetry tracing and metrics")
	fs.BoolVar(&f.MetricsEnabled, "metrics", false, "serve Prometheus metrics on /metrics")
	fs.StringVar(&f.AuditLog, "audit-log", "", "path to NDJSON audit log")
	fs.BoolVar(&f.PrintSample, "print-sample", false, "print a sample event as JSON and exit")

	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}

	// Only flags that were actually passed override env vars.
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "destinations-file":
			f.DestinationsFile = destinationsFile
		case "database-url":
			f.DatabaseURL = databaseURL
		case "log-level":
			f.LogLevel = logLevel
		case "transport":
			f.Transport = transport
		case "http-addr":
			f.HTTPAddr = httpAddr
		case "http-bearer-token":
			f.HTTPBearerToken = bearerToken
		case "pool-max-conns":
			n := int32(*poolMaxConns)
			f.PoolMaxConns = &n
		case "pool-min-conns":
			n := int32(*poolMinConns)
			f.PoolMinConns = &n
		case "pool-max-conn-lifetime":
			f.PoolMaxConnLifetime = poolMaxConnLifetime
		}
	})

	return f, nil
}

func run(args []string) error {
	flags, err := parseFlags(args)
	if err != nil {
		return err
	}
	if flags.PrintSample {
		return printSample(os.Stdout)
	}

	cfg, err := config.Load(flags.Overrides)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Logs go to stderr. stdout is reserved for the MCP stdio transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	logger.Info("starting chsink",
		slog.String("version", version),
		slog.String("log_level", cfg.LogLevel.String()),
		slog.String("transport", cfg.Transport),
		slog.Bool("otel", cfg.OTelEnabled),
		slog.Bool("metrics", cfg.MetricsEnabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	tracer := telemetry.NoopTracer()
	var inst telemetry.Multi
	if cfg.OTelEnabled {
		provider, err := telemetry.Init(ctx, "chsink", version)
		if err != nil {
			return fmt.Errorf("initializing telemetry: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				logger.Error("telemetry shutdown", slog.String("error", err.Error()))
			}
		}()
		tracer = provider.Tracer("chsink")
		inst = append(inst, telemetry.NewInstruments())
		logger.Info("opentelemetry enabled")
	}

	var prom *telemetry.PromInstruments
	if cfg.MetricsEnabled {
		prom = telemetry.NewPromInstruments()
		inst = append(inst, prom)
	}

	var auditor port.RequestAuditor = port.NoopAuditor{}
	if cfg.AuditLog != "" {
		fa, err := audit.NewFileAuditor(cfg.AuditLog)
		if err != nil {
			return fmt.Errorf("opening audit log: %w", err)
		}
		auditor = fa
		logger.Info("audit log enabled", slog.String("file", cfg.AuditLog))
	}
	defer func() {
		if err := auditor.Close(); err != nil {
			logger.Error("closing audit log", slog.String("error", err.Error()))
		}
	}()

	source, closeSource, err := openSettingsSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	// Services
	collectorSvc := service.NewCollectorService(auditor, logger, tracer, inst)
	destinationSvc := service.NewDestinationService(source)

	mcpServer := mcp.NewServer(version, collectorSvc, destinationSvc, logger, tracer, inst)

	switch cfg.Transport {
	case "http":
		err = serveHTTP(ctx, cfg, mcpServer, prom, logger)
	default:
		err = serveStdio(ctx, mcpServer, logger)
	}
	if err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

// openSettingsSource returns the configured named-destination source, or nil
// when only inline settings are used.
func openSettingsSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.SettingsSource, func(), error) {
	switch {
	case cfg.DestinationsFile != "":
		src, err := destinations.LoadFromFile(cfg.DestinationsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("loading destinations: %w", err)
		}
		logger.Info("destinations loaded", slog.String("file", cfg.DestinationsFile))
		return src, func() {}, nil

	case cfg.DatabaseURL != "":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{
			MaxConns:        cfg.PoolMaxConns,
			MinConns:        cfg.PoolMinConns,
			MaxConnLifetime: cfg.PoolMaxConnLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		store := postgres.NewSettingsStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrating settings store: %w", err)
		}
		logger.Info("settings store connected",
			slog.String("db.system", "postgresql"),
			slog.String("database_url", redactDSN(cfg.DatabaseURL)),
		)
		return store, pool.Close, nil
	}

	logger.Info("no destination source configured, inline settings only")
	return nil, func() {}, nil
}

func serveStdio(ctx context.Context, s *mcpserver.MCPServer, logger *slog.Logger) error {
	stdioServer := mcpserver.NewStdioServer(s)

	logger.Info("serving MCP over stdio")
	if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func serveHTTP(ctx context.Context, cfg *config.Config, s *mcpserver.MCPServer, prom *telemetry.PromInstruments, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", bearerAuthMiddleware(mcpserver.NewStreamableHTTPServer(s), cfg.HTTPBearerToken))
	mux.HandleFunc("/health", healthHandler)
	if prom != nil {
		mux.Handle("/metrics", prom.Handler())
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           recoveryMiddleware(mux, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving MCP over http", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// redactDSN masks the password of a connection URL for logging.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "***"
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}

// printSample writes a ready-to-send page event, handy as a tool argument.
func printSample(w io.Writer) error {
	now := time.Now()
	page := domain.PageData{
		Name:     "Home",
		Title:    "Home",
		URL:      "https://example.com/",
		Path:     "/",
		Referrer: "https://www.google.com/",
	}
	consent := domain.ConsentGranted
	event := domain.Event{
		UUID:            uuid.NewString(),
		Timestamp:       now.Unix(),
		TimestampMillis: now.UnixMilli(),
		TimestampMicros: now.UnixMicro(),
		EventType:       domain.EventPage,
		Data:            domain.Data{Page: &page},
		Context: domain.Context{
			Page: page,
			User: domain.UserData{
				UserID:      uuid.NewString(),
				AnonymousID: uuid.NewString(),
				EdgeeID:     uuid.NewString(),
			},
			Client: domain.Client{
				Locale:        "en-US",
				Timezone:      "Europe/Paris",
				ScreenWidth:   1024,
				ScreenHeight:  768,
				ScreenDensity: 2,
				CountryCode:   "FR",
			},
			Session: domain.Session{
				SessionID:    uuid.NewString(),
				SessionCount: 1,
				SessionStart: true,
				FirstSeen:    now.Unix(),
				LastSeen:     now.Unix(),
			},
		},
		Consent: &consent,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(event)
}
