// Command pipelinetracker serves the pipeline tracking API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"pipelinetracker/internal/api"
	"pipelinetracker/internal/blob"
	"pipelinetracker/internal/config"
	"pipelinetracker/internal/core"
	"pipelinetracker/internal/intake"
)

const shutdownGrace = 10 * time.Second

var exitFunc = os.Exit

func main() {
	code := cli(os.Args[1:], os.Stderr, os.Getenv)
	exitFunc(code)
}

func cli(args []string, stderr io.Writer, getenv func(string) string) int {
	fs := flag.NewFlagSet("pipelinetracker", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var configPath, logLevel string
	fs.StringVar(&configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&logLevel, "loglevel", "", "overrides the configured log level (debug, info, warn, error, off)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(configPath, getenv)
	if err != nil {
		fmt.Fprintf(stderr, "configuration: %v\n", err)
		return 1
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingDatabaseURL) {
			fmt.Fprintf(stderr, "%v: set %s or databaseUrl in the config file\n", err, config.EnvDatabaseURL)
			return 1
		}
		fmt.Fprintf(stderr, "configuration: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := serve(ctx, cfg, stderr); err != nil {
		fmt.Fprintf(stderr, "pipelinetracker: %v\n", err)
		return 1
	}
	return 0
}

// server holds the wired application and the resources closed on shutdown.
type server struct {
	e     *echo.Echo
	store core.PersistentStore
}

func (s *server) close() error {
	return s.store.Close()
}

// build opens the configured database and file store and wires them to the
// HTTP layer.
func build(ctx context.Context, cfg config.Config, stderr io.Writer) (*server, error) {
	logger := log.New("pipelinetracker")
	logger.SetOutput(stderr)

	store, err := core.OpenPersistentStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	files, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open file store: %w", err)
	}
	in := intake.New(files)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := core.NewPrometheusMetricsRecorder(reg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	opts := []core.Option{
		core.WithLogger(api.ServiceLogger(logger)),
		core.WithMetricsRecorder(recorder),
		core.WithStrictActorIDs(cfg.StrictActorIDs),
	}
	if cfg.TraceSpans {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(stderr, 0)))
	}
	svc := core.NewService(store, in, opts...)

	e, err := api.New(svc, in, api.Config{
		PublicBaseURL: cfg.PublicBaseURL,
		CORSOrigins:   cfg.CORSOrigins,
		LogLevel:      cfg.LogLevel,
		PresignExpiry: cfg.PresignExpiry,
		Registerer:    reg,
		Gatherer:      reg,
		Logger:        logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if cfg.OrphanFileAge > 0 {
		removed, err := svc.SweepOrphanFiles(ctx, cfg.OrphanFileAge)
		if err != nil {
			logger.Warnj(log.JSON{"message": "orphan file sweep failed", "error": err.Error()})
		} else {
			logger.Infoj(log.JSON{"message": "orphan file sweep", "removed": removed})
		}
	}
	logger.Infoj(log.JSON{"message": "configured", "blob_driver": string(in.Driver()), "listen": cfg.Listen})
	return &server{e: e, store: store}, nil
}

// serve runs the API until ctx is cancelled or the listener fails. ctx only
// stops the server; the resources opened by build live until serve returns.
func serve(ctx context.Context, cfg config.Config, stderr io.Writer) error {
	srv, err := build(context.WithoutCancel(ctx), cfg, stderr)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := srv.close(); cerr != nil {
			srv.e.Logger.Errorf("close database: %v", cerr)
		}
	}()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.e.Start(cfg.Listen) }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	srv.e.Logger.Info("shutting down")
	return api.Shutdown(srv.e, shutdownGrace)
}
