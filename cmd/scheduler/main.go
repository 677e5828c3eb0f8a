package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/example/class-scheduler/internal/application"
	"github.com/example/class-scheduler/internal/config"
	httptransport "github.com/example/class-scheduler/internal/http"
	"github.com/example/class-scheduler/internal/logging"
	"github.com/example/class-scheduler/internal/persistence"
	"github.com/example/class-scheduler/internal/persistence/sqlite"
	"github.com/example/class-scheduler/internal/protocol"
	"github.com/example/class-scheduler/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to build logger", "error", err)
		os.Exit(1)
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", cfg.ListenAddr)
	if err != nil {
		logger.Error("failed to listen", "addr", cfg.ListenAddr, "error", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, logger, ln); err != nil {
		logger.Error("scheduler stopped with error", "error", err)
		os.Exit(1)
	}
}

// run serves the line protocol on ln, and the ops endpoint when configured,
// until ctx is cancelled or, with stop_halts_listener, a STOP arrives.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := persistence.NewScheduleStore()

	var (
		journal       application.CommandJournal
		journalReader httptransport.JournalReader
	)
	if cfg.JournalEnabled() {
		j, err := sqlite.OpenJournal(ctx, sqlite.DefaultConfig(cfg.JournalDSN))
		if err != nil {
			_ = ln.Close()
			return err
		}
		defer func() {
			if cerr := j.Close(); cerr != nil {
				logger.Error("failed to close journal", "error", cerr)
			}
		}()
		journal, journalReader = j, j
	}

	service := application.NewSchedulingServiceWithLogger(store, journal, uuid.NewString, time.Now, logger)
	dispatcher := protocol.NewDispatcher(service, logger)

	onStop := func() {
		logger.Warn("STOP received; listener keeps serving other clients")
	}
	if cfg.StopHaltsListener {
		onStop = func() {
			logger.Info("STOP received; shutting down listener")
			cancel()
		}
	}
	srv := server.New(dispatcher, server.WithLogger(logger), server.WithOnStop(onStop))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})

	if cfg.OpsAddr != "" {
		ops := httptransport.NewOpsHandler(store, journalReader, logger)
		opsServer := &http.Server{
			Addr:              cfg.OpsAddr,
			Handler:           httptransport.NewRouter(ops, httptransport.RequestLogger(logger)),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		g.Go(func() error {
			logger.Info("ops endpoint listening", "addr", opsServer.Addr)
			if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := opsServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("failed to shutdown ops endpoint", "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}
