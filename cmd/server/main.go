package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jtladams423-replit/degen-gm/internal/board"
	"github.com/jtladams423-replit/degen-gm/internal/config"
	"github.com/jtladams423-replit/degen-gm/internal/httpapi"
	"github.com/jtladams423-replit/degen-gm/internal/hub"
	"github.com/jtladams423-replit/degen-gm/internal/lobby"
	"github.com/jtladams423-replit/degen-gm/internal/logging"
	"github.com/jtladams423-replit/degen-gm/internal/store"
	"github.com/jtladams423-replit/degen-gm/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	lobbyOpts := lobby.Options{Logger: logger}
	var (
		b          *board.Board
		boardSlots int
	)
	if cfg.BoardFile != "" {
		b, err = board.Load(cfg.BoardFile)
		if err != nil {
			return multierr.Append(err, st.Close())
		}
		lobbyOpts.Picker = b
		boardSlots = b.SlotsPerRound
		logger.Info("board loaded",
			zap.String("sport", b.Sport),
			zap.Int("year", b.Year),
			zap.Int("slots_per_round", b.SlotsPerRound),
			zap.Int("players", len(b.Players)),
		)
	}
	// Auto-picks walk the board's plan, so the engine must end the draft
	// where that plan ends.
	lobbyOpts.SlotsPerRound, err = cfg.SlotsPerRoundFor(boardSlots)
	if err != nil {
		return multierr.Append(err, st.Close())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	// Build the router *with* the hub injected
	h := hub.NewHub(gctx, st, lobbyOpts)
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Hub:    h,
			Board:  b,
			Logger: logger,
			WS: ws.Options{
				OutboxSize:     cfg.OutboxSize,
				OriginPatterns: cfg.AllowedOrigins,
			},
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return multierr.Combine(srv.Shutdown(shutdownCtx), st.Close())
	})
	return g.Wait()
}

func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.Store {
	case config.StorePostgres:
		return store.Open(store.DriverPostgres, cfg.DatabaseDSN)
	case config.StoreSQLite:
		return store.Open(store.DriverSQLite, cfg.DatabaseDSN)
	default:
		return store.NewMemory(), nil
	}
}
