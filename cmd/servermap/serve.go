package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"servermap/internal/filtermap"
	"servermap/internal/handler"
	"servermap/internal/hub"
	"servermap/internal/loader"
	"servermap/internal/repository/sqlite"
	"servermap/internal/service"
	"servermap/internal/watcher"
)

var (
	serveAddr string
	serveDB   string
)

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and event stream",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveDB != "" {
		cfg.Database.Path = serveDB
	}
	logger.Info("starting servermap", zap.String("config", cfg.Summary()))

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	eventBus := service.NewEventBus()
	merger := filtermap.New(filtermap.WithLogger(logger.Named("filtermap")))
	svc := service.NewViewService(repo, merger, eventBus, logger.Named("views"))

	sseHub := hub.New(logger)
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)

	router := handler.NewRouter(handler.RouterConfig{
		Map:           handler.NewMapHandler(svc, cfg.Explorer.DefaultPeriod, logger),
		Views:         handler.NewViewHandler(svc, logger),
		Events:        sseHub,
		AllowedOrigin: cfg.Server.AllowedOrigin,
		Logger:        logger.Named("http"),
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if seed := cfg.Explorer.SeedFile; seed != "" {
		if err := importSeed(ctx, svc, seed); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sseHub.Run(ctx)
	})
	g.Go(func() error {
		return hub.Forward(ctx, sseHub, eventChan)
	})

	if cfg.Explorer.SeedFile != "" && cfg.Explorer.WatchSeed {
		w := watcher.New(cfg.Explorer.SeedFile, func() {
			if err := importSeed(ctx, svc, cfg.Explorer.SeedFile); err != nil {
				logger.Warn("seed reload failed", zap.Error(err))
			}
		}, logger.Named("watcher"))
		g.Go(func() error {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watch seed file: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func importSeed(ctx context.Context, svc *service.ViewService, path string) error {
	set, err := loader.LoadViews(path)
	if err != nil {
		return fmt.Errorf("failed to load seed views: %w", err)
	}
	if err := svc.ImportViews(ctx, set); err != nil {
		return fmt.Errorf("failed to import seed views: %w", err)
	}
	return nil
}
