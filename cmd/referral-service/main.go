package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alitto/pond/v2"
	"github.com/brtprivate/blockchain-bull-server/internal/app/background"
	"github.com/brtprivate/blockchain-bull-server/internal/app/setup"
	"github.com/brtprivate/blockchain-bull-server/internal/config"
	"github.com/brtprivate/blockchain-bull-server/internal/delivery/http/handlers"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	zlog, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to init dependencies", zap.Error(err))
	}
	defer deps.Close()

	uc, err := setup.InitializeUseCases(deps)
	if err != nil {
		zlog.Fatal("failed to init usecases", zap.Error(err))
	}

	if _, err := uc.ParticipantUsecase.SeedRoot(ctx, cfg.Referral.RootAddress); err != nil {
		zlog.Fatal("failed to seed root participant", zap.Error(err))
	}

	// Reconciler
	var tasks *background.BackgroundTasks
	if cfg.Reconciler.Enabled {
		pool := pond.NewPool(cfg.Reconciler.Workers)
		defer pool.StopAndWait()

		reconciler := background.NewReconciler(uc.ParticipantUsecase, deps.Repositories.InconsistencyRepo, pool, cfg.Reconciler.BatchSize, zlog)
		tasks = background.NewBackgroundTasks(reconciler, cfg.Reconciler.CronSpec, cfg.Reconciler.Timeout, zlog)
		if err := tasks.StartAll(ctx); err != nil {
			zlog.Fatal("failed to start background tasks", zap.Error(err))
		}
	}

	// HTTP server
	handler := handlers.NewHTTPReferralHandler(
		uc.ParticipantUsecase,
		uc.ReferralUsecase,
		uc.InvestmentUsecase,
		zlog,
		cfg.HTTPServer.RequestTimeout,
	)
	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: handler.NewRouter(deps.Registry),
	}

	go func() {
		zlog.Info("http server listening", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("http shutdown", zap.Error(err))
	}
	if tasks != nil {
		tasks.StopAll()
	}
}
