package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"school_service/internal/auth"
	"school_service/internal/config"
	"school_service/internal/handler"
	"school_service/internal/service"
	"school_service/internal/storage"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to the yaml config file")

	flag.Parse()
	if configPath == "" {
		log.Fatal("failed get config path from flags")
	}

	cfg := config.MustLoadConfig(configPath)

	lgr := setupLogger(cfg.Env)
	lgr.Info("starting school service", slog.String("env", cfg.Env), slog.String("storage", cfg.Storage.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := openStore(ctx, cfg.Storage)
	if err != nil {
		lgr.Error("failed to open storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer kv.Close()

	codec, err := auth.NewCodec(cfg.Auth.SigningKey.Bytes(), cfg.Auth.TokenTTL, nil)
	if err != nil {
		lgr.Error("failed to init token codec", slog.Any("error", err))
		os.Exit(1)
	}

	users := storage.NewUserStore(kv)
	ledger := auth.NewLedger(kv)
	verifier := auth.NewVerifier(codec, ledger, users)

	authService := service.NewAuthService(users, auth.NewBcryptHasher(cfg.Auth.BcryptCost), codec, ledger, verifier)
	messageService := service.NewMessageService(storage.NewMessageStore(kv))
	scheduleService := service.NewScheduleService(storage.NewScheduleStore(kv), users)

	h := handler.NewHandler(authService, messageService, scheduleService, lgr)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      h.InitRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		lgr.Info("http server listening", slog.String("address", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lgr.Error("http server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	lgr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lgr.Error("graceful shutdown failed", slog.Any("error", err))
	}

	lgr.Info("school service stopped")
}

func openStore(ctx context.Context, cfg config.Storage) (storage.Store, error) {
	const op = "main.openStore"

	switch cfg.Driver {
	case config.DriverRedis:
		client, err := storage.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return storage.NewRedisStore(client), nil
	case config.DriverPostgres:
		store, err := storage.NewPostgresStore(ctx, cfg.PostgresURL, cfg.Table)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return store, nil
	}

	return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Driver)
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
	return log
}
