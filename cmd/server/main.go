package main

import (
	"context"
	"ctchen222/todo-api/internal/api/controller"
	"ctchen222/todo-api/internal/api/repository"
	"ctchen222/todo-api/internal/api/service"
	"ctchen222/todo-api/internal/auth"
	"ctchen222/todo-api/internal/config"
	"ctchen222/todo-api/internal/db"
	"ctchen222/todo-api/internal/logger"
	"ctchen222/todo-api/internal/server"
	"ctchen222/todo-api/internal/telemetry"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("todo-api: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, telemetry.Options{
		Endpoint:     cfg.OTLPEndpoint,
		StdoutTraces: cfg.StdoutTraces,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("error shutting down telemetry", "error", err)
		}
	}()

	logger.Init(os.Stdout, cfg.SlogLevel())
	gin.SetMode(gin.ReleaseMode)

	// Create repositories
	userRepo, itemRepo, health, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	tokens := auth.NewManager(cfg.JWT.Key, cfg.JWT.Issuer, cfg.JWT.Audience)

	// Create services and controllers
	userController := controller.NewUserController(service.NewUserService(userRepo, tokens))
	itemController := controller.NewItemController(service.NewItemService(userRepo, itemRepo))

	srv := server.NewServer(server.Options{
		CORSOrigin: cfg.CORSOrigin,
		Tokens:     tokens,
		Health:     health,
	}, userController, itemController)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server started", "addr", cfg.HTTPAddr, "store", cfg.StoreBackend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen and serve: %w", err)
		}
	case <-stop:
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exiting")
	return nil
}

// openStore connects the configured backend and returns its repositories,
// a health check and a close function.
func openStore(ctx context.Context, cfg *config.Config) (repository.UserRepository, repository.ItemRepository, server.HealthCheck, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		health := func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		return repository.NewRedisUserRepository(rdb), repository.NewRedisItemRepository(rdb), health, func() { rdb.Close() }, nil
	default:
		conn, err := db.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to initialize sqlite db: %w", err)
		}
		return repository.NewUserRepository(conn), repository.NewItemRepository(conn), conn.PingContext, func() { conn.Close() }, nil
	}
}
