package main

import (
	"context"
	"ctchen222/Todo-List/internal/api/controller"
	"ctchen222/Todo-List/internal/api/repository"
	"ctchen222/Todo-List/internal/api/service"
	"ctchen222/Todo-List/internal/config"
	"ctchen222/Todo-List/internal/db"
	"ctchen222/Todo-List/internal/logger"
	"ctchen222/Todo-List/internal/server"
	"ctchen222/Todo-List/internal/telemetry"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.Env)

	// Initialize telemetry
	shutdownOtel, err := telemetry.InitOtel(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdownOtel(context.Background()); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	// Initialize SQLite DB
	conn, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.InitializeDB(ctx, conn); err != nil {
		return err
	}

	sessionRepo, err := newSessionRepository(ctx, cfg, conn)
	if err != nil {
		return err
	}

	handler, err := newHandler(cfg, conn, sessionRepo)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server started", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server exiting")
	return nil
}

// newSessionRepository keeps sessions in Redis when REDIS_ADDR is set and in
// SQLite otherwise.
func newSessionRepository(ctx context.Context, cfg *config.Config, conn *sqlx.DB) (repository.SessionRepository, error) {
	if cfg.Redis.Addr == "" {
		return repository.NewSessionRepository(conn), nil
	}

	rdb, err := db.NewRedisClient(ctx, cfg.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	slog.Info("Sessions stored in redis", "addr", cfg.Redis.Addr)
	return repository.NewRedisSessionRepository(rdb), nil
}

func newHandler(cfg *config.Config, conn *sqlx.DB, sessionRepo repository.SessionRepository) (http.Handler, error) {
	if cfg.Env == config.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create repositories
	userRepo := repository.NewUserRepository(conn)
	todoRepo := repository.NewTodoRepository(conn)

	// Create services
	userService := service.NewUserService(userRepo)
	todoService := service.NewTodoService(todoRepo)
	sessionService := service.NewSessionService(sessionRepo, service.SessionOptions{
		Secret: []byte(cfg.Session.Secret),
		Issuer: cfg.Session.Issuer,
		TTL:    cfg.Session.TTL,
	})

	// Create controllers
	userController := controller.NewUserController(userService, sessionService)
	todoController := controller.NewTodoController(todoService)

	srv, err := server.NewServer(
		userController,
		todoController,
		controller.RequireAuth(userService, sessionService),
		server.Options{CookieSecure: cfg.Session.CookieSecure},
	)
	if err != nil {
		return nil, err
	}
	return srv.Engine(), nil
}
