package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/infrastructure/database"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/di"
	"github.com/Hiro-mackay/pdfops/internal/interface/middleware"
	"github.com/Hiro-mackay/pdfops/internal/interface/router"
	"github.com/Hiro-mackay/pdfops/internal/interface/server"
	"github.com/Hiro-mackay/pdfops/internal/interface/validator"
	authcmd "github.com/Hiro-mackay/pdfops/internal/usecase/auth/command"
	"github.com/Hiro-mackay/pdfops/pkg/config"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: $CONFIG_PATH)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Logger setup
	logCloser, err := logger.Setup(logger.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Output:    cfg.Log.Output,
		AddSource: cfg.Log.AddSource,
	})
	if err != nil {
		slog.Error("failed to setup logger", "error", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	if cfg.Database.Driver == "postgres" {
		if err := migrate(cfg); err != nil {
			return err
		}
	}

	// Initialize DI Container
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	// Initialize UseCases, Handlers, and Middlewares
	container.InitUseCases()
	bootstrapAdmin(ctx, container, cfg.Bootstrap)
	handlers := di.NewHandlers(container)
	middlewares := di.NewMiddlewares(container)

	// Setup Server
	serverConfig := server.DefaultConfig()
	serverConfig.Port = cfg.Server.Port
	serverConfig.Debug = cfg.Server.Debug
	serverConfig.BodyLimit = cfg.Server.BodyLimit
	srv := server.NewServer(serverConfig)
	e := srv.Echo()

	// Setup validator and error handler
	e.Validator = validator.NewCustomValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	securityConfig := middleware.DefaultSecurityHeadersConfig()
	securityConfig.EnableHSTS = cfg.Security.EnableHSTS
	e.Use(middleware.SecurityHeaders(securityConfig))
	e.Use(middleware.CORS(cfg.Security.CORSOrigins))

	// Setup Router
	router.NewRouter(e, handlers, middlewares).Setup()

	// Start background workers
	workerMgr := di.NewWorkers(container)
	workerMgr.Start()
	slog.Info("background workers started", "jobs", workerMgr.Jobs())

	// Start server
	slog.Info("starting server", "port", cfg.Server.Port, "database", cfg.Database.Driver)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.Config().ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if !workerMgr.Shutdown(10 * time.Second) {
		slog.Warn("background workers did not stop in time")
	}
	if err := container.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to flush history tracker", "error", err)
	}
	slog.Info("server stopped")
	return nil
}

// migrate はPostgreSQLのスキーマを最新にします
func migrate(cfg *config.Config) error {
	m, err := database.NewMigrator(cfg.Database.MigrationsDir, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer m.Close()

	applied, err := m.Up()
	if err != nil {
		return err
	}
	if applied {
		slog.Info("database migrations applied")
	}
	return nil
}

// bootstrapAdmin は設定された管理者ユーザーを用意します
// 失敗してもサーバーは起動します
func bootstrapAdmin(ctx context.Context, c *di.Container, cfg config.BootstrapConfig) {
	if cfg.AdminEmail == "" {
		return
	}
	out, err := c.Auth.EnsureAdmin.Execute(ctx, authcmd.EnsureAdminInput{
		Email:     cfg.AdminEmail,
		Password:  cfg.AdminPassword,
		FirstName: cfg.AdminFirstName,
		LastName:  cfg.AdminLastName,
	})
	if err != nil {
		slog.Error("failed to bootstrap admin user", "email", cfg.AdminEmail, "error", err)
		return
	}
	slog.Info("admin user ready", "user_id", out.UserID, "created", out.Created, "promoted", out.Promoted)
}
