// Package server implements the `cockpit server` command: configuration,
// database, dependency wiring, the background scheduler, and a gin HTTP
// server with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	gitApp "github.com/devvault/cockpit/internal/application/git"
	projectApp "github.com/devvault/cockpit/internal/application/project"
	"github.com/devvault/cockpit/internal/infrastructure/config"
	"github.com/devvault/cockpit/internal/infrastructure/crypto"
	"github.com/devvault/cockpit/internal/infrastructure/database"
	"github.com/devvault/cockpit/internal/infrastructure/gitcli"
	"github.com/devvault/cockpit/internal/infrastructure/github"
	"github.com/devvault/cockpit/internal/infrastructure/migration"
	"github.com/devvault/cockpit/internal/infrastructure/repository"
	"github.com/devvault/cockpit/internal/infrastructure/scheduler"
	httpRouter "github.com/devvault/cockpit/internal/interfaces/http"
	"github.com/devvault/cockpit/internal/interfaces/http/handlers"
	"github.com/devvault/cockpit/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the cockpit HTTP server with the configured database, scheduler, and GitHub connection broker.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting server", "environment", env)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	log := logger.NewLogger()

	if err := migration.Run(database.Get(), log); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	stateRepo := repository.NewOAuthStateRepository(database.Get())
	connRepo := repository.NewGitConnectionRepository(database.Get())
	projectRepo := repository.NewProjectRepository(database.Get())

	vault := crypto.NewTokenEncryptor(cfg.Security.TokenEncryptionKey, crypto.NewEnvKeyStore(), log)
	ghClient := github.NewClient(cfg.GitHub, log)

	stateManager := gitApp.NewStateManager(stateRepo, cfg.OAuthState.TTL(), log)
	gitService := gitApp.NewService(stateManager, connRepo, ghClient, vault, log)

	runner := gitcli.NewDefaultCommandRunner(log)
	gitCLI := gitcli.NewGitService(runner, log)
	projectService := projectApp.NewService(projectRepo, gitCLI, cfg.Workspace, log)

	engine := httpRouter.NewRouter(&cfg.Server, log, httpRouter.RouterDeps{
		GitHubHandler:  handlers.NewGitHubHandler(gitService),
		ProjectHandler: handlers.NewProjectHandler(projectService),
		AdminHandler:   handlers.NewAdminHandler(gitService),
	})

	sched, err := scheduler.NewManager(log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := sched.RegisterStatePurgeJob(stateManager, cfg.OAuthState.PurgeInterval()); err != nil {
		return fmt.Errorf("failed to register purge job: %w", err)
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Errorw("failed to stop scheduler", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
