// Package batch implements the one-shot maintenance commands operating on
// stored connections: token migration and scope backfill.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	gitApp "github.com/devvault/cockpit/internal/application/git"
	"github.com/devvault/cockpit/internal/infrastructure/config"
	"github.com/devvault/cockpit/internal/infrastructure/crypto"
	"github.com/devvault/cockpit/internal/infrastructure/database"
	"github.com/devvault/cockpit/internal/infrastructure/migration"
	"github.com/devvault/cockpit/internal/infrastructure/repository"
	"github.com/devvault/cockpit/internal/shared/logger"
)

const jobTimeout = 10 * time.Minute

var (
	env    string
	dryRun bool
)

// NewMigrateTokensCommand builds the `migrate-tokens` subcommand.
func NewMigrateTokensCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate-tokens",
		Short: "Encrypt plaintext access tokens at rest",
		Long:  `Re-encrypt every stored GitHub access token that is still plaintext using the configured encryption key. Values that already decrypt cleanly are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(ctx context.Context, conns *repository.GitConnectionRepository, vault *crypto.TokenEncryptor, log logger.Interface) error {
				job := gitApp.NewTokenMigrationJob(conns, vault, dryRun, log)
				report, err := job.Run(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("token migration done: reencrypted=%d skipped=%d failed=%d dry_run=%v\n",
					report.Reencrypted, report.Skipped, report.Failed, dryRun)
				return nil
			})
		},
	}

	addFlags(cmd)
	return cmd
}

// NewBackfillScopesCommand builds the `backfill-scopes` subcommand.
func NewBackfillScopesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill-scopes",
		Short: "Rebuild normalized scope rows from stored scope snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(ctx context.Context, conns *repository.GitConnectionRepository, _ *crypto.TokenEncryptor, log logger.Interface) error {
				job := gitApp.NewScopesBackfillJob(conns, dryRun, log)
				report, err := job.Run(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("scopes backfill done: filled=%d skipped=%d failed=%d dry_run=%v\n",
					report.Filled, report.Skipped, report.Failed, dryRun)
				return nil
			})
		},
	}

	addFlags(cmd)
	return cmd
}

func addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
}

func withDeps(fn func(ctx context.Context, conns *repository.GitConnectionRepository, vault *crypto.TokenEncryptor, log logger.Interface) error) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	log := logger.NewLogger()

	if err := migration.Run(database.Get(), log); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	conns := repository.NewGitConnectionRepository(database.Get())
	vault := crypto.NewTokenEncryptor(cfg.Security.TokenEncryptionKey, crypto.NewEnvKeyStore(), log)

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	return fn(ctx, conns, vault, log)
}
