package git

import (
	"context"
	"fmt"

	"github.com/devvault/cockpit/internal/shared/logger"
)

// MigrationReport aggregates the outcome of a token migration pass.
type MigrationReport struct {
	Reencrypted int
	Skipped     int
	Failed      int
}

// TokenMigrationJob re-encrypts connections whose stored token is still
// plaintext. A stored value that decrypts cleanly under the current key is
// treated as already encrypted and skipped; a decrypt failure marks it as
// plaintext. Each connection is processed independently so one failure never
// aborts the batch.
type TokenMigrationJob struct {
	conns  ConnectionRepository
	vault  TokenVault
	dryRun bool
	logger logger.Interface
}

// NewTokenMigrationJob creates a new TokenMigrationJob. With dryRun set the
// job only reports what it would change.
func NewTokenMigrationJob(conns ConnectionRepository, vault TokenVault, dryRun bool, log logger.Interface) *TokenMigrationJob {
	return &TokenMigrationJob{
		conns:  conns,
		vault:  vault,
		dryRun: dryRun,
		logger: log,
	}
}

// Run executes the migration pass over all connections.
func (j *TokenMigrationJob) Run(ctx context.Context) (MigrationReport, error) {
	var report MigrationReport

	if !j.vault.IsEnabled() {
		return report, fmt.Errorf("encryption is not enabled; configure a token encryption key before migrating")
	}

	j.logger.Infow("starting token migration", "dry_run", j.dryRun)

	conns, err := j.conns.FindAll(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list connections: %w", err)
	}

	for _, conn := range conns {
		stored := conn.AccessToken
		if stored == "" {
			report.Skipped++
			continue
		}

		if _, err := j.vault.Decrypt(stored); err == nil {
			// decrypts cleanly: already encrypted with the current key
			report.Skipped++
			continue
		}

		encrypted, err := j.vault.Encrypt(stored)
		if err != nil {
			j.logger.Warnw("failed to encrypt token", "connection_id", conn.ID, "error", err)
			report.Failed++
			continue
		}

		if j.dryRun {
			j.logger.Infow("dry-run: would re-encrypt token", "connection_id", conn.ID)
			report.Reencrypted++
			continue
		}

		if err := j.conns.UpdateToken(ctx, conn.ID, encrypted); err != nil {
			j.logger.Warnw("failed to persist re-encrypted token", "connection_id", conn.ID, "error", err)
			report.Failed++
			continue
		}
		report.Reencrypted++
	}

	j.logger.Infow("token migration completed",
		"reencrypted", report.Reencrypted,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}
