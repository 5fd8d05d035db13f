package git

import (
	"context"
	"fmt"

	"github.com/devvault/cockpit/internal/shared/logger"
	"github.com/devvault/cockpit/internal/shared/utils/scopeutil"
)

// BackfillReport aggregates the outcome of a scope backfill pass.
type BackfillReport struct {
	Filled  int
	Skipped int
	Failed  int
}

// ScopesBackfillJob rebuilds the normalized scope rows of every connection
// from its CSV snapshot. Connections with a blank snapshot get their rows
// cleared and are counted as skipped.
type ScopesBackfillJob struct {
	conns  ConnectionRepository
	dryRun bool
	logger logger.Interface
}

// NewScopesBackfillJob creates a new ScopesBackfillJob.
func NewScopesBackfillJob(conns ConnectionRepository, dryRun bool, log logger.Interface) *ScopesBackfillJob {
	return &ScopesBackfillJob{
		conns:  conns,
		dryRun: dryRun,
		logger: log,
	}
}

// Run executes the backfill pass over all connections.
func (j *ScopesBackfillJob) Run(ctx context.Context) (BackfillReport, error) {
	var report BackfillReport

	j.logger.Infow("starting scopes backfill", "dry_run", j.dryRun)

	conns, err := j.conns.FindAll(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list connections: %w", err)
	}

	for _, conn := range conns {
		scopes := scopeutil.Normalize(conn.Scopes)

		if j.dryRun {
			if len(scopes) == 0 {
				report.Skipped++
				continue
			}
			j.logger.Infow("dry-run: would replace scopes",
				"connection_id", conn.ID,
				"scopes", scopes,
			)
			report.Filled++
			continue
		}

		if err := j.conns.ReplaceScopes(ctx, conn.ID, scopes); err != nil {
			j.logger.Warnw("failed to backfill scopes", "connection_id", conn.ID, "error", err)
			report.Failed++
			continue
		}

		if len(scopes) == 0 {
			report.Skipped++
		} else {
			report.Filled++
		}
	}

	j.logger.Infow("scopes backfill completed",
		"filled", report.Filled,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}
