// Package scheduler runs the periodic maintenance jobs of the cockpit,
// currently the expired OAuth state purge.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/devvault/cockpit/internal/shared/logger"
)

// StatePurger deletes expired OAuth states and reports how many were removed.
type StatePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Manager owns the background scheduler lifecycle.
type Manager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface
}

// NewManager creates a scheduler manager.
func NewManager(log logger.Interface) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Manager{
		scheduler: s,
		logger:    log,
	}, nil
}

// RegisterStatePurgeJob schedules the periodic purge of expired OAuth states.
// The job runs immediately on startup and then at the configured interval;
// overlapping runs are rescheduled rather than stacked.
func (m *Manager) RegisterStatePurgeJob(purger StatePurger, interval time.Duration) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			deleted, err := purger.PurgeExpired(ctx)
			if err != nil {
				m.logger.Errorw("oauth state purge failed", "error", err)
				return
			}
			if deleted > 0 {
				m.logger.Infow("purged expired oauth states", "count", deleted)
			}
		}),
		gocron.WithName("oauth-state-purge"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register state purge job: %w", err)
	}
	m.logger.Infow("registered oauth state purge job", "interval", interval)
	return nil
}

// Start begins executing registered jobs.
func (m *Manager) Start() {
	m.scheduler.Start()
	m.logger.Info("scheduler started")
}

// Stop shuts the scheduler down and waits for running jobs to finish.
func (m *Manager) Stop() error {
	if err := m.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown scheduler: %w", err)
	}
	m.logger.Info("scheduler stopped")
	return nil
}
