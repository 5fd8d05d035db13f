package git

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/devvault/cockpit/internal/infrastructure/persistence/models"
	"github.com/devvault/cockpit/internal/shared/logger"
)

// State validation failures. All three surface to clients as 403 with a
// reason string and nothing more.
var (
	ErrStateNotFound   = errors.New("state not found")
	ErrStateExpired    = errors.New("state expired")
	ErrProjectMismatch = errors.New("state does not match project")
)

// StateManager issues, validates, and expires single-use CSRF state tokens.
// All state lives in the durable store; the row-level uniqueness of the
// state column and idempotent deletes are the only coordination needed.
type StateManager struct {
	states StateRepository
	ttl    time.Duration
	logger logger.Interface
}

// NewStateManager creates a new StateManager with the given TTL.
func NewStateManager(states StateRepository, ttl time.Duration, log logger.Interface) *StateManager {
	return &StateManager{
		states: states,
		ttl:    ttl,
		logger: log,
	}
}

// Issue generates a random state token bound to the project and persists it.
func (m *StateManager) Issue(ctx context.Context, projectID uint) (string, error) {
	state := uuid.NewString()
	record := &models.OAuthStateModel{
		ProjectID: projectID,
		State:     state,
	}
	if err := m.states.Create(ctx, record); err != nil {
		return "", err
	}
	return state, nil
}

// ValidateAndConsume checks a callback state and deletes it on success so it
// can never be used twice. An expired state is deleted as a side effect even
// though validation fails; once detected it is never reusable.
func (m *StateManager) ValidateAndConsume(ctx context.Context, state string, projectID uint) error {
	record, err := m.states.FindByState(ctx, state)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrStateNotFound
	}

	if time.Since(record.CreatedAt) > m.ttl {
		if err := m.states.DeleteByState(ctx, state); err != nil {
			m.logger.Warnw("failed to delete expired oauth state", "error", err)
		}
		return ErrStateExpired
	}

	if record.ProjectID != projectID {
		return ErrProjectMismatch
	}

	if err := m.states.DeleteByState(ctx, state); err != nil {
		return err
	}
	return nil
}

// PurgeExpired deletes all states older than the TTL and returns the count.
// Shared by the scheduled purge and the admin trigger; idempotent and safe
// to run concurrently with issue/consume.
func (m *StateManager) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-m.ttl)
	deleted, err := m.states.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		m.logger.Debugw("purged expired oauth states", "count", deleted)
	}
	return deleted, nil
}
