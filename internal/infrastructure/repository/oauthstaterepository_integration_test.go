package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devvault/cockpit/internal/infrastructure/persistence/models"
)

func TestOAuthStateRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOAuthStateRepository(db)
	ctx := context.Background()

	state := &models.OAuthStateModel{ProjectID: 5, State: "abc-123"}
	require.NoError(t, repo.Create(ctx, state))
	require.NotZero(t, state.ID)

	found, err := repo.FindByState(ctx, "abc-123")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, uint(5), found.ProjectID)

	missing, err := repo.FindByState(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOAuthStateRepository_StateUnique(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOAuthStateRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.OAuthStateModel{ProjectID: 1, State: "dup"}))
	err := repo.Create(ctx, &models.OAuthStateModel{ProjectID: 2, State: "dup"})
	assert.Error(t, err)
}

func TestOAuthStateRepository_DeleteByState(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOAuthStateRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.OAuthStateModel{ProjectID: 1, State: "once"}))
	require.NoError(t, repo.DeleteByState(ctx, "once"))

	found, err := repo.FindByState(ctx, "once")
	require.NoError(t, err)
	assert.Nil(t, found)

	// deleting again is a no-op
	assert.NoError(t, repo.DeleteByState(ctx, "once"))
}

func TestOAuthStateRepository_DeleteCreatedBefore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOAuthStateRepository(db)
	ctx := context.Background()

	stale := &models.OAuthStateModel{ProjectID: 1, State: "stale"}
	require.NoError(t, repo.Create(ctx, stale))
	require.NoError(t, db.Model(stale).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	fresh := &models.OAuthStateModel{ProjectID: 1, State: "fresh"}
	require.NoError(t, repo.Create(ctx, fresh))

	deleted, err := repo.DeleteCreatedBefore(ctx, time.Now().Add(-10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	found, err := repo.FindByState(ctx, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, found)

	gone, err := repo.FindByState(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
