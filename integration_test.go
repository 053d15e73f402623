//go:build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynamorepo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/dynamorepo"
	"github.com/suparena/dynamorepo/config"
	"github.com/suparena/dynamorepo/datastore/testmodels"
	"github.com/suparena/dynamorepo/errors"
	"github.com/suparena/dynamorepo/listeners"
	"github.com/suparena/dynamorepo/repository"
)

// openRatingSystems reads the connection from .env or the environment and
// skips when none is available. The table needs a string hash key "Id".
func openRatingSystems(t *testing.T) *repository.Repository[testmodels.RatingSystem] {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	cfg, err := config.FromEnv()
	if err != nil {
		t.Skip(err)
	}
	audit, err := listeners.NewAuditing[testmodels.RatingSystem]()
	require.NoError(t, err)

	repo, err := dynamorepo.OpenRepository[testmodels.RatingSystem](context.Background(), cfg,
		repository.WithListeners(
			listeners.NewValidating[testmodels.RatingSystem](nil).Listener(),
			audit.Listener(),
		))
	require.NoError(t, err)
	return repo
}

func TestIntegrationRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := openRatingSystems(t)

	rs := &testmodels.RatingSystem{
		Name:        "Integration Rating System",
		Description: "created by the integration suite",
	}
	require.NoError(t, repo.Save(ctx, rs))
	require.NotEmpty(t, rs.ID)
	require.NotNil(t, rs.CreatedAt)
	t.Cleanup(func() { _ = repo.DeleteByID(context.Background(), rs.ID) })

	found, err := repo.FindByID(ctx, rs.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, rs.Name, found.Name)
	assert.Equal(t, rs.CreatedAt.String(), found.CreatedAt.String())

	exists, err := repo.ExistsByID(ctx, rs.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.Count(ctx)
	assert.True(t, errors.IsIllegalState(err))

	n, err := repo.Count(ctx, repository.EnableScanCount())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	require.NoError(t, repo.DeleteByID(ctx, rs.ID))
	err = repo.DeleteByID(ctx, rs.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestIntegrationValidationBlocksWrite(t *testing.T) {
	ctx := context.Background()
	repo := openRatingSystems(t)

	invalid := &testmodels.RatingSystem{Description: "missing name"}
	err := repo.Save(ctx, invalid)
	assert.True(t, errors.IsValidationError(err))
	assert.Empty(t, invalid.ID, "rejected entities never reach the store")
}
