/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/dynamorepo/config"
	"github.com/suparena/dynamorepo/datastore/mock"
	"github.com/suparena/dynamorepo/datastore/testmodels"
	"github.com/suparena/dynamorepo/errors"
	"github.com/suparena/dynamorepo/events"
	"github.com/suparena/dynamorepo/listeners"
	"github.com/suparena/dynamorepo/page"
	"github.com/suparena/dynamorepo/query"
	"github.com/suparena/dynamorepo/repository"
	"github.com/suparena/dynamorepo/storagemodels"
)

func systems(n int) []testmodels.RatingSystem {
	out := make([]testmodels.RatingSystem, n)
	for i := range out {
		out[i] = testmodels.RatingSystem{
			ID:          fmt.Sprintf("rs-%d", i+1),
			Name:        fmt.Sprintf("system %d", i+1),
			Description: "seeded",
		}
	}
	return out
}

func seededStore(t *testing.T, n int) *mock.DataStore[testmodels.RatingSystem] {
	t.Helper()
	store := mock.New[testmodels.RatingSystem]()
	require.NoError(t, store.SetData(systems(n)...))
	return store
}

func TestSaveRunsListenersAndGeneratesID(t *testing.T) {
	ctx := context.Background()
	store := mock.New[testmodels.RatingSystem]().WithIDGenerator(func() string { return "generated" })
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	audit, err := listeners.NewAuditing[testmodels.RatingSystem](
		listeners.WithClock(func() time.Time { return now }),
		listeners.WithAuditor(listeners.AuditorFunc(func(context.Context) (string, bool) { return "admin", true })),
	)
	require.NoError(t, err)

	repo, err := repository.New[testmodels.RatingSystem](store, repository.WithListeners(
		listeners.NewValidating[testmodels.RatingSystem](nil).Listener(),
		audit.Listener(),
	))
	require.NoError(t, err)

	rs := &testmodels.RatingSystem{Name: "Elo", Description: "pairwise"}
	require.NoError(t, repo.Save(ctx, rs))
	assert.Equal(t, "generated", rs.ID)
	assert.Equal(t, "admin", rs.CreatedBy)

	found, err := repo.FindByID(ctx, "generated")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Elo", found.Name)
	require.NotNil(t, found.UpdatedAt)
	assert.Equal(t, now, time.Time(*found.UpdatedAt))

	ok, err := repo.ExistsByID(ctx, "generated")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.ExistsByID(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	missing, err := repo.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInvalidEntityIsNeverWritten(t *testing.T) {
	store := mock.New[testmodels.RatingSystem]()
	repo, err := repository.New[testmodels.RatingSystem](store,
		repository.WithListeners(listeners.NewValidating[testmodels.RatingSystem](nil).Listener()))
	require.NoError(t, err)

	err = repo.Save(context.Background(), &testmodels.RatingSystem{Description: "no name"})
	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, 0, store.Calls("Save"))
	assert.Equal(t, 0, store.Len())

	err = repo.SaveAll(context.Background(), []testmodels.RatingSystem{{Name: "ok", Description: "ok"}, {}})
	assert.True(t, errors.IsBatchWrite(err))
	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, 0, store.Len())
}

func TestScanGuards(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t, 3)
	repo, err := repository.New[testmodels.RatingSystem](store)
	require.NoError(t, err)

	_, err = repo.FindAll(ctx)
	assert.EqualError(t, err, query.ScanDisabledMessage)
	assert.True(t, errors.IsIllegalState(err))

	_, err = repo.Count(ctx)
	assert.EqualError(t, err, query.ScanCountDisabledMessage)

	_, err = repo.FindAllPage(ctx, repository.EnableScan())
	assert.EqualError(t, err, query.ScanCountPageDisabledMessage)

	_, err = repo.FindAllPage(ctx, repository.EnableScanCount())
	assert.EqualError(t, err, query.ScanDisabledMessage)

	assert.Equal(t, 0, store.Calls("Scan"))
	assert.Equal(t, 0, store.Calls("Count"))

	n, err := repo.Count(ctx, repository.EnableScanCount())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	p, err := repo.FindAllPage(ctx, repository.EnableScan(), repository.EnableScanCount())
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.TotalElements())
	assert.False(t, p.Pageable().IsPaged())
	content, err := p.Content(ctx)
	require.NoError(t, err)
	assert.Len(t, content, 3)
}

func TestRepositoryLevelScanSwitches(t *testing.T) {
	ctx := context.Background()
	repo, err := repository.New[testmodels.RatingSystem](seededStore(t, 2),
		repository.WithScanEnabled(), repository.WithScanCountEnabled())
	require.NoError(t, err)

	list, err := repo.FindAll(ctx)
	require.NoError(t, err)
	items, err := list.Collect(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	fromConfig, err := repository.New[testmodels.RatingSystem](seededStore(t, 2),
		repository.ConfigOptions(config.QueryConfig{ScanEnabled: true})...)
	require.NoError(t, err)
	_, err = fromConfig.FindAll(ctx)
	assert.NoError(t, err)
	_, err = fromConfig.Count(ctx)
	assert.EqualError(t, err, query.ScanCountDisabledMessage)
}

func TestFindAllPaged(t *testing.T) {
	ctx := context.Background()
	repo, err := repository.New[testmodels.RatingSystem](seededStore(t, 5),
		repository.WithScanEnabled(), repository.WithScanCountEnabled())
	require.NoError(t, err)

	p, err := repo.FindAllPaged(ctx, page.Request(1, 2))
	require.NoError(t, err)
	content, err := p.Content(ctx)
	require.NoError(t, err)
	require.Len(t, content, 2)
	assert.Equal(t, "rs-3", content[0].ID)
	assert.Equal(t, "rs-4", content[1].ID)
	assert.Equal(t, int64(5), p.TotalElements())
	assert.Equal(t, 3, p.TotalPages())
	assert.True(t, p.HasNext())
	assert.True(t, p.HasPrevious())

	last, err := repo.FindAllPaged(ctx, page.Request(2, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, last.NumberOfElements())
	assert.True(t, last.IsLast())

	unpaged, err := repo.FindAllPaged(ctx, page.UnpagedRequest())
	require.NoError(t, err)
	assert.Equal(t, 5, unpaged.NumberOfElements())
}

func TestDeletes(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t, 4)
	repo, err := repository.New[testmodels.RatingSystem](store)
	require.NoError(t, err)

	err = repo.DeleteByID(ctx, "rs-9")
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, repo.DeleteByID(ctx, "rs-1"))
	assert.Equal(t, 3, store.Len())

	rs, err := repo.FindByID(ctx, "rs-2")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, rs))
	assert.Equal(t, 2, store.Len())

	err = repo.DeleteAll(ctx)
	assert.True(t, errors.IsIllegalState(err))
	assert.Equal(t, 2, store.Len())

	require.NoError(t, repo.DeleteAll(ctx, repository.EnableScan()))
	assert.Equal(t, 0, store.Len())
}

func TestWrappedKeyRepository(t *testing.T) {
	ctx := context.Background()
	store := mock.New[testmodels.PlayerRating]()
	repo, err := repository.New[testmodels.PlayerRating](store)
	require.NoError(t, err)

	require.NoError(t, repo.SaveAll(ctx, []testmodels.PlayerRating{
		{Key: testmodels.PlayerRatingKey{RatingSystemID: "elo", PlayerID: "p1"}, Rating: 1500},
		{Key: testmodels.PlayerRatingKey{RatingSystemID: "elo", PlayerID: "p2"}, Rating: 1620},
		{Key: testmodels.PlayerRatingKey{RatingSystemID: "glicko", PlayerID: "p1"}, Rating: 1710},
	}))

	got, err := repo.FindByID(ctx, testmodels.PlayerRatingKey{RatingSystemID: "elo", PlayerID: "p2"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1620), got.Rating)

	got, err = repo.FindByIDAndRange(ctx, "glicko", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1710), got.Rating)

	byElo := storagemodels.NewQuery("RatingSystemId", "elo")
	n, err := repo.CountQuery(ctx, byElo)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.QueryOne(ctx, byElo)
	assert.True(t, errors.IsNonUniqueResult(err))

	one, err := repo.QueryOne(ctx, storagemodels.NewQuery("RatingSystemId", "elo").WithRange("PlayerId", storagemodels.RangeEqual, "p1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1500), one.Rating)

	list, err := repo.Query(ctx, storagemodels.NewQuery("RatingSystemId", "glicko"))
	require.NoError(t, err)
	items, err := list.Collect(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCountRequest(t *testing.T) {
	store := seededStore(t, 1).WithCountFunc(func(_ context.Context, req storagemodels.CountRequest) (int64, error) {
		return 42, nil
	})
	repo, err := repository.New[testmodels.RatingSystem](store)
	require.NoError(t, err)

	n, err := repo.CountRequest(context.Background(), storagemodels.CountRequest{
		ScanInput: &dynamodb.ScanInput{TableName: aws.String("RatingSystem")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), n, "native scans bypass the scan switches")

	_, err = repo.CountRequest(context.Background(), storagemodels.CountRequest{Scan: storagemodels.NewScan()})
	assert.Error(t, err)
}

type loadCounter struct {
	events.Base[testmodels.RatingSystem]
	loads, scans int
}

func (l *loadCounter) OnAfterLoad(context.Context, *testmodels.RatingSystem) error {
	l.loads++
	return nil
}

func (l *loadCounter) OnAfterScan(context.Context, *testmodels.RatingSystem) error {
	l.scans++
	return nil
}

func TestListenersObserveReads(t *testing.T) {
	ctx := context.Background()
	counter := &loadCounter{}
	repo, err := repository.New[testmodels.RatingSystem](seededStore(t, 3),
		repository.WithListeners(events.Bind[testmodels.RatingSystem](counter)), repository.WithScanEnabled())
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, "rs-1")
	require.NoError(t, err)
	_, err = repo.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 1, counter.loads, "absent items publish nothing")

	_, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, counter.scans)
}

func TestNewRejectsUnmappableTypes(t *testing.T) {
	type noKey struct {
		Name string
	}
	_, err := repository.New[noKey](mock.New[noKey]())
	assert.True(t, errors.IsMapping(err))

	_, err = repository.New[testmodels.RatingSystem](nil)
	assert.Error(t, err)
}
