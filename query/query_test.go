/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/dynamorepo/datastore/mock"
	"github.com/suparena/dynamorepo/errors"
	"github.com/suparena/dynamorepo/query"
	"github.com/suparena/dynamorepo/storagemodels"
)

type track struct {
	Album string `dynamodbav:"album" ddbkey:"hash"`
	No    int    `dynamodbav:"no" ddbkey:"range"`
	Title string `dynamodbav:"title"`
}

type album struct {
	Name string `dynamodbav:"name" ddbkey:"hash"`
}

func seeded(t *testing.T) *mock.DataStore[track] {
	t.Helper()
	store := mock.New[track]()
	require.NoError(t, store.SetData(
		track{Album: "blue", No: 1, Title: "All I Want"},
		track{Album: "blue", No: 2, Title: "My Old Man"},
		track{Album: "hejira", No: 1, Title: "Coyote"},
	))
	return store
}

func TestSingleResult(t *testing.T) {
	ctx := context.Background()
	store := seeded(t)

	none, err := query.NewQueryExpressionQuery[track](store, storagemodels.NewQuery("album", "court")).SingleResult(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	one, err := query.NewQueryExpressionQuery[track](store, storagemodels.NewQuery("album", "hejira")).SingleResult(ctx)
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "Coyote", one.Title)

	_, err = query.NewQueryExpressionQuery[track](store, storagemodels.NewQuery("album", "blue")).SingleResult(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsNonUniqueResult(err))
}

func TestSingleStopsAfterTwo(t *testing.T) {
	pages := 0
	list := storagemodels.NewPaginatedList(func(context.Context, map[string]types.AttributeValue) ([]int, map[string]types.AttributeValue, error) {
		pages++
		return []int{pages}, map[string]types.AttributeValue{"k": &types.AttributeValueMemberN{Value: "1"}}, nil
	})
	_, err := query.Single(context.Background(), list)
	assert.True(t, errors.IsNonUniqueResult(err))
	assert.Equal(t, 2, pages)
}

func TestResultListReexecutes(t *testing.T) {
	ctx := context.Background()
	store := seeded(t)
	q := query.NewQueryExpressionQuery[track](store, storagemodels.NewQuery("album", "blue"))

	first, err := q.ResultList(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &track{Album: "blue", No: 3, Title: "Little Green"}))
	second, err := q.ResultList(ctx)
	require.NoError(t, err)

	a, _ := first.Collect(ctx)
	b, _ := second.Collect(ctx)
	assert.Len(t, a, 2)
	assert.Len(t, b, 3)
	assert.Equal(t, 2, store.Calls("Query"))
}

func TestLoadQueries(t *testing.T) {
	ctx := context.Background()
	store := seeded(t)

	got, err := query.NewLoadByHashAndRangeKey[track](store, "blue", 2).SingleResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, "My Old Man", got.Title)

	list, err := query.NewLoadByHashAndRangeKey[track](store, "blue", 9).ResultList(ctx)
	require.NoError(t, err)
	items, err := list.Collect(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = query.NewLoadByHashKey[track](store, "blue").SingleResult(ctx)
	assert.Error(t, err, "composite keys need a range value")
}

func TestPointCounts(t *testing.T) {
	ctx := context.Background()
	store := seeded(t)

	n, err := query.NewCountByHashAndRangeKey[track](store, "blue", 1).SingleResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *n)

	n, err = query.NewCountByHashAndRangeKey[track](store, "blue", 7).SingleResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), *n)

	assert.Equal(t, 0, store.Calls("Query"), "point counts load instead of querying")
	assert.Equal(t, 0, store.Calls("Count"))

	boom := stderrors.New("unavailable")
	store.WithLoadError(boom)
	_, err = query.NewCountByHashAndRangeKey[track](store, "blue", 1).ResultList(ctx)
	assert.ErrorIs(t, err, boom)

	c, err := query.NewCountByHashKey[album](mock.New[album](), "nope").ResultList(ctx)
	require.NoError(t, err)
	counts, _ := c.Collect(ctx)
	assert.Equal(t, []int64{0}, counts)
}

func TestQueryExpressionCount(t *testing.T) {
	ctx := context.Background()
	store := seeded(t)

	n, err := query.NewQueryExpressionCountQuery[track](store, storagemodels.NewQuery("album", "blue")).SingleResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), *n)
	assert.Equal(t, 1, store.Calls("Count"))
	assert.Equal(t, 0, store.Calls("Query"), "counting delegates to the store's native count")
}

func TestScanFlagIsAdvisory(t *testing.T) {
	ctx := context.Background()
	store := seeded(t)
	q := query.NewScanExpressionQuery[track](store, storagemodels.NewScan())

	err := q.AssertScanEnabled(false)
	require.Error(t, err)
	assert.True(t, errors.IsIllegalState(err))
	assert.Equal(t, query.ScanDisabledMessage, err.Error())

	list, err := q.ResultList(ctx)
	require.NoError(t, err)
	items, err := list.Collect(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestScanCountGuard(t *testing.T) {
	ctx := context.Background()
	store := seeded(t)

	q := query.NewScanExpressionCountQuery[track](store, storagemodels.NewScan(), false)
	err := q.AssertScanCountEnabled(false)
	require.Error(t, err)
	assert.True(t, errors.IsIllegalState(err))
	assert.Equal(t, query.ScanCountDisabledMessage, err.Error())
	assert.NoError(t, q.AssertScanCountEnabled(true))

	_, err = q.SingleResult(ctx)
	assert.EqualError(t, err, query.ScanCountDisabledMessage)
	assert.Equal(t, 0, store.Calls("Count"))

	q.SetScanCountEnabled(true)
	n, err := q.SingleResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), *n)

	paged := query.NewScanExpressionCountQuery[track](store, storagemodels.NewScan(), true)
	_, err = paged.ResultList(ctx)
	assert.EqualError(t, err, query.ScanCountPageDisabledMessage)
}

func TestGuardMessagesNameBothOptions(t *testing.T) {
	for _, msg := range []string{query.ScanCountDisabledMessage, query.ScanCountPageDisabledMessage} {
		assert.Contains(t, msg, "repository.EnableScanCount()")
		assert.Contains(t, msg, "repository.WithScanCountEnabled()")
	}
	assert.Contains(t, query.ScanDisabledMessage, "repository.EnableScan()")
	assert.Contains(t, query.ScanDisabledMessage, "repository.WithScanEnabled()")
	assert.NotEqual(t, query.ScanCountDisabledMessage, query.ScanCountPageDisabledMessage)
}

func TestFlags(t *testing.T) {
	var f query.Flags
	assert.False(t, f.ScanEnabled())
	assert.False(t, f.ScanCountEnabled())
	assert.Error(t, f.AssertScanEnabled(false))
	assert.NoError(t, f.AssertScanEnabled(true))

	f.SetScanEnabled(true)
	assert.NoError(t, f.AssertScanEnabled(false))
	assert.Error(t, f.AssertScanCountEnabled(false), "scan and scan-count are independent")

	var _ query.ScanPermissions = &f
}

func TestRawRequestCount(t *testing.T) {
	ctx := context.Background()
	store := seeded(t).WithCountFunc(func(_ context.Context, req storagemodels.CountRequest) (int64, error) {
		if req.QueryInput != nil {
			return 11, nil
		}
		return 0, stderrors.New("unexpected request")
	})

	q, err := query.NewRawRequestCountQuery(store, storagemodels.CountRequest{
		QueryInput: &dynamodb.QueryInput{TableName: aws.String("track")},
	})
	require.NoError(t, err)
	n, err := q.SingleResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(11), *n)

	_, err = query.NewRawRequestCountQuery(store, storagemodels.CountRequest{Scan: storagemodels.NewScan()})
	assert.Error(t, err)
	_, err = query.NewRawRequestCountQuery(store, storagemodels.CountRequest{})
	assert.Error(t, err)
}
