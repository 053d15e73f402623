/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"context"

	"github.com/suparena/dynamorepo/datastore"
	"github.com/suparena/dynamorepo/storagemodels"
)

// LoadByHashKey is a point lookup by hash key.
type LoadByHashKey[T any] struct {
	store   datastore.DataStore[T]
	hashKey any
}

var _ Query[struct{}] = (*LoadByHashKey[struct{}])(nil)

func NewLoadByHashKey[T any](store datastore.DataStore[T], hashKey any) *LoadByHashKey[T] {
	return &LoadByHashKey[T]{store: store, hashKey: hashKey}
}

func (q *LoadByHashKey[T]) ResultList(ctx context.Context) (*storagemodels.PaginatedList[T], error) {
	v, err := q.SingleResult(ctx)
	if err != nil {
		return nil, err
	}
	return optional(v), nil
}

func (q *LoadByHashKey[T]) SingleResult(ctx context.Context) (*T, error) {
	return q.store.Load(ctx, q.hashKey)
}

// LoadByHashAndRangeKey is a point lookup by hash and range key.
type LoadByHashAndRangeKey[T any] struct {
	store    datastore.DataStore[T]
	hashKey  any
	rangeKey any
}

var _ Query[struct{}] = (*LoadByHashAndRangeKey[struct{}])(nil)

func NewLoadByHashAndRangeKey[T any](store datastore.DataStore[T], hashKey, rangeKey any) *LoadByHashAndRangeKey[T] {
	return &LoadByHashAndRangeKey[T]{store: store, hashKey: hashKey, rangeKey: rangeKey}
}

func (q *LoadByHashAndRangeKey[T]) ResultList(ctx context.Context) (*storagemodels.PaginatedList[T], error) {
	v, err := q.SingleResult(ctx)
	if err != nil {
		return nil, err
	}
	return optional(v), nil
}

func (q *LoadByHashAndRangeKey[T]) SingleResult(ctx context.Context) (*T, error) {
	return q.store.LoadWithRange(ctx, q.hashKey, q.rangeKey)
}

// CountByHashKey counts 1 when the item exists and 0 otherwise, using a
// point load instead of a query.
type CountByHashKey[T any] struct {
	load *LoadByHashKey[T]
}

var _ Query[int64] = (*CountByHashKey[struct{}])(nil)

func NewCountByHashKey[T any](store datastore.DataStore[T], hashKey any) *CountByHashKey[T] {
	return &CountByHashKey[T]{load: NewLoadByHashKey(store, hashKey)}
}

func (q *CountByHashKey[T]) ResultList(ctx context.Context) (*storagemodels.PaginatedList[int64], error) {
	return count(q.count(ctx))
}

func (q *CountByHashKey[T]) SingleResult(ctx context.Context) (*int64, error) {
	n, err := q.count(ctx)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (q *CountByHashKey[T]) count(ctx context.Context) (int64, error) {
	v, err := q.load.SingleResult(ctx)
	return exists(v, err)
}

// CountByHashAndRangeKey counts 1 when the item exists and 0 otherwise.
type CountByHashAndRangeKey[T any] struct {
	load *LoadByHashAndRangeKey[T]
}

var _ Query[int64] = (*CountByHashAndRangeKey[struct{}])(nil)

func NewCountByHashAndRangeKey[T any](store datastore.DataStore[T], hashKey, rangeKey any) *CountByHashAndRangeKey[T] {
	return &CountByHashAndRangeKey[T]{load: NewLoadByHashAndRangeKey(store, hashKey, rangeKey)}
}

func (q *CountByHashAndRangeKey[T]) ResultList(ctx context.Context) (*storagemodels.PaginatedList[int64], error) {
	return count(q.count(ctx))
}

func (q *CountByHashAndRangeKey[T]) SingleResult(ctx context.Context) (*int64, error) {
	n, err := q.count(ctx)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (q *CountByHashAndRangeKey[T]) count(ctx context.Context) (int64, error) {
	v, err := q.load.SingleResult(ctx)
	return exists(v, err)
}

func exists[T any](v *T, err error) (int64, error) {
	switch {
	case err != nil:
		return 0, err
	case v == nil:
		return 0, nil
	default:
		return 1, nil
	}
}
