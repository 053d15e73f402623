/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"context"

	"github.com/suparena/dynamorepo/errors"
	"github.com/suparena/dynamorepo/storagemodels"
)

// Query is the common contract of every query variant. Each call issues
// the request again.
type Query[T any] interface {
	// ResultList returns the results as a lazy list.
	ResultList(ctx context.Context) (*storagemodels.PaginatedList[T], error)

	// SingleResult returns nil for no result, the result for exactly one,
	// and a NonUniqueResultError for more.
	SingleResult(ctx context.Context) (*T, error)
}

// ScanPermissions is implemented by queries that carry scan flags.
type ScanPermissions interface {
	SetScanEnabled(enabled bool)
	SetScanCountEnabled(enabled bool)
	AssertScanEnabled(requested bool) error
	AssertScanCountEnabled(requested bool) error
}

// Counter is the part of a DataStore count queries need.
type Counter interface {
	Count(ctx context.Context, req storagemodels.CountRequest) (int64, error)
}

// Single consumes at most two elements of list.
func Single[T any](ctx context.Context, list *storagemodels.PaginatedList[T]) (*T, error) {
	var first *T
	n := 0
	for v, err := range list.All(ctx) {
		if err != nil {
			return nil, err
		}
		n++
		if n > 1 {
			return nil, errors.NewNonUniqueResultError(n)
		}
		first = &v
	}
	return first, nil
}

func optional[T any](v *T) *storagemodels.PaginatedList[T] {
	if v == nil {
		return storagemodels.ListOf[T]()
	}
	return storagemodels.ListOf(*v)
}

func count(n int64, err error) (*storagemodels.PaginatedList[int64], error) {
	if err != nil {
		return nil, err
	}
	return storagemodels.ListOf(n), nil
}
