/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"context"
	"fmt"

	"github.com/suparena/dynamorepo/datastore"
	"github.com/suparena/dynamorepo/storagemodels"
)

// QueryExpressionQuery runs a key-condition query against a table or index.
type QueryExpressionQuery[T any] struct {
	Flags
	store datastore.DataStore[T]
	expr  *storagemodels.QueryExpression
}

var _ Query[struct{}] = (*QueryExpressionQuery[struct{}])(nil)

func NewQueryExpressionQuery[T any](store datastore.DataStore[T], expr *storagemodels.QueryExpression) *QueryExpressionQuery[T] {
	return &QueryExpressionQuery[T]{store: store, expr: expr}
}

func (q *QueryExpressionQuery[T]) ResultList(ctx context.Context) (*storagemodels.PaginatedList[T], error) {
	return q.store.Query(ctx, q.expr)
}

func (q *QueryExpressionQuery[T]) SingleResult(ctx context.Context) (*T, error) {
	list, err := q.ResultList(ctx)
	if err != nil {
		return nil, err
	}
	return Single(ctx, list)
}

// QueryExpressionCountQuery counts the items a query expression matches
// using the store's native count.
type QueryExpressionCountQuery[T any] struct {
	Flags
	store datastore.DataStore[T]
	expr  *storagemodels.QueryExpression
}

var _ Query[int64] = (*QueryExpressionCountQuery[struct{}])(nil)

func NewQueryExpressionCountQuery[T any](store datastore.DataStore[T], expr *storagemodels.QueryExpression) *QueryExpressionCountQuery[T] {
	return &QueryExpressionCountQuery[T]{store: store, expr: expr}
}

func (q *QueryExpressionCountQuery[T]) ResultList(ctx context.Context) (*storagemodels.PaginatedList[int64], error) {
	return count(q.store.Count(ctx, storagemodels.CountRequest{Query: q.expr}))
}

func (q *QueryExpressionCountQuery[T]) SingleResult(ctx context.Context) (*int64, error) {
	n, err := q.store.Count(ctx, storagemodels.CountRequest{Query: q.expr})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ScanExpressionQuery runs an unconditioned or filter-only scan. Its scan
// flag is read by callers through AssertScanEnabled; the query itself runs
// whatever it is given.
type ScanExpressionQuery[T any] struct {
	Flags
	store datastore.DataStore[T]
	expr  *storagemodels.ScanExpression
}

var _ Query[struct{}] = (*ScanExpressionQuery[struct{}])(nil)

func NewScanExpressionQuery[T any](store datastore.DataStore[T], expr *storagemodels.ScanExpression) *ScanExpressionQuery[T] {
	return &ScanExpressionQuery[T]{store: store, expr: expr}
}

func (q *ScanExpressionQuery[T]) ResultList(ctx context.Context) (*storagemodels.PaginatedList[T], error) {
	return q.store.Scan(ctx, q.expr)
}

func (q *ScanExpressionQuery[T]) SingleResult(ctx context.Context) (*T, error) {
	list, err := q.ResultList(ctx)
	if err != nil {
		return nil, err
	}
	return Single(ctx, list)
}

// ScanExpressionCountQuery counts the items a scan matches. It fails with
// an IllegalStateError unless scan counts were enabled.
type ScanExpressionCountQuery[T any] struct {
	Flags
	store datastore.DataStore[T]
	expr  *storagemodels.ScanExpression
}

var _ Query[int64] = (*ScanExpressionCountQuery[struct{}])(nil)

// NewScanExpressionCountQuery builds a scan count. pageQuery marks a count
// that totals a page, which changes the guard's message.
func NewScanExpressionCountQuery[T any](store datastore.DataStore[T], expr *storagemodels.ScanExpression, pageQuery bool) *ScanExpressionCountQuery[T] {
	q := &ScanExpressionCountQuery[T]{store: store, expr: expr}
	q.pageCount = pageQuery
	return q
}

func (q *ScanExpressionCountQuery[T]) ResultList(ctx context.Context) (*storagemodels.PaginatedList[int64], error) {
	return count(q.count(ctx))
}

func (q *ScanExpressionCountQuery[T]) SingleResult(ctx context.Context) (*int64, error) {
	n, err := q.count(ctx)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (q *ScanExpressionCountQuery[T]) count(ctx context.Context) (int64, error) {
	if err := q.AssertScanCountEnabled(false); err != nil {
		return 0, err
	}
	return q.store.Count(ctx, storagemodels.CountRequest{Scan: q.expr})
}

// RawRequestCountQuery counts with a pre-built *dynamodb.QueryInput or
// *dynamodb.ScanInput. The request is passed through unguarded.
type RawRequestCountQuery struct {
	counter Counter
	req     storagemodels.CountRequest
}

var _ Query[int64] = (*RawRequestCountQuery)(nil)

func NewRawRequestCountQuery(counter Counter, req storagemodels.CountRequest) (*RawRequestCountQuery, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.QueryInput == nil && req.ScanInput == nil {
		return nil, fmt.Errorf("raw count query needs a native QueryInput or ScanInput")
	}
	return &RawRequestCountQuery{counter: counter, req: req}, nil
}

func (q *RawRequestCountQuery) ResultList(ctx context.Context) (*storagemodels.PaginatedList[int64], error) {
	return count(q.counter.Count(ctx, q.req))
}

func (q *RawRequestCountQuery) SingleResult(ctx context.Context) (*int64, error) {
	n, err := q.counter.Count(ctx, q.req)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
