/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/suparena/dynamorepo/datastore"
	"github.com/suparena/dynamorepo/errors"
	"github.com/suparena/dynamorepo/events"
	"github.com/suparena/dynamorepo/logging"
	"github.com/suparena/dynamorepo/page"
	"github.com/suparena/dynamorepo/query"
	"github.com/suparena/dynamorepo/registry"
	"github.com/suparena/dynamorepo/storagemodels"
)

// Repository is the CRUD surface for one domain type. Every operation goes
// through a datastore.Template, so registered listeners observe it.
type Repository[T any] struct {
	template *datastore.Template[T]
	md       *registry.EntityMetadata
	settings
}

// New builds a repository over store. It fails when T cannot be mapped.
func New[T any](store datastore.DataStore[T], opts ...Option) (*Repository[T], error) {
	if store == nil {
		return nil, fmt.Errorf("repository: store is required")
	}
	s := settings{registry: registry.Default}
	for _, opt := range opts {
		opt(&s)
	}
	if s.registry == nil {
		s.registry = registry.Default
	}
	md, err := s.registry.Describe(registry.TypeOf[T]())
	if err != nil {
		return nil, err
	}
	s.logger = logging.OrNop(s.logger).Named("repository").With(zap.String("table", md.TableName()))

	return &Repository[T]{
		template: datastore.NewTemplate(store, events.NewDispatcher(s.listeners...)),
		md:       md,
		settings: s,
	}, nil
}

// Metadata describes the repository's entity type.
func (r *Repository[T]) Metadata() *registry.EntityMetadata { return r.md }

// Template exposes the event-emitting store for operations the repository does not cover.
func (r *Repository[T]) Template() *datastore.Template[T] { return r.template }

// FindByID loads by hash key, or by the key struct of a wrapped composite
// key. It returns nil when the item does not exist.
func (r *Repository[T]) FindByID(ctx context.Context, id any) (*T, error) {
	return query.NewLoadByHashKey[T](r.template, id).SingleResult(ctx)
}

// FindByIDAndRange loads by hash and range key. It returns nil when the item does not exist.
func (r *Repository[T]) FindByIDAndRange(ctx context.Context, hashKey, rangeKey any) (*T, error) {
	return query.NewLoadByHashAndRangeKey[T](r.template, hashKey, rangeKey).SingleResult(ctx)
}

func (r *Repository[T]) ExistsByID(ctx context.Context, id any) (bool, error) {
	n, err := query.NewCountByHashKey[T](r.template, id).SingleResult(ctx)
	if err != nil {
		return false, err
	}
	return *n > 0, nil
}

// FindAll scans the whole table. It needs WithScanEnabled or EnableScan.
func (r *Repository[T]) FindAll(ctx context.Context, opts ...CallOption) (*storagemodels.PaginatedList[T], error) {
	return r.scan(ctx, storagemodels.NewScan(), opts)
}

// FindAllPage returns the whole table as one unpaged page. The total is a
// scan count, so it also needs scan counts enabled.
func (r *Repository[T]) FindAllPage(ctx context.Context, opts ...CallOption) (*page.Page[T], error) {
	total, err := r.scanCount(ctx, true, opts)
	if err != nil {
		return nil, err
	}
	list, err := r.scan(ctx, storagemodels.NewScan(), opts)
	if err != nil {
		return nil, err
	}
	return page.Unpaged[T](list, total), nil
}

// FindAllPaged returns one offset page of a table scan. An unpaged request
// behaves like FindAllPage.
func (r *Repository[T]) FindAllPaged(ctx context.Context, pageable page.Pageable, opts ...CallOption) (*page.Page[T], error) {
	if !pageable.IsPaged() {
		return r.FindAllPage(ctx, opts...)
	}
	total, err := r.scanCount(ctx, true, opts)
	if err != nil {
		return nil, err
	}

	offset := pageable.Offset()
	expr := storagemodels.NewScan()
	if end := offset + int64(pageable.PageSize()); end <= math.MaxInt32 {
		expr.WithLimit(int32(end))
	}
	list, err := r.scan(ctx, expr, opts)
	if err != nil {
		return nil, err
	}

	content := make([]T, 0, pageable.PageSize())
	var i int64
	for v, err := range list.All(ctx) {
		if err != nil {
			return nil, err
		}
		if i >= offset {
			content = append(content, v)
			if len(content) == pageable.PageSize() {
				break
			}
		}
		i++
	}
	return page.Of(content, pageable, total), nil
}

// Count counts the table by scanning. It needs WithScanCountEnabled or EnableScanCount.
func (r *Repository[T]) Count(ctx context.Context, opts ...CallOption) (int64, error) {
	return r.scanCount(ctx, false, opts)
}

func (r *Repository[T]) Save(ctx context.Context, entity *T) error {
	return r.template.Save(ctx, entity)
}

// SaveAll writes entities in batches. Generated keys are written back into
// the slice.
func (r *Repository[T]) SaveAll(ctx context.Context, entities []T) error {
	return r.template.BatchSave(ctx, entities)
}

func (r *Repository[T]) Delete(ctx context.Context, entity *T) error {
	return r.template.Delete(ctx, entity)
}

// DeleteByID loads the item and deletes it. A missing item is a NotFoundError.
func (r *Repository[T]) DeleteByID(ctx context.Context, id any) error {
	entity, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if entity == nil {
		return errors.NewNotFoundError(r.md.Type().String(), fmt.Sprint(id))
	}
	return r.template.Delete(ctx, entity)
}

// DeleteAll scans the table and deletes every item in batches. It needs
// scans enabled.
func (r *Repository[T]) DeleteAll(ctx context.Context, opts ...CallOption) error {
	list, err := r.FindAll(ctx, opts...)
	if err != nil {
		return err
	}
	items, err := list.Collect(ctx)
	if err != nil {
		return err
	}
	r.logger.Debug("deleting all items", zap.Int("count", len(items)))
	return r.DeleteEach(ctx, items)
}

// DeleteEach deletes the given entities in batches.
func (r *Repository[T]) DeleteEach(ctx context.Context, entities []T) error {
	return r.template.BatchDelete(ctx, entities)
}

// Query runs a key-condition query on the table or one of its indexes.
func (r *Repository[T]) Query(ctx context.Context, expr *storagemodels.QueryExpression) (*storagemodels.PaginatedList[T], error) {
	return query.NewQueryExpressionQuery[T](r.template, expr).ResultList(ctx)
}

// QueryOne runs expr and returns its only result, nil for none, or a
// NonUniqueResultError.
func (r *Repository[T]) QueryOne(ctx context.Context, expr *storagemodels.QueryExpression) (*T, error) {
	return query.NewQueryExpressionQuery[T](r.template, expr).SingleResult(ctx)
}

// CountQuery counts the items expr matches without reading them.
func (r *Repository[T]) CountQuery(ctx context.Context, expr *storagemodels.QueryExpression) (int64, error) {
	n, err := query.NewQueryExpressionCountQuery[T](r.template, expr).SingleResult(ctx)
	if err != nil {
		return 0, err
	}
	return *n, nil
}

// CountRequest counts with a native *dynamodb.QueryInput or *dynamodb.ScanInput.
// Native scans are not subject to the scan switches.
func (r *Repository[T]) CountRequest(ctx context.Context, req storagemodels.CountRequest) (int64, error) {
	q, err := query.NewRawRequestCountQuery(r.template, req)
	if err != nil {
		return 0, err
	}
	n, err := q.SingleResult(ctx)
	if err != nil {
		return 0, err
	}
	return *n, nil
}

func (r *Repository[T]) permit(p query.ScanPermissions, opts []CallOption) {
	p.SetScanEnabled(r.scanEnabled)
	p.SetScanCountEnabled(r.scanCountEnabled)
	for _, opt := range opts {
		opt(p)
	}
}

func (r *Repository[T]) scan(ctx context.Context, expr *storagemodels.ScanExpression, opts []CallOption) (*storagemodels.PaginatedList[T], error) {
	q := query.NewScanExpressionQuery[T](r.template, expr)
	r.permit(q, opts)
	if err := q.AssertScanEnabled(false); err != nil {
		r.logger.Debug("scan rejected", zap.Error(err))
		return nil, err
	}
	return q.ResultList(ctx)
}

func (r *Repository[T]) scanCount(ctx context.Context, pageQuery bool, opts []CallOption) (int64, error) {
	q := query.NewScanExpressionCountQuery[T](r.template, storagemodels.NewScan(), pageQuery)
	r.permit(q, opts)
	n, err := q.SingleResult(ctx)
	if err != nil {
		if errors.IsIllegalState(err) {
			r.logger.Debug("scan count rejected", zap.Bool("page", pageQuery), zap.Error(err))
		}
		return 0, err
	}
	return *n, nil
}
