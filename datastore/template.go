/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/dynamorepo/errors"
	"github.com/suparena/dynamorepo/events"
	"github.com/suparena/dynamorepo/storagemodels"
)

// Template wraps a DataStore and publishes lifecycle events around every
// operation. BeforeSave and BeforeDelete listeners complete before the
// write is issued; a listener error aborts the operation.
type Template[T any] struct {
	store      DataStore[T]
	dispatcher *events.Dispatcher
}

var _ DataStore[struct{}] = (*Template[struct{}])(nil)

// NewTemplate returns a template publishing to dispatcher. A nil dispatcher publishes nothing.
func NewTemplate[T any](store DataStore[T], dispatcher *events.Dispatcher) *Template[T] {
	return &Template[T]{store: store, dispatcher: dispatcher}
}

func (t *Template[T]) Load(ctx context.Context, hashKey any) (*T, error) {
	item, err := t.store.Load(ctx, hashKey)
	return t.afterLoad(ctx, item, err)
}

func (t *Template[T]) LoadWithRange(ctx context.Context, hashKey, rangeKey any) (*T, error) {
	item, err := t.store.LoadWithRange(ctx, hashKey, rangeKey)
	return t.afterLoad(ctx, item, err)
}

func (t *Template[T]) afterLoad(ctx context.Context, item *T, err error) (*T, error) {
	if err != nil || item == nil {
		return nil, err
	}
	if err := t.dispatcher.Dispatch(ctx, events.NewAfterLoad(item)); err != nil {
		return nil, err
	}
	return item, nil
}

func (t *Template[T]) Query(ctx context.Context, expr *storagemodels.QueryExpression) (*storagemodels.PaginatedList[T], error) {
	list, err := t.store.Query(ctx, expr)
	if err != nil {
		return nil, err
	}
	if err := t.dispatcher.Dispatch(ctx, events.NewAfterQuery(list)); err != nil {
		return nil, err
	}
	return list, nil
}

func (t *Template[T]) Scan(ctx context.Context, expr *storagemodels.ScanExpression) (*storagemodels.PaginatedList[T], error) {
	list, err := t.store.Scan(ctx, expr)
	if err != nil {
		return nil, err
	}
	if err := t.dispatcher.Dispatch(ctx, events.NewAfterScan(list)); err != nil {
		return nil, err
	}
	return list, nil
}

func (t *Template[T]) Count(ctx context.Context, req storagemodels.CountRequest) (int64, error) {
	return t.store.Count(ctx, req)
}

func (t *Template[T]) Save(ctx context.Context, entity *T) error {
	if err := t.dispatcher.Dispatch(ctx, events.NewBeforeSave(entity)); err != nil {
		return err
	}
	if err := t.store.Save(ctx, entity); err != nil {
		return err
	}
	return t.dispatcher.Dispatch(ctx, events.NewAfterSave(entity))
}

func (t *Template[T]) Delete(ctx context.Context, entity *T) error {
	if err := t.dispatcher.Dispatch(ctx, events.NewBeforeDelete(entity)); err != nil {
		return err
	}
	if err := t.store.Delete(ctx, entity); err != nil {
		return err
	}
	return t.dispatcher.Dispatch(ctx, events.NewAfterDelete(entity))
}

// BatchWrite publishes BeforeSave and BeforeDelete for every entity, writes,
// and publishes the after events only when every batch succeeded.
func (t *Template[T]) BatchWrite(ctx context.Context, saves, deletes []T) []storagemodels.FailedBatch {
	for i := range saves {
		if err := t.dispatcher.Dispatch(ctx, events.NewBeforeSave(&saves[i])); err != nil {
			return []storagemodels.FailedBatch{{Err: err}}
		}
	}
	for i := range deletes {
		if err := t.dispatcher.Dispatch(ctx, events.NewBeforeDelete(&deletes[i])); err != nil {
			return []storagemodels.FailedBatch{{Err: err}}
		}
	}

	if failed := t.store.BatchWrite(ctx, saves, deletes); len(failed) > 0 {
		return failed
	}

	for i := range saves {
		if err := t.dispatcher.Dispatch(ctx, events.NewAfterSave(&saves[i])); err != nil {
			return []storagemodels.FailedBatch{{Err: err}}
		}
	}
	for i := range deletes {
		if err := t.dispatcher.Dispatch(ctx, events.NewAfterDelete(&deletes[i])); err != nil {
			return []storagemodels.FailedBatch{{Err: err}}
		}
	}
	return nil
}

// BatchSave saves entities in batches. Failed batches are reported as a
// BatchWriteError.
func (t *Template[T]) BatchSave(ctx context.Context, entities []T) error {
	return BatchError(t.BatchWrite(ctx, entities, nil))
}

// BatchDelete deletes entities in batches. Failed batches are reported as a
// BatchWriteError.
func (t *Template[T]) BatchDelete(ctx context.Context, entities []T) error {
	return BatchError(t.BatchWrite(ctx, nil, entities))
}

// BatchError folds failed batches into a BatchWriteError, or nil.
func BatchError(failed []storagemodels.FailedBatch) error {
	errs := make([]error, 0, len(failed))
	for _, f := range failed {
		errs = append(errs, f.Err)
	}
	return errors.NewBatchWriteError(errs...)
}
