/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package events

import (
	"context"
	"fmt"
)

// Listener receives every dispatched event.
type Listener interface {
	OnEvent(ctx context.Context, e Event) error
}

// Callbacks is the set of lifecycle callbacks of a listener bound to T.
type Callbacks[T any] interface {
	OnBeforeSave(ctx context.Context, entity *T) error
	OnAfterSave(ctx context.Context, entity *T) error
	OnBeforeDelete(ctx context.Context, entity *T) error
	OnAfterDelete(ctx context.Context, entity *T) error
	OnAfterLoad(ctx context.Context, entity *T) error
	OnAfterQuery(ctx context.Context, entity *T) error
	OnAfterScan(ctx context.Context, entity *T) error
}

// Base implements every callback as a no-op. Embed it and override the
// callbacks of interest.
type Base[T any] struct{}

func (Base[T]) OnBeforeSave(context.Context, *T) error   { return nil }
func (Base[T]) OnAfterSave(context.Context, *T) error    { return nil }
func (Base[T]) OnBeforeDelete(context.Context, *T) error { return nil }
func (Base[T]) OnAfterDelete(context.Context, *T) error  { return nil }
func (Base[T]) OnAfterLoad(context.Context, *T) error    { return nil }
func (Base[T]) OnAfterQuery(context.Context, *T) error   { return nil }
func (Base[T]) OnAfterScan(context.Context, *T) error    { return nil }

// Bind adapts callbacks into a Listener bound to T. Payload elements of any
// other type are skipped.
func Bind[T any](cb Callbacks[T]) Listener {
	return &bound[T]{cb: cb}
}

type bound[T any] struct {
	cb Callbacks[T]
}

func (b *bound[T]) OnEvent(ctx context.Context, e Event) error {
	switch e.payload.shape {
	case ShapeAbsent:
		return nil

	case ShapeSingle:
		entity, ok := match[T](e.payload.single)
		if !ok {
			return nil
		}
		return b.single(e.kind)(ctx, entity)

	case ShapeMany:
		callback := b.many(e.kind)
		var cbErr error
		err := e.payload.many.Each(ctx, func(v any) bool {
			entity, ok := match[T](v)
			if !ok {
				return true
			}
			cbErr = callback(ctx, entity)
			return cbErr == nil
		})
		if cbErr != nil {
			return cbErr
		}
		return err
	}
	panic(fmt.Sprintf("events: unknown payload shape %d", e.payload.shape))
}

func (b *bound[T]) single(k Kind) func(context.Context, *T) error {
	switch k {
	case BeforeSave:
		return b.cb.OnBeforeSave
	case AfterSave:
		return b.cb.OnAfterSave
	case BeforeDelete:
		return b.cb.OnBeforeDelete
	case AfterDelete:
		return b.cb.OnAfterDelete
	case AfterLoad:
		return b.cb.OnAfterLoad
	}
	panic(fmt.Sprintf("events: %s has no single entity callback", k))
}

func (b *bound[T]) many(k Kind) func(context.Context, *T) error {
	switch k {
	case AfterQuery:
		return b.cb.OnAfterQuery
	case AfterScan:
		return b.cb.OnAfterScan
	}
	panic(fmt.Sprintf("events: %s has no collection callback", k))
}

// match returns v as *T when its runtime type is *T or T.
func match[T any](v any) (*T, bool) {
	switch x := v.(type) {
	case *T:
		return x, x != nil
	case T:
		return &x, true
	}
	return nil, false
}
