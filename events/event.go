/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package events

import (
	"context"
	"fmt"
	"reflect"
)

// Kind identifies a lifecycle event.
type Kind int

const (
	BeforeSave Kind = iota + 1
	AfterSave
	BeforeDelete
	AfterDelete
	AfterLoad
	AfterQuery
	AfterScan
)

func (k Kind) String() string {
	switch k {
	case BeforeSave:
		return "BeforeSave"
	case AfterSave:
		return "AfterSave"
	case BeforeDelete:
		return "BeforeDelete"
	case AfterDelete:
		return "AfterDelete"
	case AfterLoad:
		return "AfterLoad"
	case AfterQuery:
		return "AfterQuery"
	case AfterScan:
		return "AfterScan"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// carriesCollection reports whether events of this kind carry a collection.
func (k Kind) carriesCollection() bool {
	return k == AfterQuery || k == AfterScan
}

// Collection is a lazily iterable payload. Each stops when fn returns false.
type Collection interface {
	Each(ctx context.Context, fn func(any) bool) error
}

// CollectionFunc adapts a function to Collection.
type CollectionFunc func(ctx context.Context, fn func(any) bool) error

func (f CollectionFunc) Each(ctx context.Context, fn func(any) bool) error {
	return f(ctx, fn)
}

// Values is a Collection over already materialized elements.
func Values(items ...any) Collection {
	return CollectionFunc(func(_ context.Context, fn func(any) bool) error {
		for _, it := range items {
			if !fn(it) {
				return nil
			}
		}
		return nil
	})
}

// Shape tags a payload.
type Shape int

const (
	ShapeAbsent Shape = iota
	ShapeSingle
	ShapeMany
)

// Payload is either a single entity or a collection of entities.
type Payload struct {
	shape  Shape
	single any
	many   Collection
}

// Single wraps one entity. A nil entity, including a typed nil pointer,
// yields an absent payload.
func Single(entity any) Payload {
	if isNil(entity) {
		return Payload{}
	}
	return Payload{shape: ShapeSingle, single: entity}
}

// Many wraps a collection. A nil collection yields an absent payload.
func Many(c Collection) Payload {
	if isNil(c) {
		return Payload{}
	}
	return Payload{shape: ShapeMany, many: c}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Shape returns the payload tag.
func (p Payload) Shape() Shape { return p.shape }

// Entity returns the single entity, if the payload holds one.
func (p Payload) Entity() (any, bool) { return p.single, p.shape == ShapeSingle }

// Collection returns the collection, if the payload holds one.
func (p Payload) Collection() (Collection, bool) { return p.many, p.shape == ShapeMany }

// Event is an immutable lifecycle notification.
type Event struct {
	kind    Kind
	payload Payload
}

// New pairs a kind with a payload. Prefer the kind-specific constructors.
func New(kind Kind, payload Payload) Event {
	return Event{kind: kind, payload: payload}
}

func (e Event) Kind() Kind       { return e.kind }
func (e Event) Payload() Payload { return e.payload }
func (e Event) String() string   { return e.kind.String() }

func NewBeforeSave(entity any) Event   { return New(BeforeSave, Single(entity)) }
func NewAfterSave(entity any) Event    { return New(AfterSave, Single(entity)) }
func NewBeforeDelete(entity any) Event { return New(BeforeDelete, Single(entity)) }
func NewAfterDelete(entity any) Event  { return New(AfterDelete, Single(entity)) }
func NewAfterLoad(entity any) Event    { return New(AfterLoad, Single(entity)) }
func NewAfterQuery(c Collection) Event { return New(AfterQuery, Many(c)) }
func NewAfterScan(c Collection) Event  { return New(AfterScan, Many(c)) }

// mustBeWellFormed panics on kind and payload shape combinations the
// constructors never produce.
func mustBeWellFormed(e Event) {
	switch {
	case e.kind < BeforeSave || e.kind > AfterScan:
		panic(fmt.Sprintf("events: unknown event kind %d", int(e.kind)))
	case e.payload.shape == ShapeMany && !e.kind.carriesCollection():
		panic(fmt.Sprintf("events: %s cannot carry a collection payload", e.kind))
	case e.payload.shape == ShapeSingle && e.kind.carriesCollection():
		panic(fmt.Sprintf("events: %s requires a collection payload", e.kind))
	}
}
