/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Fetcher loads one page starting after startKey. A nil returned key means
// there are no more pages.
type Fetcher[T any] func(ctx context.Context, startKey map[string]types.AttributeValue) ([]T, map[string]types.AttributeValue, error)

// PaginatedList is a lazily loaded result sequence. Pages are fetched on
// demand while iterating and kept, so iterating again replays the loaded
// items before fetching further pages. Elements keep a stable address once
// loaded.
type PaginatedList[T any] struct {
	fetch Fetcher[T]
	opts  ListOptions

	mu        sync.Mutex
	pages     [][]T
	loaded    int
	nextKey   map[string]types.AttributeValue
	started   bool
	exhausted bool
	startTime time.Time
}

// NewPaginatedList returns a list that has not fetched anything yet.
func NewPaginatedList[T any](fetch Fetcher[T], opts ...ListOption) *PaginatedList[T] {
	options := DefaultListOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &PaginatedList[T]{fetch: fetch, opts: options}
}

// ListOf returns an already exhausted list over items.
func ListOf[T any](items ...T) *PaginatedList[T] {
	l := &PaginatedList[T]{started: true, exhausted: true, loaded: len(items)}
	if len(items) > 0 {
		l.pages = [][]T{items}
	}
	return l
}

// element returns a pointer to the i-th element, fetching pages as needed.
func (l *PaginatedList[T]) element(ctx context.Context, i int) (*T, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i >= l.loaded {
		if l.exhausted {
			return nil, false, nil
		}
		if err := l.fetchPage(ctx); err != nil {
			return nil, false, err
		}
	}

	for _, p := range l.pages {
		if i < len(p) {
			return &p[i], true, nil
		}
		i -= len(p)
	}
	return nil, false, nil
}

func (l *PaginatedList[T]) fetchPage(ctx context.Context) error {
	if !l.started {
		l.started = true
		l.startTime = time.Now()
	}

	items, next, err := l.fetch(ctx, l.nextKey)
	if err != nil {
		return err
	}

	if l.opts.Limit > 0 && l.loaded+len(items) >= l.opts.Limit {
		items = items[:l.opts.Limit-l.loaded]
		next = nil
	}
	if len(items) > 0 {
		l.pages = append(l.pages, items)
		l.loaded += len(items)
	}
	l.nextKey = next
	l.exhausted = len(next) == 0

	if l.opts.ProgressHandler != nil {
		l.opts.ProgressHandler(ListProgress{
			ItemsLoaded: l.loaded,
			PagesLoaded: len(l.pages),
			LastKey:     next,
			StartTime:   l.startTime,
		})
	}
	return nil
}

// All yields every element in order. A fetch failure is yielded once as
// the final pair.
func (l *PaginatedList[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for i := 0; ; i++ {
			p, ok, err := l.element(ctx, i)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok {
				return
			}
			if !yield(*p, nil) {
				return
			}
		}
	}
}

// Each calls fn with a pointer to every element until fn returns false.
// The pointers address the list's own storage.
func (l *PaginatedList[T]) Each(ctx context.Context, fn func(any) bool) error {
	for i := 0; ; i++ {
		p, ok, err := l.element(ctx, i)
		if err != nil {
			return err
		}
		if !ok || !fn(p) {
			return nil
		}
	}
}

// Collect loads every page and returns the elements.
func (l *PaginatedList[T]) Collect(ctx context.Context) ([]T, error) {
	var out []T
	for v, err := range l.All(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Len loads every page and returns the number of elements.
func (l *PaginatedList[T]) Len(ctx context.Context) (int, error) {
	for _, err := range l.All(ctx) {
		if err != nil {
			return 0, err
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded, nil
}

// Loaded returns how many elements have been fetched so far.
func (l *PaginatedList[T]) Loaded() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}
