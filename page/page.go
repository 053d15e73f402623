/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package page

import (
	"context"
	"iter"
	"math"
	"reflect"
)

// List is a lazily evaluated element sequence.
// *storagemodels.PaginatedList satisfies it.
type List[T any] interface {
	All(ctx context.Context) iter.Seq2[T, error]
}

// Page pairs a sequence of elements with the total size of the result set.
type Page[T any] struct {
	content  List[T]
	total    int64
	pageable Pageable
}

// Unpaged wraps a whole lazily fetched result set as a single page.
// Negative totals are treated as zero.
func Unpaged[T any](content List[T], total int64) *Page[T] {
	if total < 0 {
		total = 0
	}
	return &Page[T]{content: content, total: total, pageable: UnpagedRequest()}
}

// Of builds a page holding one slice of a larger result set.
func Of[T any](content []T, pageable Pageable, total int64) *Page[T] {
	if total < 0 {
		total = 0
	}
	return &Page[T]{content: sliceList[T](content), total: total, pageable: pageable}
}

// Pageable returns the request this page answers.
func (p *Page[T]) Pageable() Pageable { return p.pageable }

// TotalElements is the size of the whole result set.
func (p *Page[T]) TotalElements() int64 { return p.total }

// Number is the 0-based page number.
func (p *Page[T]) Number() int { return p.pageable.PageNumber() }

// Size is the requested page size, or for unpaged pages the total
// saturated at math.MaxInt32.
func (p *Page[T]) Size() int {
	if p.pageable.IsPaged() {
		return p.pageable.PageSize()
	}
	return saturate(p.total)
}

// NumberOfElements is the number of elements on this page, saturated at math.MaxInt32.
func (p *Page[T]) NumberOfElements() int {
	if !p.pageable.IsPaged() {
		return saturate(p.total)
	}
	remaining := p.total - p.pageable.Offset()
	if remaining < 0 {
		remaining = 0
	}
	return saturate(min(remaining, int64(p.pageable.PageSize())))
}

// TotalPages is 1 for a non-empty unpaged page.
func (p *Page[T]) TotalPages() int {
	if !p.pageable.IsPaged() {
		if p.total > 0 {
			return 1
		}
		return 0
	}
	size := int64(p.pageable.PageSize())
	return saturate((p.total + size - 1) / size)
}

// HasContent reports whether the result set is non-empty.
func (p *Page[T]) HasContent() bool { return p.NumberOfElements() > 0 }

func (p *Page[T]) IsFirst() bool { return !p.HasPrevious() }

func (p *Page[T]) IsLast() bool { return !p.HasNext() }

func (p *Page[T]) HasNext() bool {
	return p.pageable.IsPaged() && p.Number()+1 < p.TotalPages()
}

func (p *Page[T]) HasPrevious() bool {
	return p.pageable.IsPaged() && p.Number() > 0
}

// NextPageable returns the next page request; ok is false on the last page.
func (p *Page[T]) NextPageable() (Pageable, bool) {
	if !p.HasNext() {
		return Pageable{}, false
	}
	return p.pageable.Next(), true
}

// PreviousPageable returns the previous page request; ok is false on the first page.
func (p *Page[T]) PreviousPageable() (Pageable, bool) {
	if !p.HasPrevious() {
		return Pageable{}, false
	}
	return p.pageable.Previous(), true
}

// All iterates the page content lazily.
func (p *Page[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return p.content.All(ctx)
}

// Content materializes the page content.
func (p *Page[T]) Content(ctx context.Context) ([]T, error) {
	var out []T
	for v, err := range p.content.All(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Equal compares total, pageable and materialized content.
func (p *Page[T]) Equal(ctx context.Context, other *Page[T]) (bool, error) {
	if p == other {
		return true, nil
	}
	if other == nil || p.total != other.total || p.pageable != other.pageable {
		return false, nil
	}
	a, err := p.Content(ctx)
	if err != nil {
		return false, err
	}
	b, err := other.Content(ctx)
	if err != nil {
		return false, err
	}
	if len(a) == 0 && len(b) == 0 {
		return true, nil
	}
	return reflect.DeepEqual(a, b), nil
}

// Map applies f to every element eagerly and keeps the total and pageable.
func Map[T, U any](ctx context.Context, p *Page[T], f func(T) U) (*Page[U], error) {
	content, err := p.Content(ctx)
	if err != nil {
		return nil, err
	}
	mapped := make([]U, len(content))
	for i, v := range content {
		mapped[i] = f(v)
	}
	return &Page[U]{content: sliceList[U](mapped), total: p.total, pageable: p.pageable}, nil
}

func saturate(n int64) int {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

type sliceList[T any] []T

func (s sliceList[T]) All(context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, v := range s {
			if !yield(v, nil) {
				return
			}
		}
	}
}
