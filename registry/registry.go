/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"

	"github.com/suparena/dynamorepo/errors"
	"github.com/suparena/dynamorepo/mapping"
)

// TableNamer is implemented by entity types that choose their own table.
type TableNamer interface {
	TableName() string
}

// Registry memoizes EntityMetadata per Go type.
type Registry struct {
	mu      sync.Mutex
	entries map[reflect.Type]*entry

	namesMu    sync.RWMutex
	tableNames map[reflect.Type]string
}

type entry struct {
	ready chan struct{}
	md    *EntityMetadata
	err   error
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		entries:    make(map[reflect.Type]*entry),
		tableNames: make(map[reflect.Type]string),
	}
}

// Default is the process-wide registry used by the package-level functions.
var Default = New()

// Describe returns the metadata of type T from the default registry.
func Describe[T any]() (*EntityMetadata, error) {
	return Default.Describe(TypeOf[T]())
}

// DescribeType returns the metadata of t from the default registry.
func DescribeType(t reflect.Type) (*EntityMetadata, error) {
	return Default.Describe(t)
}

// RegisterTableName overrides the table name of T in the default registry.
func RegisterTableName[T any](name string) {
	Default.RegisterTableName(TypeOf[T](), name)
}

// Forget discards the cached metadata of T in the default registry.
func Forget[T any]() {
	Default.Forget(TypeOf[T]())
}

// TypeOf returns the reflect.Type of T, including interface and pointer types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// Describe returns the metadata of t, computing it on first use. Concurrent
// callers for the same type wait for a single computation. A failed
// computation is not cached.
func (r *Registry) Describe(t reflect.Type) (md *EntityMetadata, err error) {
	t = indirect(t)

	r.mu.Lock()
	if e, ok := r.entries[t]; ok {
		r.mu.Unlock()
		<-e.ready
		return e.md, e.err
	}
	e := &entry{ready: make(chan struct{})}
	r.entries[t] = e
	r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			e.md, e.err = nil, errors.NewMappingError(t.String(), "describe panicked: %v", p)
		}
		r.publish(t, e)
		md, err = e.md, e.err
	}()
	e.md, e.err = r.build(t)
	return e.md, e.err
}

// publish releases waiters on e. A failed build is dropped so the next
// Describe retries it.
func (r *Registry) publish(t reflect.Type, e *entry) {
	if e.err != nil {
		r.mu.Lock()
		if r.entries[t] == e {
			delete(r.entries, t)
		}
		r.mu.Unlock()
	}
	close(e.ready)
}

// Forget discards the cached metadata of t. The next Describe rebuilds it.
func (r *Registry) Forget(t reflect.Type) {
	t = indirect(t)
	r.mu.Lock()
	delete(r.entries, t)
	r.mu.Unlock()
}

// RegisterTableName overrides the table name of t and discards its cached metadata.
func (r *Registry) RegisterTableName(t reflect.Type, name string) {
	t = indirect(t)
	r.namesMu.Lock()
	r.tableNames[t] = name
	r.namesMu.Unlock()
	r.Forget(t)
}

func (r *Registry) tableName(t reflect.Type) string {
	if namer, ok := reflect.New(t).Interface().(TableNamer); ok {
		if n := namer.TableName(); n != "" {
			return n
		}
	}
	r.namesMu.RLock()
	n, ok := r.tableNames[t]
	r.namesMu.RUnlock()
	if ok && n != "" {
		return n
	}
	return t.Name()
}

func (r *Registry) build(t reflect.Type) (*EntityMetadata, error) {
	attrs, err := mapping.Introspect(t)
	if err != nil {
		return nil, err
	}
	identity, err := mapping.Resolve(t.String(), attrs)
	if err != nil {
		return nil, err
	}
	indexes, err := buildIndexes(t.String(), attrs)
	if err != nil {
		return nil, err
	}
	return &EntityMetadata{
		entityType: t,
		tableName:  r.tableName(t),
		identity:   identity,
		attributes: attrs,
		indexes:    indexes,
	}, nil
}
