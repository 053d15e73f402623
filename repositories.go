/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynamorepo

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/suparena/dynamorepo/config"
	"github.com/suparena/dynamorepo/datastore/ddb"
	"github.com/suparena/dynamorepo/logging"
	"github.com/suparena/dynamorepo/registry"
	"github.com/suparena/dynamorepo/repository"
)

// TypedRepositories holds the named repositories of one domain type.
type TypedRepositories[T any] struct {
	mu    sync.RWMutex
	repos map[string]*repository.Repository[T]
}

// NewTypedRepositories creates an empty set of repositories for T
func NewTypedRepositories[T any]() *TypedRepositories[T] {
	return &TypedRepositories[T]{
		repos: make(map[string]*repository.Repository[T]),
	}
}

// Register adds a repository under name
func (tr *TypedRepositories[T]) Register(name string, repo *repository.Repository[T]) error {
	if repo == nil {
		return fmt.Errorf("repository %q is nil", name)
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if _, exists := tr.repos[name]; exists {
		return fmt.Errorf("repository with name %q already registered", name)
	}
	tr.repos[name] = repo
	return nil
}

// Get retrieves a repository by name
func (tr *TypedRepositories[T]) Get(name string) (*repository.Repository[T], error) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	repo, exists := tr.repos[name]
	if !exists {
		return nil, fmt.Errorf("repository with name %q not found", name)
	}
	return repo, nil
}

// Remove deletes a repository by name
func (tr *TypedRepositories[T]) Remove(name string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if _, exists := tr.repos[name]; !exists {
		return fmt.Errorf("repository with name %q not found", name)
	}
	delete(tr.repos, name)
	return nil
}

// Names returns the registered names in sorted order
func (tr *TypedRepositories[T]) Names() []string {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	names := make([]string, 0, len(tr.repos))
	for n := range tr.repos {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Repositories looks repositories up by domain type. The same name may be
// used by different types.
type Repositories struct {
	mu     sync.Mutex
	byType map[reflect.Type]any
}

// NewRepositories creates an empty registry
func NewRepositories() *Repositories {
	return &Repositories{
		byType: make(map[reflect.Type]any),
	}
}

// For returns the repositories of T, creating the set on first use
func For[T any](rs *Repositories) *TypedRepositories[T] {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	typ := registry.TypeOf[T]()
	if tr, exists := rs.byType[typ]; exists {
		return tr.(*TypedRepositories[T])
	}
	tr := NewTypedRepositories[T]()
	rs.byType[typ] = tr
	return tr
}

// Register is a convenience function to register a repository for type T
func Register[T any](rs *Repositories, name string, repo *repository.Repository[T]) error {
	return For[T](rs).Register(name, repo)
}

// Get is a convenience function to get a repository for type T
func Get[T any](rs *Repositories, name string) (*repository.Repository[T], error) {
	return For[T](rs).Get(name)
}

// Remove is a convenience function to remove a repository for type T
func Remove[T any](rs *Repositories, name string) error {
	return For[T](rs).Remove(name)
}

// Names is a convenience function to list the repositories of type T
func Names[T any](rs *Repositories) []string {
	return For[T](rs).Names()
}

// OpenRepository connects to DynamoDB as configured and returns a repository
// for T. The logger is built from cfg.Logging and the scan switches come
// from cfg.Query; opts are applied after them.
func OpenRepository[T any](ctx context.Context, cfg config.Config, opts ...repository.Option) (*repository.Repository[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	store, err := ddb.NewFromConfig[T](ctx, cfg, ddb.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Debug("opened repository", zap.String("table", store.TableName()))

	all := append([]repository.Option{repository.WithLogger(logger)}, repository.ConfigOptions(cfg.Query)...)
	return repository.New[T](store, append(all, opts...)...)
}
