/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides mock implementations of the DataStore interface for testing
package mock

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/suparena/dynamorepo/datastore"
	"github.com/suparena/dynamorepo/mapping"
	"github.com/suparena/dynamorepo/registry"
	"github.com/suparena/dynamorepo/storagemodels"
)

// DataStore is an in-memory implementation of datastore.DataStore[T] for testing.
// Items are keyed by the entity's resolved primary key and kept in insertion order.
//
// Query matches the hash key and evaluates a range condition. Filters and
// projections are not evaluated; install a WithQueryFunc or WithScanFunc
// when a test depends on them.
type DataStore[T any] struct {
	mu    sync.RWMutex
	data  map[string]T
	order []string
	calls map[string]int

	md    *registry.EntityMetadata
	mdErr error
	newID func() string

	getKeyFunc  func(entity T) string
	queryFunc   func(ctx context.Context, expr *storagemodels.QueryExpression) ([]T, error)
	scanFunc    func(ctx context.Context, expr *storagemodels.ScanExpression) ([]T, error)
	countFunc   func(ctx context.Context, req storagemodels.CountRequest) (int64, error)
	loadError   error
	saveError   error
	deleteError error
	batchError  error
}

var _ datastore.DataStore[struct{}] = (*DataStore[struct{}])(nil)

// New creates a new mock DataStore described by registry.Default.
func New[T any]() *DataStore[T] {
	md, err := registry.Describe[T]()
	return &DataStore[T]{
		data:  make(map[string]T),
		calls: make(map[string]int),
		md:    md,
		mdErr: err,
		newID: uuid.NewString,
	}
}

// WithGetKeyFunc sets a custom function to extract keys from entities.
// Load and LoadWithRange then look items up by fmt.Sprint of the hash key,
// or "hash|range".
func (m *DataStore[T]) WithGetKeyFunc(f func(T) string) *DataStore[T] {
	m.getKeyFunc = f
	return m
}

// WithQueryFunc sets a custom query function for testing
func (m *DataStore[T]) WithQueryFunc(f func(ctx context.Context, expr *storagemodels.QueryExpression) ([]T, error)) *DataStore[T] {
	m.queryFunc = f
	return m
}

// WithScanFunc sets a custom scan function for testing
func (m *DataStore[T]) WithScanFunc(f func(ctx context.Context, expr *storagemodels.ScanExpression) ([]T, error)) *DataStore[T] {
	m.scanFunc = f
	return m
}

// WithCountFunc sets a custom count function. It is required for native count requests.
func (m *DataStore[T]) WithCountFunc(f func(ctx context.Context, req storagemodels.CountRequest) (int64, error)) *DataStore[T] {
	m.countFunc = f
	return m
}

// WithIDGenerator replaces uuid.NewString for auto-generated keys
func (m *DataStore[T]) WithIDGenerator(f func() string) *DataStore[T] {
	m.newID = f
	return m
}

// WithLoadError makes Load operations return an error
func (m *DataStore[T]) WithLoadError(err error) *DataStore[T] {
	m.loadError = err
	return m
}

// WithSaveError makes Save operations return an error
func (m *DataStore[T]) WithSaveError(err error) *DataStore[T] {
	m.saveError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *DataStore[T]) WithDeleteError(err error) *DataStore[T] {
	m.deleteError = err
	return m
}

// WithBatchError makes every batch of a BatchWrite fail with err
func (m *DataStore[T]) WithBatchError(err error) *DataStore[T] {
	m.batchError = err
	return m
}

// Load retrieves an entity by hash key
func (m *DataStore[T]) Load(ctx context.Context, hashKey any) (*T, error) {
	m.record("Load")
	if m.loadError != nil {
		return nil, m.loadError
	}
	key, err := m.lookupKey(hashKey, nil, false)
	if err != nil {
		return nil, err
	}
	return m.get(key), nil
}

// LoadWithRange retrieves an entity by hash and range key
func (m *DataStore[T]) LoadWithRange(ctx context.Context, hashKey, rangeKey any) (*T, error) {
	m.record("LoadWithRange")
	if m.loadError != nil {
		return nil, m.loadError
	}
	key, err := m.lookupKey(hashKey, rangeKey, true)
	if err != nil {
		return nil, err
	}
	return m.get(key), nil
}

func (m *DataStore[T]) get(key string) *T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if entity, exists := m.data[key]; exists {
		return &entity
	}
	return nil
}

// Query returns the items whose hash key equals the expression's and whose
// range key satisfies its range condition, in insertion order.
func (m *DataStore[T]) Query(ctx context.Context, expr *storagemodels.QueryExpression) (*storagemodels.PaginatedList[T], error) {
	m.record("Query")
	if expr == nil {
		return nil, fmt.Errorf("query expression is required")
	}
	items, err := m.queryItems(ctx, expr)
	if err != nil {
		return nil, err
	}
	return limited(items, expr.Limit), nil
}

func (m *DataStore[T]) queryItems(ctx context.Context, expr *storagemodels.QueryExpression) ([]T, error) {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, expr)
	}
	if m.mdErr != nil {
		return nil, m.mdErr
	}

	var out []T
	for _, entity := range m.snapshot() {
		ok, err := m.matches(&entity, expr)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, entity)
		}
	}
	return out, nil
}

// Scan returns every item in insertion order
func (m *DataStore[T]) Scan(ctx context.Context, expr *storagemodels.ScanExpression) (*storagemodels.PaginatedList[T], error) {
	m.record("Scan")
	if expr == nil {
		expr = storagemodels.NewScan()
	}
	items, err := m.scanItems(ctx, expr)
	if err != nil {
		return nil, err
	}
	return limited(items, expr.Limit), nil
}

func (m *DataStore[T]) scanItems(ctx context.Context, expr *storagemodels.ScanExpression) ([]T, error) {
	if m.scanFunc != nil {
		return m.scanFunc(ctx, expr)
	}
	return m.snapshot(), nil
}

// Count counts what Query or Scan would return. Native requests need WithCountFunc.
func (m *DataStore[T]) Count(ctx context.Context, req storagemodels.CountRequest) (int64, error) {
	m.record("Count")
	if err := req.Validate(); err != nil {
		return 0, err
	}
	if m.countFunc != nil {
		return m.countFunc(ctx, req)
	}

	var items []T
	var limit int32
	var err error
	switch {
	case req.Query != nil:
		items, err = m.queryItems(ctx, req.Query)
		limit = req.Query.Limit
	case req.Scan != nil:
		items, err = m.scanItems(ctx, req.Scan)
		limit = req.Scan.Limit
	default:
		return 0, fmt.Errorf("mock: native count requests need WithCountFunc")
	}
	if err != nil {
		return 0, err
	}
	n := int64(len(items))
	if limit > 0 && n > int64(limit) {
		n = int64(limit)
	}
	return n, nil
}

// Save stores a copy of the entity, filling an empty auto-generated key first
func (m *DataStore[T]) Save(ctx context.Context, entity *T) error {
	m.record("Save")
	if m.saveError != nil {
		return m.saveError
	}
	return m.put(entity)
}

func (m *DataStore[T]) put(entity *T) error {
	if entity == nil {
		return fmt.Errorf("cannot save nil entity")
	}
	if err := m.generateID(entity); err != nil {
		return err
	}
	key, err := m.extractKey(entity)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists {
		m.order = append(m.order, key)
	}
	m.data[key] = *entity
	return nil
}

// Delete removes the entity with the same key. Deleting an absent entity is not an error.
func (m *DataStore[T]) Delete(ctx context.Context, entity *T) error {
	m.record("Delete")
	if m.deleteError != nil {
		return m.deleteError
	}
	return m.remove(entity)
}

func (m *DataStore[T]) remove(entity *T) error {
	if entity == nil {
		return fmt.Errorf("cannot delete nil entity")
	}
	key, err := m.extractKey(entity)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; exists {
		delete(m.data, key)
		for i, k := range m.order {
			if k == key {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

// BatchWrite applies saves then deletes. With WithBatchError set nothing is
// written and a single failed batch is reported.
func (m *DataStore[T]) BatchWrite(ctx context.Context, saves, deletes []T) []storagemodels.FailedBatch {
	m.record("BatchWrite")
	if m.batchError != nil {
		return []storagemodels.FailedBatch{{Err: m.batchError}}
	}
	var failed []storagemodels.FailedBatch
	for i := range saves {
		if err := m.put(&saves[i]); err != nil {
			failed = append(failed, storagemodels.FailedBatch{Err: err})
		}
	}
	for i := range deletes {
		if err := m.remove(&deletes[i]); err != nil {
			failed = append(failed, storagemodels.FailedBatch{Err: err})
		}
	}
	return failed
}

// Helper methods for testing

// Calls returns how many times the named DataStore method was invoked
func (m *DataStore[T]) Calls(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[method]
}

// SetData replaces the stored items. Keys are derived from the entities.
func (m *DataStore[T]) SetData(items ...T) error {
	m.Clear()
	for i := range items {
		if err := m.put(&items[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetData returns a copy of the internal data map (for testing)
func (m *DataStore[T]) GetData() map[string]T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]T, len(m.data))
	for k, v := range m.data {
		result[k] = v
	}
	return result
}

// Len returns the number of stored entities
func (m *DataStore[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Clear removes all data
func (m *DataStore[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]T)
	m.order = nil
}

func (m *DataStore[T]) record(method string) {
	m.mu.Lock()
	m.calls[method]++
	m.mu.Unlock()
}

func (m *DataStore[T]) snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.data[k])
	}
	return out
}

func limited[T any](items []T, limit int32) *storagemodels.PaginatedList[T] {
	if limit > 0 && int(limit) < len(items) {
		items = items[:limit]
	}
	return storagemodels.ListOf(items...)
}

// extractKey derives the storage key of an entity
func (m *DataStore[T]) extractKey(entity *T) (string, error) {
	if m.getKeyFunc != nil {
		key := m.getKeyFunc(*entity)
		if key == "" {
			return "", fmt.Errorf("unable to extract key from entity")
		}
		return key, nil
	}
	if m.mdErr != nil {
		return "", m.mdErr
	}

	hash, err := m.attributeValue(entity, m.md.HashKeyAttributeName())
	if err != nil {
		return "", err
	}
	rangeName, hasRange := m.md.RangeKeyAttributeName()
	if !hasRange {
		return compose(hash, nil, false)
	}
	rng, err := m.attributeValue(entity, rangeName)
	if err != nil {
		return "", err
	}
	return compose(hash, rng, true)
}

func (m *DataStore[T]) lookupKey(hashKey, rangeKey any, hasRange bool) (string, error) {
	if m.getKeyFunc != nil {
		k, _ := compose(hashKey, rangeKey, hasRange)
		return k, nil
	}
	if m.mdErr != nil {
		return "", m.mdErr
	}

	_, tableHasRange := m.md.RangeKeyAttributeName()
	if a, ok := m.md.IdentityAttribute(); ok && !hasRange {
		cv := reflect.ValueOf(hashKey)
		if cv.Kind() == reflect.Pointer && !cv.IsNil() {
			cv = cv.Elem()
		}
		if cv.IsValid() && cv.Type() == indirect(a.Type) {
			return compose(cv.FieldByIndex(a.Carrier.HashFieldIndex()).Interface(),
				cv.FieldByIndex(a.Carrier.RangeFieldIndex()).Interface(), true)
		}
	}
	if tableHasRange != hasRange {
		return "", fmt.Errorf("mock: %s key takes a range key: %v, got one: %v", m.md.Type(), tableHasRange, hasRange)
	}
	return compose(hashKey, rangeKey, hasRange)
}

// attributeValue reads an item attribute, including the carrier fields of a wrapped key.
func (m *DataStore[T]) attributeValue(entity *T, name string) (any, error) {
	v := reflect.ValueOf(entity).Elem()
	if a, ok := m.md.Attribute(name); ok {
		fv, present, err := a.Value(v)
		if err != nil || !present {
			return nil, err
		}
		return fv.Interface(), nil
	}

	if w, ok := m.md.Identity().(mapping.WrappedCompositeKey); ok && (name == w.HashField || name == w.RangeField) {
		a, _ := m.md.IdentityAttribute()
		cv, present, err := a.Value(v)
		if err != nil || !present {
			return nil, err
		}
		if cv.Kind() == reflect.Pointer {
			if cv.IsNil() {
				return nil, nil
			}
			cv = cv.Elem()
		}
		idx := a.Carrier.HashFieldIndex()
		if name == w.RangeField {
			idx = a.Carrier.RangeFieldIndex()
		}
		return cv.FieldByIndex(idx).Interface(), nil
	}
	return nil, fmt.Errorf("mock: %s has no attribute %q", m.md.Type(), name)
}

func (m *DataStore[T]) generateID(entity *T) error {
	if m.md == nil {
		return nil
	}
	a, ok := m.md.AutoGenerated()
	if !ok {
		return nil
	}
	f, err := a.Settable(reflect.ValueOf(entity).Elem())
	if err != nil {
		return err
	}
	if f.String() == "" {
		f.SetString(m.newID())
	}
	return nil
}

func (m *DataStore[T]) matches(entity *T, expr *storagemodels.QueryExpression) (bool, error) {
	hash, err := m.attributeValue(entity, expr.HashKey.Attribute)
	if err != nil {
		return false, err
	}
	if fmt.Sprint(hash) != fmt.Sprint(expr.HashKey.Value) {
		return false, nil
	}
	if expr.RangeKey == nil {
		return true, nil
	}
	rng, err := m.attributeValue(entity, expr.RangeKey.Attribute)
	if err != nil {
		return false, err
	}
	return rangeMatches(rng, *expr.RangeKey)
}

func rangeMatches(v any, rc storagemodels.RangeCondition) (bool, error) {
	want := 1
	if rc.Operator == storagemodels.RangeBetween {
		want = 2
	}
	if len(rc.Values) != want {
		return false, fmt.Errorf("range operator %s takes %d value(s), got %d", rc.Operator, want, len(rc.Values))
	}

	if rc.Operator == storagemodels.RangeBeginsWith {
		return strings.HasPrefix(fmt.Sprint(v), fmt.Sprint(rc.Values[0])), nil
	}
	c := compare(v, rc.Values[0])
	switch rc.Operator {
	case storagemodels.RangeEqual:
		return c == 0, nil
	case storagemodels.RangeLessThan:
		return c < 0, nil
	case storagemodels.RangeLessThanEqual:
		return c <= 0, nil
	case storagemodels.RangeGreaterThan:
		return c > 0, nil
	case storagemodels.RangeGreaterThanEqual:
		return c >= 0, nil
	case storagemodels.RangeBetween:
		return c >= 0 && compare(v, rc.Values[1]) <= 0, nil
	default:
		return false, fmt.Errorf("unsupported range operator %s", rc.Operator)
	}
}

// compare orders numbers numerically and everything else by string form.
func compare(a, b any) int {
	fa, aok := number(a)
	fb, bok := number(b)
	if aok && bok {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func compose(hash, rng any, hasRange bool) (string, error) {
	if hash == nil || fmt.Sprint(hash) == "" {
		return "", fmt.Errorf("mock: missing hash key value")
	}
	if !hasRange {
		return fmt.Sprint(hash), nil
	}
	if rng == nil || fmt.Sprint(rng) == "" {
		return "", fmt.Errorf("mock: missing range key value")
	}
	return fmt.Sprintf("%v|%v", hash, rng), nil
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
