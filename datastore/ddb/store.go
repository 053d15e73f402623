/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suparena/dynamorepo/datastore"
	"github.com/suparena/dynamorepo/registry"
)

// DynamodbDataStore implements datastore.DataStore[T] by using AWS DynamoDB as the underlying data store.
type DynamodbDataStore[T any] struct {
	client          datastore.Client
	md              *registry.EntityMetadata
	codec           codec[T]
	tableName       string
	consistentReads bool
	pageSize        int32
	newID           func() string
	logger          *zap.Logger
}

var _ datastore.DataStore[struct{}] = (*DynamodbDataStore[struct{}])(nil)

type storeOptions struct {
	registry        *registry.Registry
	tableName       string
	tableNameFunc   func(string) string
	tablePrefix     string
	consistentReads bool
	pageSize        int32
	newID           func() string
	logger          *zap.Logger
}

// Option configures a DynamodbDataStore.
type Option func(*storeOptions)

// WithRegistry describes the entity type with r instead of registry.Default.
func WithRegistry(r *registry.Registry) Option {
	return func(o *storeOptions) { o.registry = r }
}

// WithTableName replaces the table name from the entity metadata.
func WithTableName(name string) Option {
	return func(o *storeOptions) { o.tableName = name }
}

// WithTableNameFunc maps the metadata table name to the one the store uses.
// An explicit WithTableName still wins.
func WithTableNameFunc(fn func(metadataName string) string) Option {
	return func(o *storeOptions) { o.tableNameFunc = fn }
}

// WithTablePrefix prepends prefix to the table name.
func WithTablePrefix(prefix string) Option {
	return func(o *storeOptions) { o.tablePrefix = prefix }
}

// WithConsistentReads makes loads and base-table queries strongly consistent.
func WithConsistentReads(enabled bool) Option {
	return func(o *storeOptions) { o.consistentReads = enabled }
}

// WithPageSize sets the per-request item limit used when an expression does not set one.
func WithPageSize(size int32) Option {
	return func(o *storeOptions) { o.pageSize = size }
}

// WithIDGenerator replaces uuid.NewString for auto-generated keys.
func WithIDGenerator(fn func() string) Option {
	return func(o *storeOptions) { o.newID = fn }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *storeOptions) { o.logger = logger }
}

// NewDynamodbDataStore constructs a new DynamodbDataStore for type T.
// The type is described up front so a mapping error surfaces here.
func NewDynamodbDataStore[T any](client datastore.Client, opts ...Option) (*DynamodbDataStore[T], error) {
	if client == nil {
		return nil, fmt.Errorf("dynamodb client is required")
	}
	o := storeOptions{
		registry: registry.Default,
		newID:    uuid.NewString,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	md, err := o.registry.Describe(registry.TypeOf[T]())
	if err != nil {
		return nil, err
	}

	table := md.TableName()
	if o.tableNameFunc != nil {
		table = o.tableNameFunc(table)
	}
	if o.tableName != "" {
		table = o.tableName
	}
	table = o.tablePrefix + table

	return &DynamodbDataStore[T]{
		client:          client,
		md:              md,
		codec:           newCodec[T](md),
		tableName:       table,
		consistentReads: o.consistentReads,
		pageSize:        o.pageSize,
		newID:           o.newID,
		logger:          o.logger.Named("ddb").With(zap.String("table", table)),
	}, nil
}

// TableName returns the table this store reads and writes.
func (d *DynamodbDataStore[T]) TableName() string { return d.tableName }

// Metadata returns the entity metadata the store was built from.
func (d *DynamodbDataStore[T]) Metadata() *registry.EntityMetadata { return d.md }

// Load retrieves an item by hash key. It returns nil if no item is found.
func (d *DynamodbDataStore[T]) Load(ctx context.Context, hashKey any) (*T, error) {
	key, err := d.codec.key(hashKey, nil, false)
	if err != nil {
		return nil, err
	}
	return d.getItem(ctx, key)
}

// LoadWithRange retrieves an item by hash and range key. It returns nil if no item is found.
func (d *DynamodbDataStore[T]) LoadWithRange(ctx context.Context, hashKey, rangeKey any) (*T, error) {
	key, err := d.codec.key(hashKey, rangeKey, true)
	if err != nil {
		return nil, err
	}
	return d.getItem(ctx, key)
}

func (d *DynamodbDataStore[T]) getItem(ctx context.Context, key map[string]types.AttributeValue) (*T, error) {
	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:      &d.tableName,
		Key:            key,
		ConsistentRead: aws.Bool(d.consistentReads),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if len(out.Item) == 0 {
		d.logger.Debug("item not found")
		return nil, nil
	}
	return d.codec.unmarshal(out.Item)
}

// Save writes the entity, replacing any item with the same key. An empty
// auto-generated key is filled in first.
func (d *DynamodbDataStore[T]) Save(ctx context.Context, entity *T) error {
	item, err := d.prepareSave(entity)
	if err != nil {
		return err
	}
	if _, err := d.codec.keyOf(item); err != nil {
		return err
	}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}
	return nil
}

func (d *DynamodbDataStore[T]) prepareSave(entity *T) (map[string]types.AttributeValue, error) {
	if entity == nil {
		return nil, fmt.Errorf("cannot save nil %s", d.md.Type())
	}
	if err := d.codec.generateID(entity, d.newID); err != nil {
		return nil, err
	}
	return d.codec.marshal(entity)
}

// Delete removes the item with the entity's key. Deleting an absent item is not an error.
func (d *DynamodbDataStore[T]) Delete(ctx context.Context, entity *T) error {
	key, err := d.deleteKey(entity)
	if err != nil {
		return err
	}

	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &d.tableName,
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

func (d *DynamodbDataStore[T]) deleteKey(entity *T) (map[string]types.AttributeValue, error) {
	item, err := d.codec.marshal(entity)
	if err != nil {
		return nil, err
	}
	return d.codec.keyOf(item)
}
