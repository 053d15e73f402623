/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/suparena/dynamorepo/storagemodels"
)

// DataStore is the storage capability for entities of type T.
type DataStore[T any] interface {
	// Load returns the item with the given hash key, or nil when absent.
	Load(ctx context.Context, hashKey any) (*T, error)

	// LoadWithRange returns the item with the given hash and range key, or nil when absent.
	LoadWithRange(ctx context.Context, hashKey, rangeKey any) (*T, error)

	// Query returns a lazy sequence over the items matching expr.
	Query(ctx context.Context, expr *storagemodels.QueryExpression) (*storagemodels.PaginatedList[T], error)

	// Scan returns a lazy sequence over the items matching expr.
	Scan(ctx context.Context, expr *storagemodels.ScanExpression) (*storagemodels.PaginatedList[T], error)

	// Count returns the number of items matching the request without materializing them.
	Count(ctx context.Context, req storagemodels.CountRequest) (int64, error)

	Save(ctx context.Context, entity *T) error

	Delete(ctx context.Context, entity *T) error

	// BatchWrite saves and deletes in batches and reports every batch that failed.
	BatchWrite(ctx context.Context, saves, deletes []T) []storagemodels.FailedBatch
}

// Client is the subset of *dynamodb.Client used by the DynamoDB store.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

var _ Client = (*dynamodb.Client)(nil)
