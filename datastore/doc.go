/*
Package datastore defines the storage capability dynamorepo runs against.

DataStore[T] is the contract every backend implements:

	type DataStore[T any] interface {
	    Load(ctx context.Context, hashKey any) (*T, error)
	    LoadWithRange(ctx context.Context, hashKey, rangeKey any) (*T, error)
	    Query(ctx context.Context, expr *storagemodels.QueryExpression) (*storagemodels.PaginatedList[T], error)
	    Scan(ctx context.Context, expr *storagemodels.ScanExpression) (*storagemodels.PaginatedList[T], error)
	    Count(ctx context.Context, req storagemodels.CountRequest) (int64, error)
	    Save(ctx context.Context, entity *T) error
	    Delete(ctx context.Context, entity *T) error
	    BatchWrite(ctx context.Context, saves, deletes []T) []storagemodels.FailedBatch
	}

Implementations:
  - ddb: DynamoDB implementation driven by entity metadata
  - mock: In-memory mock implementation for testing

Template decorates any DataStore with lifecycle events, so listeners for
auditing, validation or logging run around each operation.
*/
package datastore
