/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/suparena/dynamorepo/storagemodels"
)

// MaxBatchSize is the number of write requests DynamoDB accepts per BatchWriteItem call.
const MaxBatchSize = 25

// BatchWrite puts saves and deletes deletes in batches of MaxBatchSize.
// Every batch is attempted. A batch that errors, or comes back with
// unprocessed items, is reported; nothing is retried.
//
// Auto-generated keys are filled in on the elements of saves.
func (d *DynamodbDataStore[T]) BatchWrite(ctx context.Context, saves, deletes []T) []storagemodels.FailedBatch {
	requests := make([]types.WriteRequest, 0, len(saves)+len(deletes))
	for i := range saves {
		item, err := d.prepareSave(&saves[i])
		if err == nil {
			_, err = d.codec.keyOf(item)
		}
		if err != nil {
			return []storagemodels.FailedBatch{{Err: fmt.Errorf("save %d: %w", i, err)}}
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}
	for i := range deletes {
		key, err := d.deleteKey(&deletes[i])
		if err != nil {
			return []storagemodels.FailedBatch{{Err: fmt.Errorf("delete %d: %w", i, err)}}
		}
		requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}})
	}

	var failed []storagemodels.FailedBatch
	for start := 0; start < len(requests); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(requests))
		chunk := requests[start:end]

		out, err := d.client.BatchWriteItem(ctx, &sdk.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{d.tableName: chunk},
		})
		if err != nil {
			d.logger.Warn("batch write failed", zap.Int("batch", start/MaxBatchSize), zap.Error(err))
			failed = append(failed, storagemodels.FailedBatch{
				Err:              fmt.Errorf("BatchWriteItem failed: %w", err),
				UnprocessedItems: map[string][]types.WriteRequest{d.tableName: chunk},
			})
			continue
		}
		if n := countRequests(out.UnprocessedItems); n > 0 {
			d.logger.Warn("batch write left unprocessed items", zap.Int("batch", start/MaxBatchSize), zap.Int("unprocessed", n))
			failed = append(failed, storagemodels.FailedBatch{
				Err:              fmt.Errorf("batch %d: %d unprocessed items", start/MaxBatchSize, n),
				UnprocessedItems: out.UnprocessedItems,
			})
		}
	}
	return failed
}

func countRequests(items map[string][]types.WriteRequest) int {
	n := 0
	for _, reqs := range items {
		n += len(reqs)
	}
	return n
}
