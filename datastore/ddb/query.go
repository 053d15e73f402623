/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/suparena/dynamorepo/datastore"
	"github.com/suparena/dynamorepo/errors"
	"github.com/suparena/dynamorepo/storagemodels"
)

// Query returns a lazy list over the items matching expr. Nothing is
// requested until the list is iterated.
func (d *DynamodbDataStore[T]) Query(ctx context.Context, expr *storagemodels.QueryExpression) (*storagemodels.PaginatedList[T], error) {
	input, err := d.queryInput(expr, false)
	if err != nil {
		return nil, err
	}
	fetch := func(ctx context.Context, startKey map[string]types.AttributeValue) ([]T, map[string]types.AttributeValue, error) {
		in := *input
		in.ExclusiveStartKey = startKey
		out, err := d.client.Query(ctx, &in)
		if err != nil {
			return nil, nil, fmt.Errorf("query error: %w", err)
		}
		d.logger.Debug("query page",
			zap.Stringp("index", in.IndexName),
			zap.Int("items", len(out.Items)),
			zap.Bool("more", len(out.LastEvaluatedKey) > 0))
		items, err := d.codec.unmarshalAll(out.Items)
		return items, out.LastEvaluatedKey, err
	}
	return storagemodels.NewPaginatedList(fetch, listOptions(expr.Limit)...), nil
}

// Scan returns a lazy list over the items matching expr.
func (d *DynamodbDataStore[T]) Scan(ctx context.Context, expr *storagemodels.ScanExpression) (*storagemodels.PaginatedList[T], error) {
	if expr == nil {
		expr = storagemodels.NewScan()
	}
	input, err := d.scanInput(expr, false)
	if err != nil {
		return nil, err
	}
	fetch := func(ctx context.Context, startKey map[string]types.AttributeValue) ([]T, map[string]types.AttributeValue, error) {
		in := *input
		in.ExclusiveStartKey = startKey
		out, err := d.client.Scan(ctx, &in)
		if err != nil {
			return nil, nil, fmt.Errorf("scan error: %w", err)
		}
		d.logger.Debug("scan page",
			zap.Int("items", len(out.Items)),
			zap.Bool("more", len(out.LastEvaluatedKey) > 0))
		items, err := d.codec.unmarshalAll(out.Items)
		return items, out.LastEvaluatedKey, err
	}
	return storagemodels.NewPaginatedList(fetch, listOptions(expr.Limit)...), nil
}

// Count asks DynamoDB to count the matching items with Select=COUNT and
// sums the per-page counts. No items are transferred.
func (d *DynamodbDataStore[T]) Count(ctx context.Context, req storagemodels.CountRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	switch {
	case req.Query != nil:
		input, err := d.queryInput(req.Query, true)
		if err != nil {
			return 0, err
		}
		return d.countQuery(ctx, input, int64(req.Query.Limit))
	case req.Scan != nil:
		input, err := d.scanInput(req.Scan, true)
		if err != nil {
			return 0, err
		}
		return d.countScan(ctx, input, int64(req.Scan.Limit))
	case req.QueryInput != nil:
		in := *req.QueryInput
		in.Select = types.SelectCount
		in.ProjectionExpression = nil
		in.ExpressionAttributeNames = referencedNames(in.ExpressionAttributeNames, in.KeyConditionExpression, in.FilterExpression)
		if in.TableName == nil {
			in.TableName = aws.String(d.tableName)
		}
		return d.countQuery(ctx, &in, 0)
	default:
		in := *req.ScanInput
		in.Select = types.SelectCount
		in.ProjectionExpression = nil
		in.ExpressionAttributeNames = referencedNames(in.ExpressionAttributeNames, in.FilterExpression)
		if in.TableName == nil {
			in.TableName = aws.String(d.tableName)
		}
		return d.countScan(ctx, &in, 0)
	}
}

var namePlaceholder = regexp.MustCompile(`#[A-Za-z0-9_]+`)

// referencedNames returns the entries of names still used by exprs.
// DynamoDB rejects a request carrying unused names, which a raw input does
// once its projection is dropped. names itself is not modified.
func referencedNames(names map[string]string, exprs ...*string) map[string]string {
	if len(names) == 0 {
		return names
	}
	used := make(map[string]string, len(names))
	for _, expr := range exprs {
		for _, ph := range namePlaceholder.FindAllString(aws.ToString(expr), -1) {
			if name, ok := names[ph]; ok {
				used[ph] = name
			}
		}
	}
	if len(used) == 0 {
		return nil
	}
	return used
}

func (d *DynamodbDataStore[T]) countQuery(ctx context.Context, input *sdk.QueryInput, limit int64) (int64, error) {
	var total int64
	p := sdk.NewQueryPaginator(d.client, input)
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("count query error: %w", err)
		}
		total += int64(out.Count)
		if limit > 0 && total >= limit {
			return limit, nil
		}
	}
	d.logger.Debug("count query", zap.Int64("count", total))
	return total, nil
}

func (d *DynamodbDataStore[T]) countScan(ctx context.Context, input *sdk.ScanInput, limit int64) (int64, error) {
	total, err := scanCount(ctx, d.client, input, limit)
	if err != nil {
		return 0, err
	}
	d.logger.Debug("count scan", zap.Int64("count", total))
	return total, nil
}

// CountTable counts every item of table with a Select=COUNT scan. It needs
// no entity type and is not subject to any scan switch.
func CountTable(ctx context.Context, client datastore.Client, table string) (int64, error) {
	return scanCount(ctx, client, &sdk.ScanInput{
		TableName: aws.String(table),
		Select:    types.SelectCount,
	}, 0)
}

func scanCount(ctx context.Context, client datastore.Client, input *sdk.ScanInput, limit int64) (int64, error) {
	var total int64
	p := sdk.NewScanPaginator(client, input)
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("count scan error: %w", err)
		}
		total += int64(out.Count)
		if limit > 0 && total >= limit {
			return limit, nil
		}
	}
	return total, nil
}

// queryInput validates expr against the table or index key schema and
// renders it. Count inputs carry no projection.
func (d *DynamodbDataStore[T]) queryInput(expr *storagemodels.QueryExpression, count bool) (*sdk.QueryInput, error) {
	if expr == nil {
		return nil, fmt.Errorf("query expression is required")
	}
	if err := d.checkKeySchema(expr); err != nil {
		return nil, err
	}

	render := *expr
	if count {
		render.Projection = nil
	}
	built, err := render.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	input := &sdk.QueryInput{
		TableName:                 aws.String(d.tableName),
		KeyConditionExpression:    built.KeyCondition(),
		FilterExpression:          built.Filter(),
		ProjectionExpression:      built.Projection(),
		ExpressionAttributeNames:  built.Names(),
		ExpressionAttributeValues: built.Values(),
		ScanIndexForward:          expr.ScanIndexForward,
		Limit:                     d.limit(expr.PageSize),
	}
	if expr.IndexName != "" {
		input.IndexName = aws.String(expr.IndexName)
	} else if expr.ConsistentRead || d.consistentReads {
		input.ConsistentRead = aws.Bool(true)
	}
	if count {
		input.Select = types.SelectCount
	}
	return input, nil
}

func (d *DynamodbDataStore[T]) scanInput(expr *storagemodels.ScanExpression, count bool) (*sdk.ScanInput, error) {
	if expr.IndexName != "" {
		if _, ok := d.md.Index(expr.IndexName); !ok {
			return nil, errors.NewMappingError(d.md.Type().String(), "unknown index %q", expr.IndexName)
		}
	}

	render := *expr
	if count {
		render.Projection = nil
	}
	built, ok, err := render.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scan expression: %w", err)
	}

	input := &sdk.ScanInput{
		TableName: aws.String(d.tableName),
		Limit:     d.limit(expr.PageSize),
	}
	if ok {
		input.FilterExpression = built.Filter()
		input.ProjectionExpression = built.Projection()
		input.ExpressionAttributeNames = built.Names()
		input.ExpressionAttributeValues = built.Values()
	}
	if expr.IndexName != "" {
		input.IndexName = aws.String(expr.IndexName)
	} else if expr.ConsistentRead || d.consistentReads {
		input.ConsistentRead = aws.Bool(true)
	}
	if count {
		input.Select = types.SelectCount
	}
	return input, nil
}

// checkKeySchema rejects conditions on attributes that are not the hash
// and range key of the targeted table or index.
func (d *DynamodbDataStore[T]) checkKeySchema(expr *storagemodels.QueryExpression) error {
	typeName := d.md.Type().String()
	hash := d.md.HashKeyAttributeName()
	rng, hasRange := d.md.RangeKeyAttributeName()
	target := "table " + d.tableName

	if expr.IndexName != "" {
		idx, ok := d.md.Index(expr.IndexName)
		if !ok {
			return errors.NewMappingError(typeName, "unknown index %q", expr.IndexName)
		}
		hash, rng, hasRange = idx.HashAttribute, idx.RangeAttribute, idx.RangeAttribute != ""
		target = "index " + expr.IndexName
	}

	if expr.HashKey.Attribute != hash {
		return errors.NewMappingError(typeName, "%s is keyed by %q, not %q", target, hash, expr.HashKey.Attribute)
	}
	if expr.RangeKey != nil && (!hasRange || expr.RangeKey.Attribute != rng) {
		return errors.NewMappingError(typeName, "%s has no range key %q", target, expr.RangeKey.Attribute)
	}
	return nil
}

func (d *DynamodbDataStore[T]) limit(pageSize int32) *int32 {
	if pageSize > 0 {
		return aws.Int32(pageSize)
	}
	if d.pageSize > 0 {
		return aws.Int32(d.pageSize)
	}
	return nil
}

func listOptions(limit int32) []storagemodels.ListOption {
	if limit > 0 {
		return []storagemodels.ListOption{storagemodels.WithLimit(int(limit))}
	}
	return nil
}
