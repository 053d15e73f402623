/*
Package query turns repository method intents into storage requests.

Every variant implements Query[T]: ResultList returns a lazy list and
SingleResult returns nil, the only result, or a NonUniqueResultError.
Count variants are Query[int64].

	q := query.NewQueryExpressionQuery[Order](store, storagemodels.NewQuery("customerId", "c-1"))
	order, err := q.SingleResult(ctx)

Scan counts are opt-in. A ScanExpressionCountQuery fails with an
IllegalStateError carrying ScanCountDisabledMessage or
ScanCountPageDisabledMessage until its flag is set:

	q := query.NewScanExpressionCountQuery[Order](store, storagemodels.NewScan(), false)
	q.SetScanCountEnabled(true)
	n, err := q.SingleResult(ctx)

A ScanExpressionQuery runs as built. Its scan flag is advisory: the
repository checks AssertScanEnabled before running it and rejects with
ScanDisabledMessage.

Point-load counts never query: CountByHashKey loads the item and reports
1 or 0.
*/
package query
