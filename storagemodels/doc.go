/*
Package storagemodels defines the request and result structures shared by
dynamorepo's storage implementations.

Key Types:

QueryExpression:
Partition key equality with optional sort key and filter conditions:

	q := storagemodels.NewQuery("customerId", "c-1").
	    WithRange("orderId", storagemodels.RangeBeginsWith, "2025-").
	    WithFilter(expression.Name("status").Equal(expression.Value("OPEN"))).
	    WithProjection("orderId", "total").
	    WithLimit(50)

ScanExpression:
A whole-table or whole-index read, optionally filtered:

	s := storagemodels.NewScan().
	    WithFilter(expression.Name("active").Equal(expression.Value(true)))

PaginatedList:
A lazy result sequence that fetches DynamoDB pages while it is iterated:

	for order, err := range list.All(ctx) {
	    if err != nil {
	        return err
	    }
	    ...
	}

CountRequest:
Exactly one of a query expression, scan expression or native request whose
matching items should be counted.
*/
package storagemodels
