/*
Package mapping discovers the primary key shape of domain types.

Introspect turns a struct type into a normalized attribute table, reading
three struct tags plus optional accessor declarations:

	type Order struct {
	    Key      OrderKey  `ddbkey:"id"`
	    Total    float64   `dynamodbav:"total"`
	    Status   string    `dynamodbav:"status" ddbindex:"hash,ByStatus"`
	}

	type OrderKey struct {
	    CustomerID string `dynamodbav:"customerId" ddbkey:"hash"`
	    OrderID    string `dynamodbav:"orderId" ddbkey:"range"`
	}

Resolve is a pure function over that table. It yields exactly one of
SimpleHashKey, CompositeKey or WrappedCompositeKey, or a MappingError.
Precedence, highest first: an identity attribute of a carrier type, an
identity attribute of a scalar type, a hash key attribute. Within each, field
declarations beat accessor declarations. Equal precedence at the top is
reported as ambiguous.
*/
package mapping
