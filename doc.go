/*
Package dynamorepo is a repository layer that maps Go structs to DynamoDB
tables.

Entity types declare their keys with struct tags. Metadata is derived once
per type and drives marshaling, key construction and query validation:

	type Order struct {
	    CustomerID string  `dynamodbav:"customerId" ddbkey:"hash"`
	    OrderID    string  `dynamodbav:"orderId" ddbkey:"range"`
	    Status     string  `dynamodbav:"status" ddbindex:"hash,ByStatus"`
	    Total      float64 `dynamodbav:"total" validate:"gte=0"`
	}

Key features:
  - Generic repositories with lifecycle events (package repository)
  - Query variants with lazy, page-at-a-time results (package query)
  - Scans and scan counts disabled until explicitly enabled
  - Auditing, validation, logging and metrics listeners (package listeners)
  - An in-memory store for tests (package datastore/mock)

Basic usage:

	cfg, err := config.Load("dynamorepo.yaml")
	if err != nil {
	    return err
	}
	orders, err := dynamorepo.OpenRepository[Order](ctx, cfg,
	    repository.WithListeners(listeners.NewValidating[Order](nil).Listener()))
	if err != nil {
	    return err
	}
	err = orders.Save(ctx, &Order{CustomerID: "c-1", OrderID: "o-1", Total: 12.5})

	repos := dynamorepo.NewRepositories()
	_ = dynamorepo.Register(repos, "primary", orders)
	orders, _ = dynamorepo.Get[Order](repos, "primary")
*/
package dynamorepo
