/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

A DynamodbDataStore is built for one entity type. Its table name and key
schema come from the entity metadata in the registry:

	client, err := ddb.NewDynamoDBClient(ctx, cfg.AWS)
	if err != nil {
	    return err
	}
	orders, err := ddb.NewDynamodbDataStore[Order](client,
	    ddb.WithTablePrefix(cfg.Tables.Prefix),
	    ddb.WithLogger(logger),
	)

NewFromConfig does the same from a config.Config, resolving the table name
through Config.TableName.

The store supports:
  - Point loads by hash key, or hash and range key
  - Lazy, paginated queries against the table or a declared GSI
  - Filter scans
  - Counting with Select=COUNT, including pre-built native requests
  - Batch writes in chunks of 25 with per-batch failure reporting
  - Auto-generated string hash keys (ddbkey:"hash,autogenerate")

Wrapped composite keys are stored flat. For

	type OrderKey struct {
	    CustomerID string `dynamodbav:"customerId" ddbkey:"hash"`
	    OrderID    string `dynamodbav:"orderId" ddbkey:"range"`
	}

	type Order struct {
	    Key   OrderKey `ddbkey:"id"`
	    Total int64    `dynamodbav:"total"`
	}

an item carries customerId, orderId and total as top-level attributes.
Load accepts either the two key values or an OrderKey.

Nothing is retried here. Throttling and other client errors are returned
wrapped; use errors.IsThrottled to classify them.
*/
package ddb
