/*
Package registry caches entity metadata for dynamorepo.

Describe introspects a domain type once, resolves its primary key shape and
publishes an immutable EntityMetadata that every later call returns as the
same pointer:

	md, err := registry.Describe[Order]()
	if err != nil {
	    return err // a MappingError, not cached
	}
	md.TableName()             // "Order" unless overridden
	md.HashKeyAttributeName()  // "customerId"
	md.RangeKeyAttributeName() // "orderId", true

Table names default to the Go type name. A type can implement TableNamer,
or the application can register an override:

	registry.RegisterTableName[Order]("orders")

The registry is safe for concurrent use. Concurrent first calls for one
type share a single computation. Metadata is rebuilt only by discarding the
entry with Forget.
*/
package registry
