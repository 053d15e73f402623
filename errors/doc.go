/*
Package errors provides semantic error types for the dynamorepo library.

Every typed error matches a sentinel through errors.Is, so callers can test
for a category without depending on the concrete type:

	var (
	    ErrNotFound        = errors.New("entity not found")
	    ErrMapping         = errors.New("entity mapping failed")
	    ErrNonUniqueResult = errors.New("result is not unique")
	    ErrIllegalState    = errors.New("illegal state")
	    ErrValidation      = errors.New("validation failed")
	    ErrBatchWrite      = errors.New("batch write failed")
	)

Usage:

	user, err := q.SingleResult(ctx)
	if err != nil {
	    if errors.IsNonUniqueResult(err) {
	        // the query matched more than one user
	    }
	    return nil, err
	}

	// Batch failures keep every cause
	var bwe *errors.BatchWriteError
	if stderrors.As(err, &bwe) {
	    log.Printf("first failure %v, %d more", bwe.Cause, len(bwe.Suppressed))
	}

Storage client failures are never retried by this library. IsThrottled
classifies DynamoDB throttling codes for callers that own a retry policy.
*/
package errors
