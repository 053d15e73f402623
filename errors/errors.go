/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an entity addressed by key does not exist
	ErrNotFound = errors.New("entity not found")

	// ErrMapping is returned when a type's key shape cannot be established
	ErrMapping = errors.New("entity mapping failed")

	// ErrNonUniqueResult is returned when a single result was expected but more were found
	ErrNonUniqueResult = errors.New("result is not unique")

	// ErrIllegalState is returned when an operation is not permitted in the current configuration
	ErrIllegalState = errors.New("illegal state")

	// ErrValidation is returned when an entity fails constraint validation
	ErrValidation = errors.New("validation failed")

	// ErrBatchWrite is returned when one or more batches of a batch write failed
	ErrBatchWrite = errors.New("batch write failed")
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MappingError reports that no identity could be established for a type,
// or that its identity declarations conflict.
type MappingError struct {
	Type   string
	Reason string
}

func (e *MappingError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("mapping error: %s", e.Reason)
	}
	return fmt.Sprintf("mapping error for %s: %s", e.Type, e.Reason)
}

func (e *MappingError) Is(target error) bool {
	return target == ErrMapping
}

// NonUniqueResultError is returned by single-result reads that observed more than one element.
type NonUniqueResultError struct {
	// Observed is the number of elements seen before giving up; it is a lower bound.
	Observed int
}

func (e *NonUniqueResultError) Error() string {
	return fmt.Sprintf("expected at most one result but found at least %d", e.Observed)
}

func (e *NonUniqueResultError) Is(target error) bool {
	return target == ErrNonUniqueResult
}

// IllegalStateError carries a literal, actionable message.
type IllegalStateError struct {
	Message string
}

func (e *IllegalStateError) Error() string {
	return e.Message
}

func (e *IllegalStateError) Is(target error) bool {
	return target == ErrIllegalState
}

// Violation is a single failed constraint.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string {
	if v.Field == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidationError aggregates every constraint violation found on an entity.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.String())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// BatchWriteError wraps the first failed batch as its cause and keeps
// every later failure as a suppressed error.
type BatchWriteError struct {
	Cause      error
	Suppressed []error
}

func (e *BatchWriteError) Error() string {
	if len(e.Suppressed) == 0 {
		return fmt.Sprintf("batch write failed: %v", e.Cause)
	}
	return fmt.Sprintf("batch write failed: %v (and %d more)", e.Cause, len(e.Suppressed))
}

func (e *BatchWriteError) Is(target error) bool {
	return target == ErrBatchWrite
}

// Unwrap exposes the cause followed by the suppressed errors to errors.Is and errors.As.
func (e *BatchWriteError) Unwrap() []error {
	out := make([]error, 0, len(e.Suppressed)+1)
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return append(out, e.Suppressed...)
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewMappingError creates a new MappingError
func NewMappingError(entityType, format string, args ...any) error {
	return &MappingError{Type: entityType, Reason: fmt.Sprintf(format, args...)}
}

// NewNonUniqueResultError creates a new NonUniqueResultError
func NewNonUniqueResultError(observed int) error {
	return &NonUniqueResultError{Observed: observed}
}

// NewIllegalStateError creates a new IllegalStateError
func NewIllegalStateError(message string) error {
	return &IllegalStateError{Message: message}
}

// NewValidationError creates a ValidationError holding a single violation
func NewValidationError(field, message string) error {
	return &ValidationError{Violations: []Violation{{Field: field, Message: message}}}
}

// NewBatchWriteError builds a BatchWriteError from failures in the order they
// were observed. It returns nil when there are none.
func NewBatchWriteError(failures ...error) error {
	var kept []error
	for _, f := range failures {
		if f != nil {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return &BatchWriteError{Cause: kept[0], Suppressed: kept[1:]}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMapping checks if an error is a mapping error
func IsMapping(err error) bool {
	return errors.Is(err, ErrMapping)
}

// IsNonUniqueResult checks if an error is a non-unique result error
func IsNonUniqueResult(err error) bool {
	return errors.Is(err, ErrNonUniqueResult)
}

// IsIllegalState checks if an error is an illegal state error
func IsIllegalState(err error) bool {
	return errors.Is(err, ErrIllegalState)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsBatchWrite checks if an error is a batch write error
func IsBatchWrite(err error) bool {
	return errors.Is(err, ErrBatchWrite)
}

var throttlingCodes = map[string]bool{
	"ThrottlingException":                    true,
	"ProvisionedThroughputExceededException": true,
	"RequestLimitExceeded":                   true,
	"LimitExceededException":                 true,
}

// IsThrottled reports whether err carries a DynamoDB throttling error code.
// Retrying is left to the caller.
func IsThrottled(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return throttlingCodes[apiErr.ErrorCode()]
}
