/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package listeners

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/suparena/dynamorepo/errors"
	"github.com/suparena/dynamorepo/events"
)

// Validating runs validate tags on BeforeSave and reports every violation
// in one ValidationError. A rejected entity is never written.
type Validating[T any] struct {
	events.Base[T]
	validate *validator.Validate
}

// NewValidating wraps v. A nil v gets a validator that reports fields by
// their dynamodbav attribute name.
func NewValidating[T any](v *validator.Validate) *Validating[T] {
	if v == nil {
		v = NewValidator()
	}
	return &Validating[T]{validate: v}
}

// NewValidator returns a validator.Validate with required struct checks
// enabled and field names taken from dynamodbav tags.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("dynamodbav"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// Listener binds l to T.
func (l *Validating[T]) Listener() events.Listener { return events.Bind[T](l) }

func (l *Validating[T]) OnBeforeSave(ctx context.Context, entity *T) error {
	err := l.validate.StructCtx(ctx, entity)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %T: %w", entity, err)
	}

	out := &errors.ValidationError{Violations: make([]errors.Violation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Violations = append(out.Violations, errors.Violation{
			Field:   fieldPath(fe.Namespace()),
			Message: violationMessage(fe),
		})
	}
	return out
}

// fieldPath drops the struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func violationMessage(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fmt.Sprintf("failed on the '%s=%s' rule", fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
}
