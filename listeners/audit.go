/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package listeners

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/dynamorepo/events"
	"github.com/suparena/dynamorepo/registry"
)

// Audit tag values recognized on entity fields, e.g. `audit:"created_at"`.
const (
	AuditCreatedAt  = "created_at"
	AuditModifiedAt = "modified_at"
	AuditCreatedBy  = "created_by"
	AuditModifiedBy = "modified_by"
)

// AuditorAware supplies the principal recorded in created_by and
// modified_by fields. ok is false when no principal is known.
type AuditorAware interface {
	CurrentAuditor(ctx context.Context) (principal string, ok bool)
}

// AuditorFunc adapts a function to AuditorAware.
type AuditorFunc func(ctx context.Context) (string, bool)

func (f AuditorFunc) CurrentAuditor(ctx context.Context) (string, bool) { return f(ctx) }

type auditSettings struct {
	auditor AuditorAware
	now     func() time.Time
}

// AuditOption configures an Auditing listener.
type AuditOption func(*auditSettings)

// WithAuditor sets the principal provider. Without one, principal fields are left alone.
func WithAuditor(a AuditorAware) AuditOption {
	return func(s *auditSettings) { s.auditor = a }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AuditOption {
	return func(s *auditSettings) { s.now = now }
}

var (
	timeType     = reflect.TypeFor[time.Time]()
	dateTimeType = reflect.TypeFor[strfmt.DateTime]()
	int64Type    = reflect.TypeFor[int64]()
	stringType   = reflect.TypeFor[string]()
)

// Auditing stamps audit fields on BeforeSave. created_at and created_by are
// written only while empty; modified_at and modified_by on every save.
// Timestamps are UTC; int64 fields hold unix seconds.
type Auditing[T any] struct {
	events.Base[T]
	auditSettings
	fields map[string][]int
}

// NewAuditing inspects T's audit tags. It fails on unknown tag values and on
// fields whose type cannot hold the stamp.
func NewAuditing[T any](opts ...AuditOption) (*Auditing[T], error) {
	a := &Auditing[T]{
		auditSettings: auditSettings{now: time.Now},
		fields:        make(map[string][]int),
	}
	for _, opt := range opts {
		opt(&a.auditSettings)
	}

	t := registry.TypeOf[T]()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("auditing %s: not a struct", t)
	}
	for _, f := range reflect.VisibleFields(t) {
		tag, ok := f.Tag.Lookup("audit")
		if !ok {
			continue
		}
		if !f.IsExported() {
			return nil, fmt.Errorf("auditing %s: field %s is unexported", t, f.Name)
		}
		switch tag {
		case AuditCreatedAt, AuditModifiedAt:
			if !isTimeField(f.Type) {
				return nil, fmt.Errorf("auditing %s: field %s of type %s cannot hold a timestamp", t, f.Name, f.Type)
			}
		case AuditCreatedBy, AuditModifiedBy:
			if f.Type != stringType && f.Type != reflect.PointerTo(stringType) {
				return nil, fmt.Errorf("auditing %s: field %s must be a string", t, f.Name)
			}
		default:
			return nil, fmt.Errorf("auditing %s: unknown audit tag %q on %s", t, tag, f.Name)
		}
		if _, dup := a.fields[tag]; dup {
			return nil, fmt.Errorf("auditing %s: %s declared twice", t, tag)
		}
		a.fields[tag] = f.Index
	}
	return a, nil
}

// Listener binds a to T.
func (a *Auditing[T]) Listener() events.Listener { return events.Bind[T](a) }

func (a *Auditing[T]) OnBeforeSave(ctx context.Context, entity *T) error {
	v := reflect.ValueOf(entity).Elem()
	now := a.now().UTC()

	if f, ok := a.field(v, AuditCreatedAt); ok && isZeroTime(f) {
		setTime(f, now)
	}
	if f, ok := a.field(v, AuditModifiedAt); ok {
		setTime(f, now)
	}

	if a.auditor == nil {
		return nil
	}
	principal, ok := a.auditor.CurrentAuditor(ctx)
	if !ok {
		return nil
	}
	if f, ok := a.field(v, AuditCreatedBy); ok && isEmptyString(f) {
		setString(f, principal)
	}
	if f, ok := a.field(v, AuditModifiedBy); ok {
		setString(f, principal)
	}
	return nil
}

// field resolves a tagged field. Fields behind a nil embedded pointer are skipped.
func (a *Auditing[T]) field(v reflect.Value, tag string) (reflect.Value, bool) {
	idx, ok := a.fields[tag]
	if !ok {
		return reflect.Value{}, false
	}
	f, err := v.FieldByIndexErr(idx)
	if err != nil || !f.CanSet() {
		return reflect.Value{}, false
	}
	return f, true
}

func isTimeField(t reflect.Type) bool {
	switch t {
	case timeType, dateTimeType, int64Type, reflect.PointerTo(timeType), reflect.PointerTo(dateTimeType):
		return true
	}
	return false
}

func isZeroTime(v reflect.Value) bool {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}
	switch v.Type() {
	case timeType:
		return v.Interface().(time.Time).IsZero()
	case dateTimeType:
		return time.Time(v.Interface().(strfmt.DateTime)).IsZero()
	}
	return v.Int() == 0
}

func setTime(v reflect.Value, now time.Time) {
	switch v.Type() {
	case timeType:
		v.Set(reflect.ValueOf(now))
	case reflect.PointerTo(timeType):
		v.Set(reflect.ValueOf(&now))
	case dateTimeType:
		v.Set(reflect.ValueOf(strfmt.DateTime(now)))
	case reflect.PointerTo(dateTimeType):
		dt := strfmt.DateTime(now)
		v.Set(reflect.ValueOf(&dt))
	default:
		v.SetInt(now.Unix())
	}
}

func isEmptyString(v reflect.Value) bool {
	if v.Kind() == reflect.Pointer {
		return v.IsNil() || v.Elem().String() == ""
	}
	return v.String() == ""
}

func setString(v reflect.Value, s string) {
	if v.Kind() == reflect.Pointer {
		v.Set(reflect.ValueOf(&s))
		return
	}
	v.SetString(s)
}
