/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package listeners

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/suparena/dynamorepo/events"
	"github.com/suparena/dynamorepo/logging"
	"github.com/suparena/dynamorepo/registry"
)

// Logging writes one entry per callback at a fixed level.
type Logging[T any] struct {
	logger *zap.Logger
	level  zapcore.Level
}

var _ events.Callbacks[struct{}] = (*Logging[struct{}])(nil)

func NewLogging[T any](logger *zap.Logger, level zapcore.Level) *Logging[T] {
	return &Logging[T]{
		logger: logging.OrNop(logger).Named("lifecycle").With(zap.String("entity", registry.TypeOf[T]().Name())),
		level:  level,
	}
}

// Listener binds l to T.
func (l *Logging[T]) Listener() events.Listener { return events.Bind[T](l) }

func (l *Logging[T]) log(kind events.Kind) error {
	if ce := l.logger.Check(l.level, "lifecycle event"); ce != nil {
		ce.Write(zap.String("event", kind.String()))
	}
	return nil
}

func (l *Logging[T]) OnBeforeSave(context.Context, *T) error   { return l.log(events.BeforeSave) }
func (l *Logging[T]) OnAfterSave(context.Context, *T) error    { return l.log(events.AfterSave) }
func (l *Logging[T]) OnBeforeDelete(context.Context, *T) error { return l.log(events.BeforeDelete) }
func (l *Logging[T]) OnAfterDelete(context.Context, *T) error  { return l.log(events.AfterDelete) }
func (l *Logging[T]) OnAfterLoad(context.Context, *T) error    { return l.log(events.AfterLoad) }
func (l *Logging[T]) OnAfterQuery(context.Context, *T) error   { return l.log(events.AfterQuery) }
func (l *Logging[T]) OnAfterScan(context.Context, *T) error    { return l.log(events.AfterScan) }
