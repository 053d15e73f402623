/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package listeners

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/suparena/dynamorepo/events"
	"github.com/suparena/dynamorepo/registry"
)

// Metrics counts callbacks in dynamorepo_lifecycle_events_total, labelled
// by entity type and event kind.
type Metrics[T any] struct {
	events *prometheus.CounterVec
	entity string
}

var _ events.Callbacks[struct{}] = (*Metrics[struct{}])(nil)

// NewMetrics registers the counter with reg, or prometheus.DefaultRegisterer
// when reg is nil. Listeners for different types share one counter.
func NewMetrics[T any](reg prometheus.Registerer) (*Metrics[T], error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dynamorepo",
		Name:      "lifecycle_events_total",
		Help:      "Entity lifecycle callbacks delivered, by entity type and event",
	}, []string{"entity", "event"})

	if err := reg.Register(counter); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !stderrors.As(err, &are) {
			return nil, fmt.Errorf("register lifecycle metrics: %w", err)
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("register lifecycle metrics: %w", err)
		}
		counter = existing
	}
	return &Metrics[T]{events: counter, entity: registry.TypeOf[T]().Name()}, nil
}

// Listener binds m to T.
func (m *Metrics[T]) Listener() events.Listener { return events.Bind[T](m) }

func (m *Metrics[T]) inc(kind events.Kind) error {
	m.events.WithLabelValues(m.entity, kind.String()).Inc()
	return nil
}

func (m *Metrics[T]) OnBeforeSave(context.Context, *T) error   { return m.inc(events.BeforeSave) }
func (m *Metrics[T]) OnAfterSave(context.Context, *T) error    { return m.inc(events.AfterSave) }
func (m *Metrics[T]) OnBeforeDelete(context.Context, *T) error { return m.inc(events.BeforeDelete) }
func (m *Metrics[T]) OnAfterDelete(context.Context, *T) error  { return m.inc(events.AfterDelete) }
func (m *Metrics[T]) OnAfterLoad(context.Context, *T) error    { return m.inc(events.AfterLoad) }
func (m *Metrics[T]) OnAfterQuery(context.Context, *T) error   { return m.inc(events.AfterQuery) }
func (m *Metrics[T]) OnAfterScan(context.Context, *T) error    { return m.inc(events.AfterScan) }
