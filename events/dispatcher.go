/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package events

import "context"

// Dispatcher delivers events to a fixed, ordered list of listeners.
// It holds no mutable state and is safe for concurrent use.
type Dispatcher struct {
	listeners []Listener
}

// NewDispatcher returns a dispatcher delivering to listeners in the given order.
func NewDispatcher(listeners ...Listener) *Dispatcher {
	ls := make([]Listener, 0, len(listeners))
	for _, l := range listeners {
		if l != nil {
			ls = append(ls, l)
		}
	}
	return &Dispatcher{listeners: ls}
}

// Listeners returns the listeners in delivery order.
func (d *Dispatcher) Listeners() []Listener {
	if d == nil {
		return nil
	}
	out := make([]Listener, len(d.listeners))
	copy(out, d.listeners)
	return out
}

// Dispatch delivers e to every listener in order and returns the first
// listener error, skipping the remaining listeners. A nil dispatcher or an
// absent payload delivers nothing.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) error {
	if d == nil {
		return nil
	}
	return Dispatch(ctx, e, d.listeners...)
}

// Dispatch delivers e to listeners in order.
func Dispatch(ctx context.Context, e Event, listeners ...Listener) error {
	if e.payload.shape == ShapeAbsent {
		return nil
	}
	mustBeWellFormed(e)
	for _, l := range listeners {
		if err := l.OnEvent(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
