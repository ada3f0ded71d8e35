/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package projection

import (
	"context"
)

// Projection consumes events and reacts to them by running side effects,
// updating a read model for instance. A projection may declare itself
// undefined for events it does not care about: delivering such an event
// resolves successfully without running anything. Projections compose with
// AndThen and OrElse into dispatch trees that are themselves projections.
//
// A projection is an immutable value. The same instance can be shared across
// multiple compositions and can process distinct events concurrently; any
// mutable state belongs to the user-supplied handlers.
type Projection[E any] interface {
	// Name returns the name of the projection
	Name() string
	// Handler returns the event handler of the projection
	Handler() EventHandler[E]
	// OnEvent delivers a single event to the projection and returns the
	// outcome of the side effects it ran. Events outside the handler's
	// domain resolve successfully as no-ops. A non-fatal handler failure the
	// projection's failure handler is defined at is replaced by the recovery
	// outcome. Panics escaping a handler are returned as a PanicError and
	// are never recovered from.
	OnEvent(ctx context.Context, event E) error
	// AndThen composes this projection with next for sequential delivery
	AndThen(next Projection[E]) Projection[E]
	// OrElse composes this projection with fallback for exclusive
	// first-match delivery
	OrElse(fallback Projection[E]) Projection[E]
}

// simpleProjection is the leaf projection wrapping a single event handler.
type simpleProjection[E any] struct {
	name      string
	handler   EventHandler[E]
	onFailure FailureHandler[E]
}

// enforce the complete implementation of the Projection interface
var _ Projection[any] = (*simpleProjection[any])(nil)

// New creates a projection with the given name and event handler. No failure
// handler is set unless WithFailureHandler is supplied, meaning every handler
// failure propagates to the caller.
func New[E any](name string, handler EventHandler[E], opts ...Option[E]) Projection[E] {
	cfg := newConfig(opts...)
	return &simpleProjection[E]{
		name:      name,
		handler:   handler,
		onFailure: cfg.onFailure,
	}
}

// Empty returns the projection whose handler is defined at no event. It is
// the identity element of composition: every delivery is a successful no-op.
func Empty[E any]() Projection[E] {
	return New[E]("empty", emptyEventHandler[E]{})
}

// Name returns the name of the projection
func (x *simpleProjection[E]) Name() string {
	return x.name
}

// Handler returns the event handler of the projection
func (x *simpleProjection[E]) Handler() EventHandler[E] {
	return x.handler
}

// OnEvent delivers a single event to the projection
func (x *simpleProjection[E]) OnEvent(ctx context.Context, event E) error {
	return dispatch[E](ctx, event, x.handler, x.onFailure)
}

// AndThen composes this projection with next for sequential delivery
func (x *simpleProjection[E]) AndThen(next Projection[E]) Projection[E] {
	return NewAndThenProjection[E](x, next)
}

// OrElse composes this projection with fallback for exclusive first-match delivery
func (x *simpleProjection[E]) OrElse(fallback Projection[E]) Projection[E] {
	return NewOrElseProjection[E](x, fallback)
}

// dispatch delivers one event through the projection contract given an event
// handler and a failure handler:
//  1. an event the handler is not defined at resolves successfully, with
//     neither the handler nor the failure handler invoked
//  2. a fatal failure, a panic escaping the handler, propagates as-is
//  3. a non-fatal failure the failure handler is defined at is replaced by
//     the recovery outcome, which may itself fail
//  4. any other failure propagates unchanged
func dispatch[E any](ctx context.Context, event E, handler EventHandler[E], onFailure FailureHandler[E]) error {
	if !handler.DefinedAt(event) {
		return nil
	}

	err := handleSafely[E](ctx, event, handler)
	switch {
	case err == nil:
		return nil
	case IsFatal(err):
		return err
	case onFailure != nil && onFailure.DefinedAt(event, err):
		return recoverSafely[E](ctx, event, err, onFailure)
	default:
		return err
	}
}

// handleSafely invokes the event handler and converts panics into errors.
func handleSafely[E any](ctx context.Context, event E, handler EventHandler[E]) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = NewPanicError(recovered)
		}
	}()

	return handler.Handle(ctx, event)
}

// recoverSafely invokes the failure handler and converts panics into errors.
func recoverSafely[E any](ctx context.Context, event E, failure error, onFailure FailureHandler[E]) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = NewPanicError(recovered)
		}
	}()

	return onFailure.Handle(ctx, event, failure)
}
