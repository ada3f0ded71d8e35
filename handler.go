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

// EventHandler runs the side effects of a projection for the events it
// recognizes. It is a partial function: DefinedAt reports whether an event
// belongs to the handler's domain without invoking it, and Handle may only
// be called for events DefinedAt accepts.
type EventHandler[E any] interface {
	// DefinedAt reports whether the handler accepts the given event
	DefinedAt(event E) bool
	// Handle runs the handler side effect for the given event
	Handle(ctx context.Context, event E) error
}

// FailureHandler recovers from the non-fatal failure of an event handler. It
// is a partial function over the (event, error) pair; when it is defined for
// a failure its outcome replaces the original one.
type FailureHandler[E any] interface {
	// DefinedAt reports whether the handler recovers from the given event
	// and error pair
	DefinedAt(event E, err error) bool
	// Handle runs the recovery side effect. Its outcome becomes the final
	// result of the delivery and may itself fail
	Handle(ctx context.Context, event E, err error) error
}

// funcEventHandler adapts a match predicate and a handle function into an
// EventHandler.
type funcEventHandler[E any] struct {
	match  func(event E) bool
	handle func(ctx context.Context, event E) error
}

// enforce the complete implementation of the EventHandler interface
var _ EventHandler[any] = (*funcEventHandler[any])(nil)

// DefinedAt reports whether the handler accepts the given event
func (x *funcEventHandler[E]) DefinedAt(event E) bool {
	return x.match(event)
}

// Handle runs the handler side effect for the given event
func (x *funcEventHandler[E]) Handle(ctx context.Context, event E) error {
	return x.handle(ctx, event)
}

// NewEventHandler creates an EventHandler defined exactly where match returns
// true. The handle function is invoked as-is and its error is the outcome of
// the handler.
func NewEventHandler[E any](match func(event E) bool, handle func(ctx context.Context, event E) error) EventHandler[E] {
	return &funcEventHandler[E]{
		match:  match,
		handle: handle,
	}
}

// NewSyncEventHandler creates an EventHandler from a synchronous side effect
// that cannot fail. The returned handler succeeds for every event it accepts.
func NewSyncEventHandler[E any](match func(event E) bool, handle func(event E)) EventHandler[E] {
	return &funcEventHandler[E]{
		match: match,
		handle: func(_ context.Context, event E) error {
			handle(event)
			return nil
		},
	}
}

// NewTryEventHandler creates an EventHandler from a side effect returning a
// plain error. A non-nil error becomes the failed outcome of the handler.
func NewTryEventHandler[E any](match func(event E) bool, handle func(event E) error) EventHandler[E] {
	return &funcEventHandler[E]{
		match: match,
		handle: func(_ context.Context, event E) error {
			return handle(event)
		},
	}
}

// NewTypedEventHandler creates an EventHandler defined exactly for the events
// whose dynamic type is T.
func NewTypedEventHandler[E any, T any](handle func(ctx context.Context, event T) error) EventHandler[E] {
	return &funcEventHandler[E]{
		match: func(event E) bool {
			_, ok := any(event).(T)
			return ok
		},
		handle: func(ctx context.Context, event E) error {
			return handle(ctx, any(event).(T))
		},
	}
}

// funcFailureHandler adapts a match predicate and a recovery function into a
// FailureHandler.
type funcFailureHandler[E any] struct {
	match  func(event E, err error) bool
	handle func(ctx context.Context, event E, err error) error
}

// enforce the complete implementation of the FailureHandler interface
var _ FailureHandler[any] = (*funcFailureHandler[any])(nil)

// DefinedAt reports whether the handler recovers from the given event and error pair
func (x *funcFailureHandler[E]) DefinedAt(event E, err error) bool {
	return x.match(event, err)
}

// Handle runs the recovery side effect
func (x *funcFailureHandler[E]) Handle(ctx context.Context, event E, err error) error {
	return x.handle(ctx, event, err)
}

// NewFailureHandler creates a FailureHandler defined exactly where match
// returns true.
func NewFailureHandler[E any](match func(event E, err error) bool, handle func(ctx context.Context, event E, err error) error) FailureHandler[E] {
	return &funcFailureHandler[E]{
		match:  match,
		handle: handle,
	}
}

// emptyEventHandler is the event handler defined at no event.
type emptyEventHandler[E any] struct{}

var _ EventHandler[any] = emptyEventHandler[any]{}

// DefinedAt always reports false
func (emptyEventHandler[E]) DefinedAt(E) bool {
	return false
}

// Handle is never invoked through the projection dispatch
func (emptyEventHandler[E]) Handle(context.Context, E) error {
	return nil
}

// emptyFailureHandler is the failure handler defined at no failure.
type emptyFailureHandler[E any] struct{}

var _ FailureHandler[any] = emptyFailureHandler[any]{}

// DefinedAt always reports false
func (emptyFailureHandler[E]) DefinedAt(E, error) bool {
	return false
}

// Handle is never invoked through the projection dispatch
func (emptyFailureHandler[E]) Handle(context.Context, E, error) error {
	return nil
}

// EmptyFailureHandler returns the failure handler that recovers from nothing.
// It is the default failure handler of every projection.
func EmptyFailureHandler[E any]() FailureHandler[E] {
	return emptyFailureHandler[E]{}
}
