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
	"fmt"
)

// AndThenProjection delivers every event it is defined at to both of its
// children in order. The pair is defined whenever either child is, and each
// child is offered the event through its own OnEvent, so a child that does
// not care simply no-ops. The second child runs only once the first has
// completed successfully; a first-child failure short-circuits the pair.
//
// A pair that fails partway may already have applied the first child's side
// effect. A caller that redelivers the event after such a failure re-runs
// that side effect, so handlers composed this way must be idempotent under
// at-least-once redelivery.
type AndThenProjection[E any] struct {
	first     Projection[E]
	second    Projection[E]
	handler   EventHandler[E]
	onFailure FailureHandler[E]
}

// enforce the complete implementation of the Projection interface
var _ Projection[any] = (*AndThenProjection[any])(nil)

// NewAndThenProjection composes first and second for sequential delivery. The
// children are referenced, never copied or mutated, and may be shared by
// other compositions.
func NewAndThenProjection[E any](first, second Projection[E], opts ...Option[E]) *AndThenProjection[E] {
	cfg := newConfig(opts...)
	return &AndThenProjection[E]{
		first:  first,
		second: second,
		handler: andThenHandler[E]{
			first:  first,
			second: second,
		},
		onFailure: cfg.onFailure,
	}
}

// Name returns the name derived from the children's names
func (x *AndThenProjection[E]) Name() string {
	return fmt.Sprintf("%s-and-then-%s", x.first.Name(), x.second.Name())
}

// Handler returns the event handler synthesized for the pair
func (x *AndThenProjection[E]) Handler() EventHandler[E] {
	return x.handler
}

// First returns the projection delivered first
func (x *AndThenProjection[E]) First() Projection[E] {
	return x.first
}

// Second returns the projection delivered once First succeeded
func (x *AndThenProjection[E]) Second() Projection[E] {
	return x.second
}

// OnEvent delivers a single event to the pair
func (x *AndThenProjection[E]) OnEvent(ctx context.Context, event E) error {
	return dispatch[E](ctx, event, x.handler, x.onFailure)
}

// AndThen composes this pair with next for sequential delivery
func (x *AndThenProjection[E]) AndThen(next Projection[E]) Projection[E] {
	return NewAndThenProjection[E](x, next)
}

// OrElse composes this pair with fallback for exclusive first-match delivery
func (x *AndThenProjection[E]) OrElse(fallback Projection[E]) Projection[E] {
	return NewOrElseProjection[E](x, fallback)
}

// andThenHandler is the event handler synthesized for an AndThen pair. It
// dispatches through the children's own OnEvent so that each child applies
// its own definedness check and failure recovery.
type andThenHandler[E any] struct {
	first  Projection[E]
	second Projection[E]
}

var _ EventHandler[any] = andThenHandler[any]{}

// DefinedAt reports whether either child accepts the given event
func (x andThenHandler[E]) DefinedAt(event E) bool {
	return composedDefinedAt[E](x.first, x.second, event)
}

// Handle delivers the event to both children in order, stopping at the first failure
func (x andThenHandler[E]) Handle(ctx context.Context, event E) error {
	if err := x.first.OnEvent(ctx, event); err != nil {
		return err
	}
	return x.second.OnEvent(ctx, event)
}
