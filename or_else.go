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

// OrElseProjection delivers every event it is defined at to exactly one of
// its two children: the first whose handler accepts the event, the second
// otherwise. The children never both run for the same event.
//
// The selected child's handler is invoked directly rather than through the
// child's OnEvent. The child's own failure handler therefore never runs for
// deliveries routed through the pair; only the failure handler of the
// OrElseProjection itself, empty unless explicitly supplied, applies to the
// outcome.
type OrElseProjection[E any] struct {
	first     Projection[E]
	second    Projection[E]
	handler   EventHandler[E]
	onFailure FailureHandler[E]
}

// enforce the complete implementation of the Projection interface
var _ Projection[any] = (*OrElseProjection[any])(nil)

// NewOrElseProjection composes first and fallback for exclusive first-match
// delivery. The children are referenced, never copied or mutated, and may be
// shared by other compositions.
func NewOrElseProjection[E any](first, fallback Projection[E], opts ...Option[E]) *OrElseProjection[E] {
	cfg := newConfig(opts...)
	return &OrElseProjection[E]{
		first:  first,
		second: fallback,
		handler: orElseHandler[E]{
			first:  first,
			second: fallback,
		},
		onFailure: cfg.onFailure,
	}
}

// Name returns the name derived from the children's names
func (x *OrElseProjection[E]) Name() string {
	return fmt.Sprintf("%s-or-then-%s", x.first.Name(), x.second.Name())
}

// Handler returns the event handler synthesized for the pair
func (x *OrElseProjection[E]) Handler() EventHandler[E] {
	return x.handler
}

// First returns the projection whose handler is tried first
func (x *OrElseProjection[E]) First() Projection[E] {
	return x.first
}

// Second returns the fallback projection
func (x *OrElseProjection[E]) Second() Projection[E] {
	return x.second
}

// OnEvent delivers a single event to the pair
func (x *OrElseProjection[E]) OnEvent(ctx context.Context, event E) error {
	return dispatch[E](ctx, event, x.handler, x.onFailure)
}

// AndThen composes this pair with next for sequential delivery
func (x *OrElseProjection[E]) AndThen(next Projection[E]) Projection[E] {
	return NewAndThenProjection[E](x, next)
}

// OrElse composes this pair with fallback for exclusive first-match delivery
func (x *OrElseProjection[E]) OrElse(fallback Projection[E]) Projection[E] {
	return NewOrElseProjection[E](x, fallback)
}

// orElseHandler is the event handler synthesized for an OrElse pair: the
// first child's raw handler with the second child's raw handler as fallback.
type orElseHandler[E any] struct {
	first  Projection[E]
	second Projection[E]
}

var _ EventHandler[any] = orElseHandler[any]{}

// DefinedAt reports whether either child accepts the given event
func (x orElseHandler[E]) DefinedAt(event E) bool {
	return composedDefinedAt[E](x.first, x.second, event)
}

// Handle invokes the raw handler of the first child defined at the event
func (x orElseHandler[E]) Handle(ctx context.Context, event E) error {
	if handler := x.first.Handler(); handler.DefinedAt(event) {
		return handler.Handle(ctx, event)
	}
	return x.second.Handler().Handle(ctx, event)
}
