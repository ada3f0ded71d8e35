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

package testkit

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/tochemey/projection"
)

// Recorder captures the events a projection handled so that tests can assert
// on the side effects that actually ran. It is safe for concurrent use.
type Recorder[E any] struct {
	mu     sync.Mutex
	events []E
	count  *atomic.Int64
}

// NewRecorder creates an instance of Recorder
func NewRecorder[E any]() *Recorder[E] {
	return &Recorder[E]{
		count: atomic.NewInt64(0),
	}
}

// Record captures the given event
func (x *Recorder[E]) Record(event E) {
	x.mu.Lock()
	x.events = append(x.events, event)
	x.mu.Unlock()
	x.count.Inc()
}

// Events returns a copy of the captured events in capture order
func (x *Recorder[E]) Events() []E {
	x.mu.Lock()
	defer x.mu.Unlock()
	out := make([]E, len(x.events))
	copy(out, x.events)
	return out
}

// Count returns the number of captured events
func (x *Recorder[E]) Count() int {
	return int(x.count.Load())
}

// Reset drops the captured events
func (x *Recorder[E]) Reset() {
	x.mu.Lock()
	x.events = nil
	x.mu.Unlock()
	x.count.Store(0)
}

// Handler returns an event handler defined at every event that records each
// event it is given and always succeeds.
func (x *Recorder[E]) Handler() projection.EventHandler[E] {
	return projection.NewSyncEventHandler[E](
		func(E) bool { return true },
		x.Record,
	)
}
