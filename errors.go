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
	"errors"
	"fmt"
	"runtime/debug"
)

// PanicError wraps a panic escaping an event or failure handler together with
// the stack captured at the recovery site. Panics are fatal failures: they
// propagate to the caller as-is and are never offered to a failure handler.
type PanicError struct {
	value any
	stack []byte
}

// enforce the complete implementation of the error interface
var _ error = (*PanicError)(nil)

// NewPanicError captures a recovered panic value into a PanicError.
func NewPanicError(value any) *PanicError {
	return &PanicError{
		value: value,
		stack: debug.Stack(),
	}
}

// Error formats the panic value and the captured stack.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic: %v\n%s", e.value, e.stack)
}

// Value returns the recovered panic value.
func (e *PanicError) Value() any {
	return e.value
}

// Stack returns the stack trace captured when the panic was recovered.
func (e *PanicError) Stack() []byte {
	return e.stack
}

// IsFatal reports whether err is a fatal failure, one that always propagates
// and is never eligible for failure recovery.
func IsFatal(err error) bool {
	var panicError *PanicError
	return errors.As(err, &panicError)
}
