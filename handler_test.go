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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestNewEventHandler(t *testing.T) {
	ctx := context.TODO()
	handled := atomic.NewInt32(0)

	handler := NewEventHandler[int](
		func(event int) bool {
			return event%2 == 0
		},
		func(_ context.Context, _ int) error {
			handled.Inc()
			return nil
		})

	assert.True(t, handler.DefinedAt(2))
	assert.False(t, handler.DefinedAt(3))

	require.NoError(t, handler.Handle(ctx, 2))
	assert.EqualValues(t, 1, handled.Load())
}

func TestNewSyncEventHandler(t *testing.T) {
	ctx := context.TODO()
	handled := atomic.NewInt32(0)

	handler := NewSyncEventHandler[int](
		func(event int) bool {
			return event > 0
		},
		func(_ int) {
			handled.Inc()
		})

	assert.True(t, handler.DefinedAt(1))
	assert.False(t, handler.DefinedAt(-1))

	// a synchronous side effect cannot fail
	require.NoError(t, handler.Handle(ctx, 1))
	assert.EqualValues(t, 1, handled.Load())
}

func TestNewTryEventHandler(t *testing.T) {
	ctx := context.TODO()

	handler := NewTryEventHandler[int](
		func(event int) bool {
			return event != 0
		},
		func(event int) error {
			if event < 0 {
				return assert.AnError
			}
			return nil
		})

	assert.True(t, handler.DefinedAt(1))
	assert.False(t, handler.DefinedAt(0))

	require.NoError(t, handler.Handle(ctx, 1))
	err := handler.Handle(ctx, -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNewTypedEventHandler(t *testing.T) {
	ctx := context.TODO()
	amounts := atomic.NewInt32(0)

	handler := NewTypedEventHandler[any, accountCredited](
		func(_ context.Context, event accountCredited) error {
			amounts.Add(int32(event.amount))
			return nil
		})

	assert.True(t, handler.DefinedAt(accountCredited{amount: 10}))
	assert.False(t, handler.DefinedAt(accountDebited{amount: 10}))
	assert.False(t, handler.DefinedAt("credited"))
	assert.False(t, handler.DefinedAt(nil))

	require.NoError(t, handler.Handle(ctx, accountCredited{amount: 10}))
	assert.EqualValues(t, 10, amounts.Load())
}

func TestNewFailureHandler(t *testing.T) {
	ctx := context.TODO()
	recovered := atomic.NewInt32(0)

	handler := NewFailureHandler[any](
		func(event any, err error) bool {
			return isCredited(event) && err != nil
		},
		func(_ context.Context, _ any, _ error) error {
			recovered.Inc()
			return nil
		})

	assert.True(t, handler.DefinedAt(accountCredited{amount: 10}, assert.AnError))
	assert.False(t, handler.DefinedAt(accountDebited{amount: 10}, assert.AnError))
	assert.False(t, handler.DefinedAt(accountCredited{amount: 10}, nil))

	require.NoError(t, handler.Handle(ctx, accountCredited{amount: 10}, assert.AnError))
	assert.EqualValues(t, 1, recovered.Load())
}

func TestEmptyFailureHandler(t *testing.T) {
	handler := EmptyFailureHandler[any]()

	assert.False(t, handler.DefinedAt(accountCredited{amount: 10}, assert.AnError))
	assert.False(t, handler.DefinedAt(nil, nil))
	assert.False(t, handler.DefinedAt("credited", assert.AnError))
}
