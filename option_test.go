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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestOptions(t *testing.T) {
	onFailure := anyFailureHandler(atomic.NewInt32(0), nil)

	testCases := []struct {
		name     string
		option   Option[any]
		expected *config[any]
	}{
		{
			name:     "WithFailureHandler",
			option:   WithFailureHandler[any](onFailure),
			expected: &config[any]{onFailure: onFailure},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := new(config[any])
			tc.option.Apply(cfg)
			assert.Equal(t, tc.expected, cfg)
		})
	}
}

func TestNewConfig(t *testing.T) {
	t.Run("with the defaults", func(t *testing.T) {
		cfg := newConfig[any]()
		require.NotNil(t, cfg)
		assert.Equal(t, EmptyFailureHandler[any](), cfg.onFailure)
	})
	t.Run("with a failure handler", func(t *testing.T) {
		onFailure := anyFailureHandler(atomic.NewInt32(0), nil)
		cfg := newConfig[any](WithFailureHandler[any](onFailure))
		require.NotNil(t, cfg)
		assert.Equal(t, onFailure, cfg.onFailure)
	})
}
