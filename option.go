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

// config holds the optional settings shared by all projection variants.
type config[E any] struct {
	onFailure FailureHandler[E]
}

// newConfig creates a config with the default values and the given options
// applied.
func newConfig[E any](opts ...Option[E]) *config[E] {
	cfg := &config[E]{
		onFailure: EmptyFailureHandler[E](),
	}
	for _, opt := range opts {
		opt.Apply(cfg)
	}
	return cfg
}

// Option is the interface that applies a projection option.
type Option[E any] interface {
	// Apply sets the Option value of a config.
	Apply(config *config[E])
}

var _ Option[any] = OptionFunc[any](nil)

// OptionFunc implements the Option interface.
type OptionFunc[E any] func(config *config[E])

// Apply applies the options to the config
func (f OptionFunc[E]) Apply(c *config[E]) {
	f(c)
}

// WithFailureHandler sets the failure handler consulted when the projection's
// event handler fails with a non-fatal error.
func WithFailureHandler[E any](handler FailureHandler[E]) Option[E] {
	return OptionFunc[E](func(config *config[E]) {
		config.onFailure = handler
	})
}
