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

package websocket

import (
	"context"
	"fmt"
	"sync"

	ws "github.com/gorilla/websocket"
	"go.uber.org/atomic"

	"github.com/tochemey/projection"
	"github.com/tochemey/projection/publisher"
)

// Relay is a projection that forwards every event it receives to a websocket
// server. Compose it with other projections using AndThen or OrElse like any
// other projection.
type Relay[E any] struct {
	projection.Projection[E]

	config     *Config
	codec      publisher.Codec[E]
	started    *atomic.Bool
	writeLock  sync.Mutex
	connection *ws.Conn
}

// enforce the complete implementation of the Relay interface
var _ publisher.Relay[any] = (*Relay[any])(nil)

// NewRelay creates an instance of Relay connected to the websocket server
// defined in the given config. Events are encoded with the given codec and
// written to the connection as binary messages.
func NewRelay[E any](name string, config *Config, codec publisher.Codec[E], opts ...projection.Option[E]) (*Relay[E], error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// TODO: add support for custom dialer
	dialer := ws.DefaultDialer
	connection, _, err := dialer.Dial(config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the websocket server: %w", err)
	}

	relay := &Relay[E]{
		config:     config,
		codec:      codec,
		started:    atomic.NewBool(true),
		connection: connection,
	}

	handler := projection.NewEventHandler[E](
		func(E) bool { return true },
		relay.publish,
	)

	relay.Projection = projection.New[E](name, handler, opts...)
	return relay, nil
}

// Close disconnects from the websocket server. Any subsequent event dispatch
// fails with ErrRelayNotStarted.
func (x *Relay[E]) Close(context.Context) error {
	x.started.Store(false)
	return x.connection.Close()
}

// publish writes a single encoded event to the websocket connection. The
// connection allows at most one concurrent writer so writes are serialized.
func (x *Relay[E]) publish(_ context.Context, event E) error {
	if !x.started.Load() {
		return publisher.ErrRelayNotStarted
	}

	payload, err := x.codec.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode the event: %w", err)
	}

	x.writeLock.Lock()
	defer x.writeLock.Unlock()
	return x.connection.WriteMessage(ws.BinaryMessage, payload)
}
