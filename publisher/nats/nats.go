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

package nats

import (
	"context"
	"fmt"

	"github.com/flowchartsman/retry"
	natsclient "github.com/nats-io/nats.go"
	"github.com/tochemey/goakt/v2/log"
	"go.uber.org/atomic"

	"github.com/tochemey/projection"
	"github.com/tochemey/projection/publisher"
)

// Relay is a projection that republishes every event it receives to a NATS
// JetStream subject. It composes with other projections like any side effect:
// chain it with AndThen to mirror handled events onto the wire, or use it as
// an OrElse fallback.
type Relay[E any] struct {
	projection.Projection[E]

	config     *Config
	codec      publisher.Codec[E]
	logger     log.Logger
	started    *atomic.Bool
	connection *natsclient.Conn
	jetStream  natsclient.JetStream
}

// enforce the complete implementation of the Relay interface
var _ publisher.Relay[any] = (*Relay[any])(nil)

// NewRelay creates an instance of Relay bearing the given name. The relay
// handler accepts every event, encodes it with the given codec and publishes
// the payload to the configured subject. Options apply to the underlying
// projection, WithFailureHandler for instance.
func NewRelay[E any](name string, config *Config, codec publisher.Codec[E], opts ...projection.Option[E]) (*Relay[E], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// TODO: add additional configuration options
	natsOptions := natsclient.GetDefaultOptions()
	natsOptions.Url = config.NatsServer
	natsOptions.ReconnectWait = config.ReconnectWait
	natsOptions.MaxReconnect = -1
	if config.TLS != nil {
		natsOptions.Secure = true
		natsOptions.TLSConfig = config.TLS
	}
	for _, opt := range config.ClientOptions {
		if err := opt(&natsOptions); err != nil {
			return nil, err
		}
	}

	var (
		connection *natsclient.Conn
		err        error
	)

	// let us connect using an exponential backoff mechanism
	retrier := retry.NewRetrier(config.MaxJoinAttempts, config.ReconnectWait, config.ReconnectWait)
	err = retrier.Run(func() error {
		connection, err = natsOptions.Connect()
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	jetStream, err := connection.JetStream()
	if err != nil {
		return nil, err
	}

	if _, err := jetStream.AddStream(&natsclient.StreamConfig{
		Name:     config.StreamName,
		Subjects: []string{config.NatsSubject},
	}); err != nil {
		return nil, err
	}

	relay := &Relay[E]{
		config:     config,
		codec:      codec,
		logger:     config.Logger,
		started:    atomic.NewBool(true),
		connection: connection,
		jetStream:  jetStream,
	}

	handler := projection.NewEventHandler[E](
		func(E) bool { return true },
		relay.publish,
	)
	relay.Projection = projection.New[E](name, handler, opts...)
	return relay, nil
}

// Close closes the relay connection to the NATS server. Events delivered
// afterwards fail with ErrRelayNotStarted.
func (x *Relay[E]) Close(context.Context) error {
	x.started.Store(false)
	if err := x.connection.Drain(); err != nil {
		return err
	}
	x.connection.Close()
	return nil
}

// publish encodes the given event and sends it to the configured subject
func (x *Relay[E]) publish(_ context.Context, event E) error {
	if !x.started.Load() {
		return publisher.ErrRelayNotStarted
	}

	payload, err := x.codec.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode the event: %w", err)
	}

	if _, err := x.jetStream.Publish(x.config.NatsSubject, payload); err != nil {
		return fmt.Errorf("failed to publish the event to subject=%s: %w", x.config.NatsSubject, err)
	}
	return nil
}
