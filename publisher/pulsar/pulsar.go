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

package pulsar

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"go.uber.org/atomic"

	"github.com/tochemey/projection"
	"github.com/tochemey/projection/publisher"
)

// Relay is a projection that republishes every event it receives to a Pulsar
// topic. It composes with other projections like any side effect.
type Relay[E any] struct {
	projection.Projection[E]

	config   *Config
	codec    publisher.Codec[E]
	client   pulsar.Client
	producer pulsar.Producer
	started  *atomic.Bool
}

// enforce the complete implementation of the Relay interface
var _ publisher.Relay[any] = (*Relay[any])(nil)

// NewRelay creates an instance of Relay bearing the given name. The relay
// handler accepts every event, encodes it with the given codec and publishes
// the payload to the configured topic. Options apply to the underlying
// projection, WithFailureHandler for instance.
func NewRelay[E any](name string, config *Config, codec publisher.Codec[E], opts ...projection.Option[E]) (*Relay[E], error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// set the connection timeout and default it to 5 seconds
	connectionTimeout := config.ConnectionTimeout
	if connectionTimeout == 0 {
		connectionTimeout = 5 * time.Second
	}

	// set the keep alive and default it to 30 seconds
	keepAlive := config.KeepAlive
	if keepAlive == 0 {
		keepAlive = 30 * time.Second
	}

	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL:               config.URL,
		ConnectionTimeout: connectionTimeout,
		KeepAliveInterval: keepAlive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	// TODO: add more producer options
	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: config.Topic,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	relay := &Relay[E]{
		config:   config,
		codec:    codec,
		client:   client,
		producer: producer,
		started:  atomic.NewBool(true),
	}

	handler := projection.NewEventHandler[E](
		func(E) bool { return true },
		relay.publish,
	)
	relay.Projection = projection.New[E](name, handler, opts...)
	return relay, nil
}

// Close closes the relay connection to the Pulsar server. Events delivered
// afterwards fail with ErrRelayNotStarted.
func (x *Relay[E]) Close(context.Context) error {
	x.started.Store(false)
	x.producer.Close()
	x.client.Close()
	return nil
}

// publish encodes the given event and sends it to the configured topic
func (x *Relay[E]) publish(ctx context.Context, event E) error {
	if !x.started.Load() {
		return publisher.ErrRelayNotStarted
	}

	payload, err := x.codec.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode the event: %w", err)
	}

	if _, err := x.producer.Send(ctx, &pulsar.ProducerMessage{
		Payload: payload,
	}); err != nil {
		return fmt.Errorf("failed to publish the event to topic=%s: %w", x.config.Topic, err)
	}
	return nil
}
