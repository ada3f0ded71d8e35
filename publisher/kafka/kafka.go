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

package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/tochemey/goakt/v2/log"
	"go.uber.org/atomic"

	"github.com/tochemey/projection"
	"github.com/tochemey/projection/publisher"
)

// Relay is a projection that republishes every event it receives to a Kafka
// topic. It composes with other projections like any side effect.
type Relay[E any] struct {
	projection.Projection[E]

	config   *Config
	codec    publisher.Codec[E]
	producer sarama.SyncProducer
	logger   log.Logger
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
		return nil, err
	}

	producer, err := sarama.NewSyncProducer(config.Brokers, toSaramaConfig(config))
	if err != nil {
		return nil, err
	}

	relay := &Relay[E]{
		config:   config,
		codec:    codec,
		producer: producer,
		logger:   config.Logger,
		started:  atomic.NewBool(true),
	}

	handler := projection.NewEventHandler[E](
		func(E) bool { return true },
		relay.publish,
	)
	relay.Projection = projection.New[E](name, handler, opts...)
	return relay, nil
}

// Close closes the relay connection to the Kafka brokers. Events delivered
// afterwards fail with ErrRelayNotStarted.
func (x *Relay[E]) Close(context.Context) error {
	x.started.Store(false)
	return x.producer.Close()
}

// publish encodes the given event and sends it to the configured topic
func (x *Relay[E]) publish(_ context.Context, event E) error {
	if !x.started.Load() {
		return publisher.ErrRelayNotStarted
	}

	payload, err := x.codec.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode the event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: x.config.Topic,
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := x.producer.SendMessage(message); err != nil {
		return fmt.Errorf("failed to publish the event to topic=%s: %w", x.config.Topic, err)
	}
	return nil
}
