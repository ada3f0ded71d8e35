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
	"crypto/tls"
	"errors"
	"time"

	natsclient "github.com/nats-io/nats.go"
	"github.com/tochemey/goakt/v2/log"
)

const (
	defaultStreamName      = "events"
	defaultReconnectWait   = 2 * time.Second
	defaultMaxJoinAttempts = 5
)

// Config is a set of base config values required for connecting to NATS
type Config struct {
	// NatsServer is the NATS server address.
	NatsServer string
	// NatsSubject is the subject events are published to.
	NatsSubject string
	// StreamName is the name of the JetStream stream the subject is bound to.
	StreamName string
	// ReconnectWait is the wait time between connection attempts.
	ReconnectWait time.Duration
	// MaxJoinAttempts is the maximum number of connection attempts.
	MaxJoinAttempts int
	// TLS is the TLS configuration for the connection.
	TLS *tls.Config
	// ClientOptions are additional options applied to the underlying connection.
	ClientOptions []natsclient.Option
	// Logger is the logger for the relay.
	Logger log.Logger
}

// Validate validates the configuration and applies the default values
func (x *Config) Validate() error {
	if x == nil {
		return errors.New("the nats configuration is required")
	}
	if x.NatsServer == "" {
		return errors.New("the nats server address is required")
	}
	if x.NatsSubject == "" {
		return errors.New("the nats subject is required")
	}
	if x.StreamName == "" {
		x.StreamName = defaultStreamName
	}
	if x.ReconnectWait <= 0 {
		x.ReconnectWait = defaultReconnectWait
	}
	if x.MaxJoinAttempts <= 0 {
		x.MaxJoinAttempts = defaultMaxJoinAttempts
	}
	if x.Logger == nil {
		x.Logger = log.DefaultLogger
	}
	return nil
}
