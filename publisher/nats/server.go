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
	"errors"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	natsclient "github.com/nats-io/nats.go"
	"github.com/tochemey/goakt/v2/log"
	"go.uber.org/atomic"
)

var (
	// ErrServerNotStarted is returned when the embedded server is not started
	ErrServerNotStarted = errors.New("embedded nats server not started")
	// ErrServerStartFailure is returned when the embedded server fails to start
	ErrServerStartFailure = errors.New("embedded nats server failed to start")
	// ErrServerAlreadyStarted is returned when the embedded server is already started
	ErrServerAlreadyStarted = errors.New("embedded nats server already started")
)

// Server is an embedded NATS JetStream broker serving client connections in
// process. It backs local development and tests where an external broker is
// not available.
type Server struct {
	server *natsserver.Server
	logger log.Logger

	started      *atomic.Bool
	startTimeout time.Duration
}

// NewServer creates an instance of Server
func NewServer() (*Server, error) {
	// TODO: add optional params to overwrite these default settings
	embedded := &Server{
		logger:       log.DefaultLogger,
		started:      atomic.NewBool(false),
		startTimeout: 5 * time.Second,
	}

	server, err := natsserver.NewServer(&natsserver.Options{
		DontListen: true,
		JetStream:  true,
		Logtime:    true,
		NoLog:      false,
	})
	if err != nil {
		return nil, err
	}

	debugFlag := embedded.logger.LogLevel() == log.DebugLevel
	server.SetLogger(newNLogger(embedded.logger), debugFlag, false)
	embedded.server = server

	return embedded, nil
}

// Start starts the embedded server
// nolint
func (x *Server) Start(ctx context.Context) error {
	x.logger.Info("starting the embedded nats server...")
	if x.started.Load() {
		return ErrServerAlreadyStarted
	}

	x.server.Start()
	if !x.server.ReadyForConnections(x.startTimeout) {
		x.logger.Error("embedded nats server failed to start")
		return ErrServerStartFailure
	}

	x.started.Store(true)
	x.logger.Info("embedded nats server started successfully")
	return nil
}

// Stop stops the embedded server
func (x *Server) Stop() error {
	x.logger.Info("stopping the embedded nats server...")
	if !x.started.Load() {
		return ErrServerNotStarted
	}

	x.server.Shutdown()
	x.started.Store(false)
	return nil
}

// Connect opens a client connection served in process
func (x *Server) Connect() (*natsclient.Conn, error) {
	if !x.started.Load() {
		return nil, ErrServerNotStarted
	}
	return natsclient.Connect("", natsclient.InProcessServer(x.server))
}

// ClientOption returns the client option routing a connection through the
// in-process transport. It is meant to be set on the relay Config when the
// relay publishes to an embedded server.
func (x *Server) ClientOption() natsclient.Option {
	return natsclient.InProcessServer(x.server)
}
