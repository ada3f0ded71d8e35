/*
 * MIT License
 *
 * Copyright (c) 2023-2025 Tochemey
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

package main

import (
	"context"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	natsclient "github.com/nats-io/nats.go"
	"github.com/tochemey/goakt/v2/log"
	"go.uber.org/multierr"

	"github.com/tochemey/projection"
	"github.com/tochemey/projection/publisher"
	"github.com/tochemey/projection/publisher/nats"
	"github.com/tochemey/projection/testkit"
)

var json = jsoniter.ConfigFastest

type appConfig struct {
	Subject   string `env:"RELAY_SUBJECT" envDefault:"bank.transfers"`
	Transfers int    `env:"RELAY_TRANSFERS" envDefault:"5"`
}

func main() {
	// create the go context
	ctx := context.Background()
	// create the logger
	logger := log.New(log.InfoLevel, os.Stdout)

	// load the configuration from the environment
	config := &appConfig{}
	if err := env.Parse(config); err != nil {
		logger.Fatal(err)
	}

	// spin up the embedded nats server
	server, err := nats.NewServer()
	if err != nil {
		logger.Fatal(err)
	}
	if err := server.Start(ctx); err != nil {
		logger.Fatal(err)
	}

	// create a relay connected to the embedded server
	relay, err := nats.NewRelay[*transfer]("transfers-relay", &nats.Config{
		NatsServer:    natsclient.DefaultURL,
		NatsSubject:   config.Subject,
		ClientOptions: []natsclient.Option{server.ClientOption()},
		Logger:        logger,
	}, publisher.NewJSONCodec[*transfer]())
	if err != nil {
		logger.Fatal(err)
	}

	// the pipeline records every transfer before handing it to the relay
	recorder := testkit.NewRecorder[*transfer]()
	pipeline := projection.New[*transfer]("ledger", recorder.Handler()).AndThen(relay)
	logger.Infof("running %s", pipeline.Name())

	// subscribe to the relayed subject
	connection, err := server.Connect()
	if err != nil {
		logger.Fatal(err)
	}
	jetStream, err := connection.JetStream()
	if err != nil {
		logger.Fatal(err)
	}
	subscription, err := jetStream.SubscribeSync(config.Subject)
	if err != nil {
		logger.Fatal(err)
	}

	// run some transfers through the pipeline
	for i := 0; i < config.Transfers; i++ {
		event := &transfer{
			TransferID: uuid.NewString(),
			From:       "treasury",
			To:         uuid.NewString(),
			Amount:     100 * float64(i+1),
		}
		if err := pipeline.OnEvent(ctx, event); err != nil {
			logger.Fatal(err)
		}
	}

	// read the relayed transfers back from the broker
	for i := 0; i < config.Transfers; i++ {
		message, err := subscription.NextMsg(time.Second)
		if err != nil {
			logger.Fatal(err)
		}
		event := new(transfer)
		if err := json.Unmarshal(message.Data, event); err != nil {
			logger.Fatal(err)
		}
		logger.Infof("transfer %s: %s -> %s amount=%.2f", event.TransferID, event.From, event.To, event.Amount)
	}
	logger.Infof("%d transfers relayed", recorder.Count())

	// tear everything down
	// Please don't ignore the error in production grid code
	_ = subscription.Unsubscribe()
	connection.Close()
	if err := multierr.Combine(relay.Close(ctx), server.Stop()); err != nil {
		logger.Fatal(err)
	}
	os.Exit(0)
}

// transfer is the event relayed to the broker
type transfer struct {
	TransferID string  `json:"transfer_id"`
	From       string  `json:"from"`
	To         string  `json:"to"`
	Amount     float64 `json:"amount"`
}
