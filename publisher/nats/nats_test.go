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
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	natsclient "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tochemey/goakt/v2/log"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tochemey/projection"
	"github.com/tochemey/projection/publisher"
	"github.com/tochemey/projection/testkit"
)

func TestEmbeddedServer(t *testing.T) {
	t.Run("with start and stop", func(t *testing.T) {
		ctx := context.TODO()
		server, err := NewServer()
		require.NoError(t, err)
		require.NotNil(t, server)

		require.NoError(t, server.Start(ctx))
		assert.ErrorIs(t, server.Start(ctx), ErrServerAlreadyStarted)

		conn, err := server.Connect()
		require.NoError(t, err)
		require.NotNil(t, conn)
		conn.Close()

		require.NoError(t, server.Stop())
		assert.ErrorIs(t, server.Stop(), ErrServerNotStarted)
	})
	t.Run("with a connection to a stopped server", func(t *testing.T) {
		server, err := NewServer()
		require.NoError(t, err)

		conn, err := server.Connect()
		assert.ErrorIs(t, err, ErrServerNotStarted)
		assert.Nil(t, conn)
	})
}

func TestRelay(t *testing.T) {
	t.Run("with a json relay", func(t *testing.T) {
		ctx := context.TODO()
		server, err := NewServer()
		require.NoError(t, err)
		require.NoError(t, server.Start(ctx))

		config := &Config{
			NatsServer:    natsclient.DefaultURL,
			NatsSubject:   "accounts.events",
			ClientOptions: []natsclient.Option{server.ClientOption()},
			Logger:        log.DiscardLogger,
		}

		relay, err := NewRelay[*accountEvent]("accounts-relay", config, publisher.NewJSONCodec[*accountEvent]())
		require.NoError(t, err)
		require.NotNil(t, relay)
		assert.Equal(t, "accounts-relay", relay.Name())

		conn, err := server.Connect()
		require.NoError(t, err)
		jetStream, err := conn.JetStream()
		require.NoError(t, err)
		subscription, err := jetStream.SubscribeSync("accounts.events")
		require.NoError(t, err)

		require.NoError(t, relay.OnEvent(ctx, &accountEvent{AccountID: "account-1", Amount: 500}))

		message, err := subscription.NextMsg(time.Second)
		require.NoError(t, err)
		decoded := new(accountEvent)
		require.NoError(t, jsoniter.ConfigFastest.Unmarshal(message.Data, decoded))
		assert.Equal(t, "account-1", decoded.AccountID)
		assert.EqualValues(t, 500, decoded.Amount)

		require.NoError(t, subscription.Unsubscribe())
		conn.Close()
		require.NoError(t, relay.Close(ctx))
		require.NoError(t, server.Stop())
	})
	t.Run("with a relay composed with a recorder", func(t *testing.T) {
		ctx := context.TODO()
		server, err := NewServer()
		require.NoError(t, err)
		require.NoError(t, server.Start(ctx))

		config := &Config{
			NatsServer:    natsclient.DefaultURL,
			NatsSubject:   "ledger.events",
			ClientOptions: []natsclient.Option{server.ClientOption()},
			Logger:        log.DiscardLogger,
		}

		relay, err := NewRelay[*accountEvent]("ledger-relay", config, publisher.NewJSONCodec[*accountEvent]())
		require.NoError(t, err)

		recorder := testkit.NewRecorder[*accountEvent]()
		pipeline := projection.New[*accountEvent]("recorder", recorder.Handler()).AndThen(relay)
		assert.Equal(t, "recorder-and-then-ledger-relay", pipeline.Name())

		conn, err := server.Connect()
		require.NoError(t, err)
		jetStream, err := conn.JetStream()
		require.NoError(t, err)
		subscription, err := jetStream.SubscribeSync("ledger.events")
		require.NoError(t, err)

		require.NoError(t, pipeline.OnEvent(ctx, &accountEvent{AccountID: "account-2", Amount: 120}))

		// the recorder ran first and the relay mirrored the event onto the wire
		assert.Equal(t, 1, recorder.Count())
		message, err := subscription.NextMsg(time.Second)
		require.NoError(t, err)
		decoded := new(accountEvent)
		require.NoError(t, jsoniter.ConfigFastest.Unmarshal(message.Data, decoded))
		assert.Equal(t, "account-2", decoded.AccountID)

		require.NoError(t, subscription.Unsubscribe())
		conn.Close()
		require.NoError(t, relay.Close(ctx))
		require.NoError(t, server.Stop())
	})
	t.Run("with a proto relay", func(t *testing.T) {
		ctx := context.TODO()
		server, err := NewServer()
		require.NoError(t, err)
		require.NoError(t, server.Start(ctx))

		config := &Config{
			NatsServer:    natsclient.DefaultURL,
			NatsSubject:   "payments.events",
			ClientOptions: []natsclient.Option{server.ClientOption()},
			Logger:        log.DiscardLogger,
		}

		relay, err := NewRelay[*structpb.Struct]("payments-relay", config, publisher.NewProtoCodec[*structpb.Struct]())
		require.NoError(t, err)

		conn, err := server.Connect()
		require.NoError(t, err)
		jetStream, err := conn.JetStream()
		require.NoError(t, err)
		subscription, err := jetStream.SubscribeSync("payments.events")
		require.NoError(t, err)

		event, err := structpb.NewStruct(map[string]any{"payment_id": "payment-1"})
		require.NoError(t, err)
		require.NoError(t, relay.OnEvent(ctx, event))

		message, err := subscription.NextMsg(time.Second)
		require.NoError(t, err)
		decoded := new(structpb.Struct)
		require.NoError(t, proto.Unmarshal(message.Data, decoded))
		assert.True(t, proto.Equal(event, decoded))

		require.NoError(t, subscription.Unsubscribe())
		conn.Close()
		require.NoError(t, relay.Close(ctx))
		require.NoError(t, server.Stop())
	})
	t.Run("with a closed relay", func(t *testing.T) {
		ctx := context.TODO()
		server, err := NewServer()
		require.NoError(t, err)
		require.NoError(t, server.Start(ctx))

		config := &Config{
			NatsServer:    natsclient.DefaultURL,
			NatsSubject:   "audit.events",
			ClientOptions: []natsclient.Option{server.ClientOption()},
			Logger:        log.DiscardLogger,
		}

		relay, err := NewRelay[*accountEvent]("audit-relay", config, publisher.NewJSONCodec[*accountEvent]())
		require.NoError(t, err)
		require.NoError(t, relay.Close(ctx))

		err = relay.OnEvent(ctx, &accountEvent{AccountID: "account-3"})
		assert.ErrorIs(t, err, publisher.ErrRelayNotStarted)

		require.NoError(t, server.Stop())
	})
	t.Run("with an invalid configuration", func(t *testing.T) {
		relay, err := NewRelay[*accountEvent]("bad-relay", &Config{}, publisher.NewJSONCodec[*accountEvent]())
		assert.ErrorContains(t, err, "the nats server address is required")
		assert.Nil(t, relay)

		relay, err = NewRelay[*accountEvent]("bad-relay", &Config{NatsServer: natsclient.DefaultURL}, publisher.NewJSONCodec[*accountEvent]())
		assert.ErrorContains(t, err, "the nats subject is required")
		assert.Nil(t, relay)
	})
}

type accountEvent struct {
	AccountID string  `json:"account_id"`
	Amount    float64 `json:"amount"`
}
