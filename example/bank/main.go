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
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/flowchartsman/retry"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/tochemey/goakt/v2/log"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/projection"
	"github.com/tochemey/projection/readmodel"
	"github.com/tochemey/projection/readmodel/memory"
	"github.com/tochemey/projection/testkit"
)

var json = jsoniter.ConfigFastest

const (
	balancesKind = "balances"
	alertsKind   = "alerts"
	archiveKind  = "archive"
	vipKind      = "vip"
)

type appConfig struct {
	Accounts   int     `env:"BANK_ACCOUNTS" envDefault:"3"`
	DebitLimit float64 `env:"BANK_DEBIT_LIMIT" envDefault:"1000"`
	VipAmount  float64 `env:"BANK_VIP_AMOUNT" envDefault:"500"`
	MaxRetries int     `env:"BANK_MAX_RETRIES" envDefault:"3"`
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

	// create the records store backing the read models
	store := memory.NewRecordsStore()
	// connect the records store
	if err := store.Connect(ctx); err != nil {
		logger.Fatal(err)
	}

	// balances folds every account event into a balance view. Events already
	// part of the view are skipped so that redeliveries do not double count.
	balances := projection.New[accountEvent]("balances",
		projection.NewEventHandler[accountEvent](
			func(accountEvent) bool { return true },
			func(ctx context.Context, event accountEvent) error {
				record, err := store.Get(ctx, balancesKind, event.AccountID())
				if err != nil {
					return err
				}
				view := &balanceView{AccountID: event.AccountID()}
				if record != nil {
					if err := json.Unmarshal(record.Payload, view); err != nil {
						return err
					}
				}
				if event.Seq() <= view.LastSeq {
					return nil
				}
				view.Apply(event)
				payload, err := json.Marshal(view)
				if err != nil {
					return err
				}
				return store.Upsert(ctx, &readmodel.Record{
					Key:       event.AccountID(),
					Kind:      balancesKind,
					Payload:   payload,
					Version:   view.LastSeq,
					UpdatedAt: time.Now().Unix(),
				})
			}))

	// notifier stands in for a downstream endpoint that times out on the
	// first delivery of every event and succeeds on the retry
	delivered := &sync.Map{}
	notifier := projection.New[accountEvent]("notifier",
		projection.NewEventHandler[accountEvent](
			func(accountEvent) bool { return true },
			func(_ context.Context, event accountEvent) error {
				key := fmt.Sprintf("%s-%d", event.AccountID(), event.Seq())
				if _, seen := delivered.LoadOrStore(key, true); !seen {
					return errors.New("notification endpoint timed out")
				}
				return nil
			}))

	// audit keeps every event the pipeline fully processed. It sits at the
	// tail of the composition so a failed delivery is not counted twice
	// once the retry goes through.
	recorder := testkit.NewRecorder[accountEvent]()
	audit := projection.New[accountEvent]("audit-trail", recorder.Handler())

	// fraud watches debits only, every other event is a no-op for it. The
	// failure handler turns a flagged debit into an alert record, so a
	// suspicious debit never stops the stream.
	fraud := projection.New[accountEvent]("fraud-watch",
		projection.NewTypedEventHandler[accountEvent](func(_ context.Context, event *accountDebited) error {
			if event.Amount > config.DebitLimit {
				return fmt.Errorf("debit of %.2f exceeds the %.2f limit", event.Amount, config.DebitLimit)
			}
			return nil
		}),
		projection.WithFailureHandler[accountEvent](projection.NewFailureHandler[accountEvent](
			func(accountEvent, error) bool { return true },
			func(ctx context.Context, event accountEvent, err error) error {
				payload, mErr := json.Marshal(map[string]string{
					"account_id": event.AccountID(),
					"reason":     err.Error(),
				})
				if mErr != nil {
					return mErr
				}
				return store.Upsert(ctx, &readmodel.Record{
					Key:       uuid.NewString(),
					Kind:      alertsKind,
					Payload:   payload,
					UpdatedAt: time.Now().Unix(),
				})
			})))

	// vip spots the credits big enough to upgrade the account tier
	vip := projection.New[accountEvent]("vip-upgrades",
		projection.NewEventHandler[accountEvent](
			func(event accountEvent) bool {
				credited, ok := event.(*accountCredited)
				return ok && credited.Amount >= config.VipAmount
			},
			func(ctx context.Context, event accountEvent) error {
				payload, err := json.Marshal(event)
				if err != nil {
					return err
				}
				return store.Upsert(ctx, &readmodel.Record{
					Key:       event.AccountID(),
					Kind:      vipKind,
					Payload:   payload,
					UpdatedAt: time.Now().Unix(),
				})
			}))

	// archive keeps a copy of the events no other projection claimed
	archive := projection.New[accountEvent]("archive",
		projection.NewEventHandler[accountEvent](
			func(accountEvent) bool { return true },
			func(ctx context.Context, event accountEvent) error {
				payload, err := json.Marshal(event)
				if err != nil {
					return err
				}
				return store.Upsert(ctx, &readmodel.Record{
					Key:       fmt.Sprintf("%s-%d", event.AccountID(), event.Seq()),
					Kind:      archiveKind,
					Payload:   payload,
					UpdatedAt: time.Now().Unix(),
				})
			}))

	// compose the various projections. The routing pair sends an event to
	// vip whenever vip claims it and falls back to archive otherwise.
	pipeline := balances.AndThen(notifier).AndThen(audit)
	routing := vip.OrElse(archive)
	logger.Infof("running %s", pipeline.Name())
	logger.Infof("running %s", fraud.Name())
	logger.Infof("running %s", routing.Name())

	// deliver each account stream on its own goroutine. Events of a given
	// account stay in order, accounts progress independently.
	retrier := retry.NewRetrier(config.MaxRetries, 50*time.Millisecond, time.Second)
	eg, egCtx := errgroup.WithContext(ctx)
	for _, stream := range buildStreams(config.Accounts, config.DebitLimit) {
		eg.Go(func() error {
			for _, event := range stream {
				if err := retrier.Run(func() error {
					return pipeline.OnEvent(egCtx, event)
				}); err != nil {
					return err
				}
				if err := fraud.OnEvent(egCtx, event); err != nil {
					return err
				}
				if err := routing.OnEvent(egCtx, event); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		logger.Fatal(err)
	}

	// print the resulting read models
	records, err := store.All(ctx, balancesKind)
	if err != nil {
		logger.Fatal(err)
	}
	for _, record := range records {
		view := new(balanceView)
		// Please don't ignore the error in production grid code
		_ = json.Unmarshal(record.Payload, view)
		logger.Infof("account=%s balance=%.2f", view.AccountID, view.Balance)
	}
	alerts, _ := store.All(ctx, alertsKind)
	upgrades, _ := store.All(ctx, vipKind)
	logger.Infof("%d suspicious debits flagged, %d vip upgrades, %d events audited",
		len(alerts), len(upgrades), recorder.Count())

	// disconnect the records store
	if err := store.Disconnect(ctx); err != nil {
		logger.Fatal(err)
	}
	os.Exit(0)
}

// buildStreams fabricates an ordered event stream per account. The last
// debit of every stream goes over the limit on purpose.
func buildStreams(count int, limit float64) [][]accountEvent {
	streams := make([][]accountEvent, 0, count)
	for i := 0; i < count; i++ {
		accountID := uuid.NewString()
		streams = append(streams, []accountEvent{
			&accountOpened{ID: accountID, SeqNo: 1, Deposit: 500},
			&accountCredited{ID: accountID, SeqNo: 2, Amount: 250 * float64(i+1)},
			&accountDebited{ID: accountID, SeqNo: 3, Amount: 100},
			&accountDebited{ID: accountID, SeqNo: 4, Amount: limit + 50},
		})
	}
	return streams
}

// accountEvent is implemented by every event of the account stream
type accountEvent interface {
	// AccountID returns the identifier of the account the event belongs to
	AccountID() string
	// Seq returns the position of the event within its account stream
	Seq() uint64
}

type accountOpened struct {
	ID      string  `json:"account_id"`
	SeqNo   uint64  `json:"seq"`
	Deposit float64 `json:"deposit"`
}

func (x *accountOpened) AccountID() string { return x.ID }
func (x *accountOpened) Seq() uint64       { return x.SeqNo }

type accountCredited struct {
	ID     string  `json:"account_id"`
	SeqNo  uint64  `json:"seq"`
	Amount float64 `json:"amount"`
}

func (x *accountCredited) AccountID() string { return x.ID }
func (x *accountCredited) Seq() uint64       { return x.SeqNo }

type accountDebited struct {
	ID     string  `json:"account_id"`
	SeqNo  uint64  `json:"seq"`
	Amount float64 `json:"amount"`
}

func (x *accountDebited) AccountID() string { return x.ID }
func (x *accountDebited) Seq() uint64       { return x.SeqNo }

// balanceView is the read model projected out of the account events
type balanceView struct {
	AccountID string  `json:"account_id"`
	Balance   float64 `json:"balance"`
	LastSeq   uint64  `json:"last_seq"`
}

// Apply folds the given event into the view
func (x *balanceView) Apply(event accountEvent) {
	switch evt := event.(type) {
	case *accountOpened:
		x.Balance = evt.Deposit
	case *accountCredited:
		x.Balance += evt.Amount
	case *accountDebited:
		x.Balance -= evt.Amount
	}
	x.LastSeq = event.Seq()
}
