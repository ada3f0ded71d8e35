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

package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"go.uber.org/atomic"

	"github.com/tochemey/projection/readmodel"
)

// RecordsStore keeps in memory every read model record
// NOTE: NOT RECOMMENDED FOR PRODUCTION CODE because all records are in memory and there is no durability.
// This is recommended for tests or PoC
type RecordsStore struct {
	// specifies the underlying database
	db *memdb.MemDB
	// this is only useful for tests
	KeepRecordsAfterDisconnect bool
	// hold the connection state to avoid multiple connection of the same instance
	connected *atomic.Bool
}

// enforce the complete implementation of the Store interface
var _ readmodel.Store = (*RecordsStore)(nil)

// NewRecordsStore creates a new instance of RecordsStore
func NewRecordsStore() *RecordsStore {
	return &RecordsStore{
		KeepRecordsAfterDisconnect: false,
		connected:                  atomic.NewBool(false),
	}
}

// Connect connects to the records store
func (x *RecordsStore) Connect(_ context.Context) error {
	if x.connected.Load() {
		return nil
	}

	// reconnecting an instance keeps the database it already holds
	if x.db == nil {
		db, err := memdb.NewMemDB(recordsSchema)
		if err != nil {
			return err
		}
		x.db = db
	}
	x.connected.Store(true)

	return nil
}

// Disconnect disconnects the records store
func (x *RecordsStore) Disconnect(_ context.Context) error {
	if !x.connected.Load() {
		return nil
	}

	if !x.KeepRecordsAfterDisconnect {
		txn := x.db.Txn(true)
		if _, err := txn.DeleteAll(recordsTableName, recordsPK); err != nil {
			txn.Abort()
			return fmt.Errorf("failed to free memory resource: %w", err)
		}
		txn.Commit()
	}
	x.connected.Store(false)

	return nil
}

// Ping verifies a connection to the database is still alive, establishing a connection if necessary.
func (x *RecordsStore) Ping(ctx context.Context) error {
	if !x.connected.Load() {
		return x.Connect(ctx)
	}
	return nil
}

// Upsert inserts the given record or replaces the existing record bearing the same (Kind, Key) pair
func (x *RecordsStore) Upsert(_ context.Context, record *readmodel.Record) error {
	if !x.connected.Load() {
		return errors.New("records store is not connected")
	}

	txn := x.db.Txn(true)
	existing, err := txn.First(recordsTableName, kindKeyIndex, record.Kind, record.Key)
	if err != nil {
		txn.Abort()
		return fmt.Errorf("failed to fetch the existing record: %w", err)
	}

	// a fresh replacement row keeps the write idempotent under redelivery
	if existing != nil {
		if err := txn.Delete(recordsTableName, existing); err != nil {
			txn.Abort()
			return fmt.Errorf("failed to replace the existing record: %w", err)
		}
	}

	row := newRow(record)
	if err := txn.Insert(recordsTableName, row); err != nil {
		txn.Abort()
		return fmt.Errorf("failed to persist record on to the records store: %w", err)
	}
	txn.Commit()

	return nil
}

// Get fetches the record identified by the given (kind, key) pair
func (x *RecordsStore) Get(_ context.Context, kind, key string) (*readmodel.Record, error) {
	if !x.connected.Load() {
		return nil, errors.New("records store is not connected")
	}

	txn := x.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(recordsTableName, kindKeyIndex, kind, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch record kind=%s key=%s: %w", kind, key, err)
	}
	if raw == nil {
		return nil, nil
	}

	if row, ok := raw.(*record); ok {
		return row.toRecord(), nil
	}
	return nil, fmt.Errorf("failed to fetch record kind=%s key=%s", kind, key)
}

// Delete removes the record identified by the given (kind, key) pair
func (x *RecordsStore) Delete(_ context.Context, kind, key string) error {
	if !x.connected.Load() {
		return errors.New("records store is not connected")
	}

	txn := x.db.Txn(true)
	existing, err := txn.First(recordsTableName, kindKeyIndex, kind, key)
	if err != nil {
		txn.Abort()
		return fmt.Errorf("failed to delete record kind=%s key=%s: %w", kind, key, err)
	}
	if existing == nil {
		txn.Abort()
		return nil
	}

	if err := txn.Delete(recordsTableName, existing); err != nil {
		txn.Abort()
		return fmt.Errorf("failed to delete record kind=%s key=%s: %w", kind, key, err)
	}
	txn.Commit()

	return nil
}

// Kinds returns the distinct kinds present in the store
func (x *RecordsStore) Kinds(_ context.Context) ([]string, error) {
	if !x.connected.Load() {
		return nil, errors.New("records store is not connected")
	}

	txn := x.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(recordsTableName, recordsPK)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch the list of kinds: %w", err)
	}

	// a set yields the unique list of kinds
	set := goset.NewSet[string]()
	for raw := it.Next(); raw != nil; raw = it.Next() {
		if row, ok := raw.(*record); ok {
			set.Add(row.Kind)
		}
	}

	if set.Cardinality() == 0 {
		return nil, nil
	}

	kinds := set.ToSlice()
	sort.SliceStable(kinds, func(i, j int) bool {
		return kinds[i] <= kinds[j]
	})

	return kinds, nil
}

// All fetches all the records of the given kind
func (x *RecordsStore) All(_ context.Context, kind string) ([]*readmodel.Record, error) {
	if !x.connected.Load() {
		return nil, errors.New("records store is not connected")
	}

	txn := x.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(recordsTableName, kindIndex, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records of kind=%s: %w", kind, err)
	}

	var records []*readmodel.Record
	for raw := it.Next(); raw != nil; raw = it.Next() {
		if row, ok := raw.(*record); ok {
			records = append(records, row.toRecord())
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Key <= records[j].Key
	})

	return records, nil
}

// newRow creates a row out of a read model record
func newRow(rec *readmodel.Record) *record {
	return &record{
		Ordering:  uuid.NewString(),
		Kind:      rec.Kind,
		Key:       rec.Key,
		Payload:   rec.Payload,
		Version:   rec.Version,
		UpdatedAt: rec.UpdatedAt,
	}
}
