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

package testkit

import (
	"context"
	"errors"
	"sort"
	"sync"

	goset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	"github.com/tochemey/projection/readmodel"
)

type RecordKey struct {
	Kind string
	Key  string
}

type ReadModel struct {
	db        *sync.Map
	connected *atomic.Bool
}

// enforce compilation error
var _ readmodel.Store = (*ReadModel)(nil)

// NewReadModel creates an instance of ReadModel
func NewReadModel() *ReadModel {
	return &ReadModel{
		db:        &sync.Map{},
		connected: atomic.NewBool(false),
	}
}

// Connect connects the read model
// nolint
func (x *ReadModel) Connect(ctx context.Context) error {
	if x.connected.Load() {
		return nil
	}
	x.connected.Store(true)
	return nil
}

// Disconnect disconnects the read model
// nolint
func (x *ReadModel) Disconnect(ctx context.Context) error {
	if !x.connected.Load() {
		return nil
	}
	x.db.Range(func(key interface{}, _ interface{}) bool {
		x.db.Delete(key)
		return true
	})
	x.connected.Store(false)
	return nil
}

// Ping verifies a connection to the database is still alive, establishing a connection if necessary.
func (x *ReadModel) Ping(ctx context.Context) error {
	if !x.connected.Load() {
		return x.Connect(ctx)
	}
	return nil
}

// Upsert stores the given record, replacing the record bearing the same (Kind, Key) pair
// nolint
func (x *ReadModel) Upsert(_ context.Context, record *readmodel.Record) error {
	if !x.connected.Load() {
		return errors.New("read model is not connected")
	}
	if record == nil {
		return nil
	}
	x.db.Store(RecordKey{Kind: record.Kind, Key: record.Key}, record)
	return nil
}

// Get fetches the record identified by the given (kind, key) pair
// nolint
func (x *ReadModel) Get(_ context.Context, kind, key string) (*readmodel.Record, error) {
	if !x.connected.Load() {
		return nil, errors.New("read model is not connected")
	}
	value, ok := x.db.Load(RecordKey{Kind: kind, Key: key})
	if !ok {
		return nil, nil
	}
	return value.(*readmodel.Record), nil
}

// Delete removes the record identified by the given (kind, key) pair
// nolint
func (x *ReadModel) Delete(_ context.Context, kind, key string) error {
	if !x.connected.Load() {
		return errors.New("read model is not connected")
	}
	x.db.Delete(RecordKey{Kind: kind, Key: key})
	return nil
}

// Kinds returns the distinct kinds present in the read model
// nolint
func (x *ReadModel) Kinds(_ context.Context) ([]string, error) {
	if !x.connected.Load() {
		return nil, errors.New("read model is not connected")
	}

	set := goset.NewSet[string]()
	x.db.Range(func(key interface{}, _ interface{}) bool {
		set.Add(key.(RecordKey).Kind)
		return true
	})

	if set.Cardinality() == 0 {
		return nil, nil
	}

	kinds := set.ToSlice()
	sort.SliceStable(kinds, func(i, j int) bool {
		return kinds[i] <= kinds[j]
	})
	return kinds, nil
}

// All fetches all the records of the given kind sorted by key
// nolint
func (x *ReadModel) All(_ context.Context, kind string) ([]*readmodel.Record, error) {
	if !x.connected.Load() {
		return nil, errors.New("read model is not connected")
	}

	var records []*readmodel.Record
	x.db.Range(func(key interface{}, value interface{}) bool {
		if key.(RecordKey).Kind == kind {
			records = append(records, value.(*readmodel.Record))
		}
		return true
	})

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Key <= records[j].Key
	})
	return records, nil
}
