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
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/projection/readmodel"
)

func TestRecordsStore(t *testing.T) {
	t.Run("testNew", func(t *testing.T) {
		recordsStore := NewRecordsStore()
		assert.NotNil(t, recordsStore)
		var p interface{} = recordsStore
		_, ok := p.(readmodel.Store)
		assert.True(t, ok)
	})
	t.Run("testConnect", func(t *testing.T) {
		ctx := context.TODO()
		store := NewRecordsStore()
		assert.NotNil(t, store)
		err := store.Connect(ctx)
		assert.NoError(t, err)
	})
	t.Run("testPing", func(t *testing.T) {
		ctx := context.TODO()
		store := NewRecordsStore()
		assert.NotNil(t, store)

		// pinging a disconnected store connects it
		err := store.Ping(ctx)
		assert.NoError(t, err)

		err = store.Upsert(ctx, &readmodel.Record{
			Key:       "account-1",
			Kind:      "account",
			Payload:   []byte(`{"balance": 50}`),
			Version:   1,
			UpdatedAt: time.Now().Unix(),
		})
		assert.NoError(t, err)

		err = store.Disconnect(ctx)
		assert.NoError(t, err)
	})
	t.Run("testUpsert", func(t *testing.T) {
		ctx := context.TODO()
		store := NewRecordsStore()
		assert.NotNil(t, store)
		require.NoError(t, store.Connect(ctx))

		inserted := &readmodel.Record{
			Key:       "account-1",
			Kind:      "account",
			Payload:   []byte(`{"balance": 50}`),
			Version:   1,
			UpdatedAt: time.Now().Unix(),
		}
		err := store.Upsert(ctx, inserted)
		assert.NoError(t, err)

		// fetch the data we insert back
		actual, err := store.Get(ctx, "account", "account-1")
		assert.NoError(t, err)
		assert.NotNil(t, actual)
		assert.Equal(t, inserted, actual)

		// replace the record with a newer version
		updated := &readmodel.Record{
			Key:       "account-1",
			Kind:      "account",
			Payload:   []byte(`{"balance": 75}`),
			Version:   2,
			UpdatedAt: time.Now().Unix(),
		}
		err = store.Upsert(ctx, updated)
		assert.NoError(t, err)

		actual, err = store.Get(ctx, "account", "account-1")
		assert.NoError(t, err)
		assert.NotNil(t, actual)
		assert.Equal(t, updated, actual)

		// the replacement did not add a second row
		records, err := store.All(ctx, "account")
		assert.NoError(t, err)
		assert.Len(t, records, 1)

		err = store.Disconnect(ctx)
		assert.NoError(t, err)
	})
	t.Run("testGet: not found", func(t *testing.T) {
		ctx := context.TODO()
		store := NewRecordsStore()
		assert.NotNil(t, store)
		require.NoError(t, store.Connect(ctx))

		actual, err := store.Get(ctx, "account", "account-1")
		assert.NoError(t, err)
		assert.Nil(t, actual)

		err = store.Disconnect(ctx)
		assert.NoError(t, err)
	})
	t.Run("testDelete", func(t *testing.T) {
		ctx := context.TODO()
		store := NewRecordsStore()
		assert.NotNil(t, store)
		require.NoError(t, store.Connect(ctx))

		err := store.Upsert(ctx, &readmodel.Record{
			Key:       "account-1",
			Kind:      "account",
			Payload:   []byte(`{"balance": 50}`),
			Version:   1,
			UpdatedAt: time.Now().Unix(),
		})
		assert.NoError(t, err)

		err = store.Delete(ctx, "account", "account-1")
		assert.NoError(t, err)

		actual, err := store.Get(ctx, "account", "account-1")
		assert.NoError(t, err)
		assert.Nil(t, actual)

		// deleting a record that does not exist is not an error
		err = store.Delete(ctx, "account", "account-1")
		assert.NoError(t, err)

		err = store.Disconnect(ctx)
		assert.NoError(t, err)
	})
	t.Run("testKinds", func(t *testing.T) {
		ctx := context.TODO()
		store := NewRecordsStore()
		assert.NotNil(t, store)
		require.NoError(t, store.Connect(ctx))

		count := 3
		for i := 0; i < count; i++ {
			err := store.Upsert(ctx, &readmodel.Record{
				Key:       fmt.Sprintf("account-%d", i),
				Kind:      "account",
				Payload:   []byte(`{}`),
				Version:   1,
				UpdatedAt: time.Now().Unix(),
			})
			assert.NoError(t, err)
		}

		err := store.Upsert(ctx, &readmodel.Record{
			Key:       "entry-1",
			Kind:      "audit",
			Payload:   []byte(`{}`),
			Version:   1,
			UpdatedAt: time.Now().Unix(),
		})
		assert.NoError(t, err)

		kinds, err := store.Kinds(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []string{"account", "audit"}, kinds)

		err = store.Disconnect(ctx)
		assert.NoError(t, err)
	})
	t.Run("testKinds: no records", func(t *testing.T) {
		ctx := context.TODO()
		store := NewRecordsStore()
		assert.NotNil(t, store)
		require.NoError(t, store.Connect(ctx))

		kinds, err := store.Kinds(ctx)
		assert.NoError(t, err)
		assert.Empty(t, kinds)

		err = store.Disconnect(ctx)
		assert.NoError(t, err)
	})
	t.Run("testAll", func(t *testing.T) {
		ctx := context.TODO()
		store := NewRecordsStore()
		assert.NotNil(t, store)
		require.NoError(t, store.Connect(ctx))

		// insert out of order to exercise the ordering of All
		keys := []string{"account-2", "account-0", "account-1"}
		for _, key := range keys {
			err := store.Upsert(ctx, &readmodel.Record{
				Key:       key,
				Kind:      "account",
				Payload:   []byte(`{}`),
				Version:   1,
				UpdatedAt: time.Now().Unix(),
			})
			assert.NoError(t, err)
		}

		records, err := store.All(ctx, "account")
		assert.NoError(t, err)
		assert.Len(t, records, 3)
		assert.Equal(t, "account-0", records[0].Key)
		assert.Equal(t, "account-1", records[1].Key)
		assert.Equal(t, "account-2", records[2].Key)

		// unknown kind yields no records
		records, err = store.All(ctx, "unknown")
		assert.NoError(t, err)
		assert.Empty(t, records)

		err = store.Disconnect(ctx)
		assert.NoError(t, err)
	})
	t.Run("testNotConnected", func(t *testing.T) {
		ctx := context.TODO()
		store := NewRecordsStore()
		assert.NotNil(t, store)

		err := store.Upsert(ctx, &readmodel.Record{Key: "account-1", Kind: "account"})
		assert.Error(t, err)

		_, err = store.Get(ctx, "account", "account-1")
		assert.Error(t, err)

		err = store.Delete(ctx, "account", "account-1")
		assert.Error(t, err)

		_, err = store.Kinds(ctx)
		assert.Error(t, err)

		_, err = store.All(ctx, "account")
		assert.Error(t, err)
	})
	t.Run("testDisconnect: records dropped", func(t *testing.T) {
		ctx := context.TODO()
		store := NewRecordsStore()
		require.NoError(t, store.Connect(ctx))

		require.NoError(t, store.Upsert(ctx, &readmodel.Record{
			Key:       "account-1",
			Kind:      "account",
			Payload:   []byte(`{"balance": 50}`),
			Version:   1,
			UpdatedAt: time.Now().Unix(),
		}))
		require.NoError(t, store.Disconnect(ctx))

		// by default the records do not survive the reconnection
		require.NoError(t, store.Connect(ctx))
		actual, err := store.Get(ctx, "account", "account-1")
		assert.NoError(t, err)
		assert.Nil(t, actual)

		err = store.Disconnect(ctx)
		assert.NoError(t, err)
	})
	t.Run("testKeepRecordsAfterDisconnect", func(t *testing.T) {
		ctx := context.TODO()
		store := NewRecordsStore()
		store.KeepRecordsAfterDisconnect = true
		require.NoError(t, store.Connect(ctx))

		inserted := &readmodel.Record{
			Key:       "account-1",
			Kind:      "account",
			Payload:   []byte(`{"balance": 50}`),
			Version:   1,
			UpdatedAt: time.Now().Unix(),
		}
		require.NoError(t, store.Upsert(ctx, inserted))
		require.NoError(t, store.Disconnect(ctx))

		// the records survive the reconnection
		require.NoError(t, store.Connect(ctx))
		actual, err := store.Get(ctx, "account", "account-1")
		assert.NoError(t, err)
		assert.Equal(t, inserted, actual)

		err = store.Disconnect(ctx)
		assert.NoError(t, err)
	})
}
