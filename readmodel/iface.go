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

package readmodel

import "context"

// Record represents a single read model document. A record is uniquely
// identified by its (Kind, Key) pair. The Version carries the caller's
// own versioning scheme, the store never interprets it. Writing the same
// record twice leaves the store in the same state, which makes upserts
// safe to re-apply when events are redelivered.
type Record struct {
	// Key is the unique identifier of the record within its kind
	Key string
	// Kind groups records of the same shape, an account view or
	// an audit trail entry for instance
	Kind string
	// Payload is the serialized representation of the record
	Payload []byte
	// Version is the caller-supplied version of the record
	Version uint64
	// UpdatedAt is the unix timestamp of the latest write
	UpdatedAt int64
}

// Store defines the contract needed to persist read model records.
// Event handlers write to a Store as a side effect of consuming events.
type Store interface {
	// Connect connects to the records store
	Connect(ctx context.Context) error
	// Disconnect disconnects the records store
	Disconnect(ctx context.Context) error
	// Ping verifies a connection to the database is still alive, establishing a connection if necessary.
	Ping(ctx context.Context) error
	// Upsert inserts the given record or replaces the existing record
	// bearing the same (Kind, Key) pair
	Upsert(ctx context.Context, record *Record) error
	// Get fetches the record identified by the given (kind, key) pair.
	// It returns nil when the record does not exist.
	Get(ctx context.Context, kind, key string) (*Record, error)
	// Delete removes the record identified by the given (kind, key) pair.
	// Deleting a record that does not exist is not an error.
	Delete(ctx context.Context, kind, key string) error
	// Kinds returns the distinct kinds present in the store
	Kinds(ctx context.Context) ([]string, error)
	// All fetches all the records of the given kind
	All(ctx context.Context, kind string) ([]*Record, error)
}
