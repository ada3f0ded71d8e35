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
	"github.com/hashicorp/go-memdb"

	"github.com/tochemey/projection/readmodel"
)

// record represents the read model row
// This matches the RDBMS counter-part.
type record struct {
	// Ordering basically used as PK
	Ordering string
	// Kind groups records of the same shape
	Kind string
	// Key is the record key within its kind
	Key string
	// Specifies the record byte array
	Payload []byte
	// Specifies the record version
	Version uint64
	// Specifies the time the record has been persisted
	UpdatedAt int64
}

// toRecord converts a row into a read model record
func (x record) toRecord() *readmodel.Record {
	return &readmodel.Record{
		Key:       x.Key,
		Kind:      x.Kind,
		Payload:   x.Payload,
		Version:   x.Version,
		UpdatedAt: x.UpdatedAt,
	}
}

const (
	recordsTableName = "records_store"
	recordsPK        = "id"
	kindIndex        = "kind"
	kindKeyIndex     = "kindKey"
	versionIndex     = "version"
	updatedAtIndex   = "updatedAt"
)

var (
	// recordsSchema defines the read model schema
	recordsSchema = &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			recordsTableName: {
				Name: recordsTableName,
				Indexes: map[string]*memdb.IndexSchema{
					recordsPK: {
						Name:         recordsPK,
						AllowMissing: false,
						Unique:       true,
						Indexer: &memdb.StringFieldIndex{
							Field:     "Ordering",
							Lowercase: false,
						},
					},
					kindIndex: {
						Name:         kindIndex,
						AllowMissing: false,
						Unique:       false,
						Indexer: &memdb.StringFieldIndex{
							Field:     "Kind",
							Lowercase: false,
						},
					},
					kindKeyIndex: {
						Name:         kindKeyIndex,
						AllowMissing: false,
						Unique:       true,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.StringFieldIndex{
									Field:     "Kind",
									Lowercase: false,
								},
								&memdb.StringFieldIndex{
									Field:     "Key",
									Lowercase: false,
								},
							},
						},
					},
					versionIndex: {
						Name:         versionIndex,
						AllowMissing: false,
						Unique:       false,
						Indexer: &memdb.UintFieldIndex{
							Field: "Version",
						},
					},
					updatedAtIndex: {
						Name:         updatedAtIndex,
						AllowMissing: false,
						Unique:       false,
						Indexer: &memdb.IntFieldIndex{
							Field: "UpdatedAt",
						},
					},
				},
			},
		},
	}
)
