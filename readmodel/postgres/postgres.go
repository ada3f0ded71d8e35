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

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/flowchartsman/retry"
	"github.com/jackc/pgx/v5"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/tochemey/projection/internal/postgres"
	"github.com/tochemey/projection/readmodel"
)

var (
	columns = []string{
		"record_kind",
		"record_key",
		"record_payload",
		"version_number",
		"updated_at",
	}

	tableName = "records_store"
)

// RecordsStore implements the records Store interface
// and helps persist read model records in a Postgres database
type RecordsStore struct {
	db postgres.Postgres
	sb sq.StatementBuilderType
	// hold the connection state to avoid multiple connection of the same instance
	connected *atomic.Bool
}

// enforce the complete implementation of the Store interface
var _ readmodel.Store = (*RecordsStore)(nil)

// NewRecordsStore creates a new instance of RecordsStore
func NewRecordsStore(config *Config) *RecordsStore {
	// create the underlying db connection
	dbConfig := postgres.NewConfig(config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)
	if config.DBSchema != "" {
		dbConfig.DBSchema = config.DBSchema
	}
	return &RecordsStore{
		db:        postgres.New(dbConfig),
		sb:        sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		connected: atomic.NewBool(false),
	}
}

// Connect connects to the underlying postgres database
func (x *RecordsStore) Connect(ctx context.Context) error {
	// check whether this instance of the records store is connected or not
	if x.connected.Load() {
		return nil
	}

	// the database engine might still be warming up.
	// We ping it a few times in an exponential backoff mechanism before
	// failing the connection attempt.
	const (
		maxRetries   = 5
		initialDelay = 100 * time.Millisecond
		maxDelay     = time.Second
	)
	retrier := retry.NewRetrier(maxRetries, initialDelay, maxDelay)
	if err := retrier.RunContext(ctx, x.db.Connect); err != nil {
		return err
	}

	// set the connection status
	x.connected.Store(true)

	return nil
}

// Disconnect disconnects from the underlying postgres database
func (x *RecordsStore) Disconnect(ctx context.Context) error {
	// check whether this instance of the records store is connected or not
	if !x.connected.Load() {
		return nil
	}

	// disconnect the underlying database
	if err := x.db.Disconnect(ctx); err != nil {
		return err
	}
	// set the connection status
	x.connected.Store(false)

	return nil
}

// Ping verifies a connection to the database is still alive, establishing a connection if necessary.
func (x *RecordsStore) Ping(ctx context.Context) error {
	// check whether we are connected or not
	if !x.connected.Load() {
		return x.Connect(ctx)
	}

	return nil
}

// Upsert inserts the given record or replaces the existing record bearing
// the same (Kind, Key) pair in one database transaction
func (x *RecordsStore) Upsert(ctx context.Context, record *readmodel.Record) error {
	if !x.connected.Load() {
		return errors.New("records store is not connected")
	}

	if record == nil {
		return nil
	}

	tx, err := x.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to obtain a database transaction: %w", err)
	}

	query, args, err := x.sb.
		Delete(tableName).
		Where(sq.Eq{"record_kind": record.Kind, "record_key": record.Key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build the delete sql statement: %w", err)
	}

	if _, execErr := tx.Exec(ctx, query, args...); execErr != nil {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			return multierr.Append(execErr, rollbackErr)
		}
		return fmt.Errorf("failed to replace the existing record: %w", execErr)
	}

	statement := x.sb.
		Insert(tableName).
		Columns(columns...).
		Values(
			record.Kind,
			record.Key,
			record.Payload,
			record.Version,
			record.UpdatedAt,
		)

	query, args, err = statement.ToSql()
	if err != nil {
		return fmt.Errorf("unable to build sql insert statement: %w", err)
	}

	if _, execErr := tx.Exec(ctx, query, args...); execErr != nil {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			return multierr.Append(execErr, rollbackErr)
		}
		return fmt.Errorf("failed to persist the record: %w", execErr)
	}

	// commit the transaction
	if commitErr := tx.Commit(ctx); commitErr != nil {
		return fmt.Errorf("failed to persist the record: %w", commitErr)
	}
	return nil
}

// Get fetches the record identified by the given (kind, key) pair
func (x *RecordsStore) Get(ctx context.Context, kind, key string) (*readmodel.Record, error) {
	if !x.connected.Load() {
		return nil, errors.New("records store is not connected")
	}

	statement := x.sb.
		Select(columns...).
		From(tableName).
		Where(sq.Eq{"record_kind": kind, "record_key": key}).
		Limit(1)

	query, args, err := statement.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build the select sql statement: %w", err)
	}

	row := new(row)
	if err := x.db.Select(ctx, row, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch the record from the database: %w", err)
	}

	if row.RecordKind == "" {
		return nil, nil
	}

	return row.toRecord(), nil
}

// Delete removes the record identified by the given (kind, key) pair
func (x *RecordsStore) Delete(ctx context.Context, kind, key string) error {
	if !x.connected.Load() {
		return errors.New("records store is not connected")
	}

	query, args, err := x.sb.
		Delete(tableName).
		Where(sq.Eq{"record_kind": kind, "record_key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build the delete sql statement: %w", err)
	}

	if _, err := x.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete the record from the database: %w", err)
	}
	return nil
}

// Kinds returns the distinct kinds present in the store
func (x *RecordsStore) Kinds(ctx context.Context) ([]string, error) {
	if !x.connected.Load() {
		return nil, errors.New("records store is not connected")
	}

	statement := x.sb.
		Select("record_kind").
		Distinct().
		From(tableName).
		OrderBy("record_kind")

	query, args, err := statement.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build the select sql statement: %w", err)
	}

	var kinds []string
	if err := x.db.SelectAll(ctx, &kinds, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch the list of kinds: %w", err)
	}

	return kinds, nil
}

// All fetches all the records of the given kind
func (x *RecordsStore) All(ctx context.Context, kind string) ([]*readmodel.Record, error) {
	if !x.connected.Load() {
		return nil, errors.New("records store is not connected")
	}

	statement := x.sb.
		Select(columns...).
		From(tableName).
		Where(sq.Eq{"record_kind": kind}).
		OrderBy("record_key")

	query, args, err := statement.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build the select sql statement: %w", err)
	}

	var rows []*row
	if err := x.db.SelectAll(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch the records from the database: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]*readmodel.Record, len(rows))
	for index, row := range rows {
		records[index] = row.toRecord()
	}
	return records, nil
}
