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
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// view is a test struct
type view struct {
	ViewID   string
	ViewName string
}

// PostgresTestSuite will run the Postgres tests
type PostgresTestSuite struct {
	suite.Suite
	container *TestContainer
}

// SetupSuite starts the Postgres database engine and sets the container
// host and port to use in the tests
func (s *PostgresTestSuite) SetupSuite() {
	s.container = NewTestContainer("testdb", "test", "test")
}

func (s *PostgresTestSuite) TearDownSuite() {
	s.container.Cleanup()
}

// In order for 'go test' to run this suite, we need to create
// a normal test function and pass our suite to suite.Run
func TestPostgresTestSuite(t *testing.T) {
	suite.Run(t, new(PostgresTestSuite))
}

func (s *PostgresTestSuite) TestConnect() {
	s.Run("with valid connection settings", func() {
		ctx := context.TODO()
		db := s.container.GetTestDB()

		err := db.Connect(ctx)
		s.Assert().NoError(err)
	})

	s.Run("with invalid database port", func() {
		ctx := context.TODO()
		db := New(&Config{
			DBUser:                "test",
			DBName:                "testdb",
			DBPassword:            "test",
			DBSchema:              s.container.Schema(),
			DBHost:                s.container.Host(),
			DBPort:                -2,
			MaxConnections:        4,
			MinConnections:        0,
			MaxConnectionLifetime: time.Hour,
			MaxConnIdleTime:       30 * time.Minute,
			HealthCheckPeriod:     time.Minute,
		})
		err := db.Connect(ctx)
		s.Assert().Error(err)
	})

	s.Run("with invalid database name", func() {
		ctx := context.TODO()
		db := New(&Config{
			DBUser:                "test",
			DBName:                "wrong-name",
			DBPassword:            "test",
			DBSchema:              s.container.Schema(),
			DBHost:                s.container.Host(),
			DBPort:                s.container.Port(),
			MaxConnections:        4,
			MinConnections:        0,
			MaxConnectionLifetime: time.Hour,
			MaxConnIdleTime:       30 * time.Minute,
			HealthCheckPeriod:     time.Minute,
		})
		err := db.Connect(ctx)
		s.Assert().Error(err)
	})

	s.Run("with invalid database user", func() {
		ctx := context.TODO()
		db := New(&Config{
			DBUser:                "wrong-user",
			DBName:                "testdb",
			DBPassword:            "test",
			DBSchema:              s.container.Schema(),
			DBHost:                s.container.Host(),
			DBPort:                s.container.Port(),
			MaxConnections:        4,
			MinConnections:        0,
			MaxConnectionLifetime: time.Hour,
			MaxConnIdleTime:       30 * time.Minute,
			HealthCheckPeriod:     time.Minute,
		})
		err := db.Connect(ctx)
		s.Assert().Error(err)
	})

	s.Run("with invalid database password", func() {
		ctx := context.TODO()
		db := New(&Config{
			DBUser:                "test",
			DBName:                "testdb",
			DBPassword:            "invalid-db-pass",
			DBSchema:              s.container.Schema(),
			DBHost:                s.container.Host(),
			DBPort:                s.container.Port(),
			MaxConnections:        4,
			MinConnections:        0,
			MaxConnectionLifetime: time.Hour,
			MaxConnIdleTime:       30 * time.Minute,
			HealthCheckPeriod:     time.Minute,
		})

		err := db.Connect(ctx)
		s.Assert().Error(err)
	})
}

func (s *PostgresTestSuite) TestExec() {
	ctx := context.TODO()
	db := s.container.GetTestDB()
	err := db.Connect(ctx)
	s.Assert().NoError(err)

	s.Run("with valid SQL statement", func() {
		const schemaDDL = `
		CREATE TABLE IF NOT EXISTS views
		(
		    view_id		UUID,
			view_name 	VARCHAR(255)  NOT NULL,
		    PRIMARY KEY (view_id)
		);
	`
		_, err = db.Exec(ctx, schemaDDL)
		s.Assert().NoError(err)
	})

	s.Run("with invalid SQL statement", func() {
		const schemaDDL = `SOME-INVALID-SQL`
		_, err = db.Exec(ctx, schemaDDL)
		s.Assert().Error(err)
	})
}

func (s *PostgresTestSuite) TestSelect() {
	ctx := context.TODO()
	db := s.container.GetTestDB()
	err := db.Connect(ctx)
	s.Assert().NoError(err)

	const selectSQL = `SELECT view_id, view_name FROM views WHERE view_id = $1`

	s.Run("with valid record", func() {
		// start from a fresh table
		err = db.DropTable(ctx, "views")
		s.Assert().NoError(err)
		err = createTable(ctx, db)
		s.Assert().NoError(err)

		inserted := &view{
			ViewID:   uuid.New().String(),
			ViewName: "account-balance",
		}
		err = insertInto(ctx, db, inserted)
		s.Assert().NoError(err)

		// let us select the record inserted
		selected := &view{}
		err = db.Select(ctx, selected, selectSQL, inserted.ViewID)
		s.Assert().NoError(err)

		s.Assert().Equal(inserted.ViewID, selected.ViewID)
		s.Assert().Equal(inserted.ViewName, selected.ViewName)
	})

	s.Run("with no records", func() {
		err = db.DropTable(ctx, "views")
		s.Assert().NoError(err)
		err = createTable(ctx, db)
		s.Assert().NoError(err)

		var selected *view
		err = db.Select(ctx, selected, selectSQL, uuid.New().String())
		s.Assert().NoError(err)
		s.Assert().Nil(selected)
	})

	s.Run("with invalid SQL statement", func() {
		var selected *view
		err = db.Select(ctx, selected, "weird-sql", uuid.New().String())
		s.Assert().Error(err)
		s.Assert().Nil(selected)
	})
}

func (s *PostgresTestSuite) TestSelectAll() {
	ctx := context.TODO()
	db := s.container.GetTestDB()
	err := db.Connect(ctx)
	s.Assert().NoError(err)

	const selectSQL = `SELECT view_id, view_name FROM views;`

	s.Run("with valid records", func() {
		err = db.DropTable(ctx, "views")
		s.Assert().NoError(err)
		err = createTable(ctx, db)
		s.Assert().NoError(err)

		inserted := &view{
			ViewID:   uuid.New().String(),
			ViewName: "account-balance",
		}
		err = insertInto(ctx, db, inserted)
		s.Assert().NoError(err)

		var selected []*view
		err = db.SelectAll(ctx, &selected, selectSQL)
		s.Assert().NoError(err)
		s.Assert().Equal(1, len(selected))
	})

	s.Run("with no records", func() {
		err = db.DropTable(ctx, "views")
		s.Assert().NoError(err)
		err = createTable(ctx, db)
		s.Assert().NoError(err)

		var selected []*view
		err = db.SelectAll(ctx, &selected, selectSQL)
		s.Assert().NoError(err)
		s.Assert().Nil(selected)
	})

	s.Run("with invalid SQL statement", func() {
		var selected []*view
		err = db.SelectAll(ctx, selected, "weird-sql", uuid.New().String())
		s.Assert().Error(err)
		s.Assert().Nil(selected)
	})
}

func (s *PostgresTestSuite) TestTableExists() {
	ctx := context.TODO()
	db := s.container.GetTestDB()
	err := db.Connect(ctx)
	s.Assert().NoError(err)

	s.Run("with existing table", func() {
		err = createTable(ctx, db)
		s.Assert().NoError(err)

		err = db.TableExists(ctx, "views")
		s.Assert().NoError(err)
	})

	s.Run("with dropped table", func() {
		err = db.DropTable(ctx, "views")
		s.Assert().NoError(err)

		err = db.TableExists(ctx, "views")
		s.Assert().Error(err)
	})
}

func (s *PostgresTestSuite) TestClose() {
	ctx := context.TODO()
	db := s.container.GetTestDB()
	err := db.Connect(ctx)
	s.Assert().NoError(err)

	// close the db connection
	err = db.Disconnect(ctx)
	s.Assert().NoError(err)

	// let us execute a query against a closed connection
	err = db.TableExists(ctx, "views")
	s.Assert().Error(err)
	s.Assert().ErrorContains(err, "closed pool")
}

func createTable(ctx context.Context, db Postgres) error {
	const schemaDDL = `
		CREATE TABLE IF NOT EXISTS views
		(
		    view_id		UUID,
			view_name 	VARCHAR(255)  NOT NULL,
		    PRIMARY KEY (view_id)
		);
	`
	_, err := db.Exec(ctx, schemaDDL)
	return err
}

func insertInto(ctx context.Context, db Postgres, view *view) error {
	const insertSQL = `INSERT INTO views(view_id, view_name) VALUES($1, $2);`
	_, err := db.Exec(ctx, insertSQL, view.ViewID, view.ViewName)
	return err
}
