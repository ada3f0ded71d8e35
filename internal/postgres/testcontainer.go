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
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	_ "github.com/lib/pq" // postgres driver used to probe the container readiness
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/tochemey/goakt/v2/log"
)

// TestContainer runs a throwaway postgres docker container.
// It is only useful for unit and integration tests.
type TestContainer struct {
	host   string
	port   int
	schema string

	// connection credentials
	dbUser string
	dbName string
	dbPass string

	// docker resources
	pool     *dockertest.Pool
	resource *dockertest.Resource
}

// NewTestContainer starts a postgres test container and waits until it accepts
// connections. It exits the test binary when docker is not available.
func NewTestContainer(dbName, dbUser, dbPassword string) *TestContainer {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.DefaultLogger.Fatalf("failed to connect to docker: %v", err)
	}

	if err := pool.Client.Ping(); err != nil {
		log.DefaultLogger.Fatalf("failed to ping the docker daemon: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "11",
		Env: []string{
			fmt.Sprintf("POSTGRES_USER=%s", dbUser),
			fmt.Sprintf("POSTGRES_PASSWORD=%s", dbPassword),
			fmt.Sprintf("POSTGRES_DB=%s", dbName),
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.DefaultLogger.Fatalf("failed to start the postgres container: %v", err)
	}

	hostAndPort := resource.GetHostPort("5432/tcp")
	host, portStr, err := net.SplitHostPort(hostAndPort)
	if err != nil {
		log.DefaultLogger.Fatalf("failed to split the container address=%s: %v", hostAndPort, err)
	}
	port, _ := strconv.Atoi(portStr)

	// the container might not be ready to accept connections yet
	databaseURL := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", dbUser, dbPassword, hostAndPort, dbName)
	pool.MaxWait = 2 * time.Minute
	if err := pool.Retry(func() error {
		db, err := sql.Open("postgres", databaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Ping()
	}); err != nil {
		log.DefaultLogger.Fatalf("failed to connect to the postgres container: %v", err)
	}

	return &TestContainer{
		host:     host,
		port:     port,
		schema:   "public",
		dbUser:   dbUser,
		dbName:   dbName,
		dbPass:   dbPassword,
		pool:     pool,
		resource: resource,
	}
}

// GetTestDB returns a database handle pointing at the test container
func (x TestContainer) GetTestDB() *TestDB {
	return &TestDB{
		New(NewConfig(x.host, x.port, x.dbUser, x.dbPass, x.dbName)),
	}
}

// Host returns the host of the test container
func (x TestContainer) Host() string {
	return x.host
}

// Port returns the port of the test container
func (x TestContainer) Port() int {
	return x.port
}

// Schema returns the database schema of the test container
func (x TestContainer) Schema() string {
	return x.schema
}

// Cleanup frees the docker resources backing the test container
func (x TestContainer) Cleanup() {
	if err := x.pool.Purge(x.resource); err != nil {
		log.DefaultLogger.Fatalf("failed to free the docker resources: %v", err)
	}
}

// TestDB is a database handle backed by a TestContainer
type TestDB struct {
	Postgres
}
