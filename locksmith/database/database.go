// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package database - relational storage for the locksmith backend
//
// the schema is migrated with goose on open, the same SQL runs on
// MySQL in production and SQLite for development and tests
package database

import (
	"context"
	"database/sql"
	"embed"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/unlock-protocol/unlockd/fault"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	migrationDirectory = "migrations"
	memoryDataSource   = ":memory:"
)

// supported drivers and the goose dialect for each
var dialects = map[string]string{
	"mysql":   "mysql",
	"sqlite3": "sqlite3",
}

// Configuration - database connection settings
type Configuration struct {
	Driver             string `gluamapper:"driver" json:"driver"`
	DataSource         string `gluamapper:"data_source" json:"data_source"`
	MaximumConnections int    `gluamapper:"maximum_connections" json:"maximum_connections"`
}

// Database - an open and migrated connection pool
type Database struct {
	log *logger.L
	db  *sql.DB
}

// Open - connect to the configured database and bring the schema up
// to date
func Open(configuration Configuration) (*Database, error) {
	log := logger.New("database")

	dialect, ok := dialects[configuration.Driver]
	if !ok {
		return nil, fault.InvalidConfiguration
	}

	db, err := sql.Open(configuration.Driver, configuration.DataSource)
	if nil != err {
		log.Errorf("open %s error: %s", configuration.Driver, err)
		return nil, err
	}

	// every connection to an in-memory sqlite database is a new database
	if strings.Contains(configuration.DataSource, memoryDataSource) {
		db.SetMaxOpenConns(1)
	} else if configuration.MaximumConnections > 0 {
		db.SetMaxOpenConns(configuration.MaximumConnections)
	}

	if err := db.Ping(); nil != err {
		log.Errorf("ping %s error: %s", configuration.Driver, err)
		db.Close()
		return nil, err
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(&migrationLogger{log: log})
	if err := goose.SetDialect(dialect); nil != err {
		db.Close()
		return nil, err
	}
	if err := goose.Up(db, migrationDirectory); nil != err {
		log.Errorf("migration error: %s", err)
		db.Close()
		return nil, err
	}

	log.Infof("opened %s database", configuration.Driver)

	return &Database{
		log: log,
		db:  db,
	}, nil
}

// Close - release the connection pool
func (d *Database) Close() error {
	if nil == d.db {
		return fault.DatabaseIsNotSet
	}
	return d.db.Close()
}

// Version - the current schema version
func (d *Database) Version() (int64, error) {
	return goose.GetDBVersion(d.db)
}

// run a function inside a transaction, rolling back on error
func (d *Database) transaction(ctx context.Context, f func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if nil != err {
		return err
	}

	if err := f(tx); nil != err {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// count the rows matching a query inside a transaction
func exists(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) (bool, error) {
	n := 0
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); nil != err {
		return false, err
	}
	return n > 0, nil
}

// timestamps are stored in UTC to the second
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// route goose output to the database log channel
type migrationLogger struct {
	log *logger.L
}

func (m *migrationLogger) Printf(format string, v ...interface{}) {
	m.log.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (m *migrationLogger) Fatalf(format string, v ...interface{}) {
	logger.Panicf(strings.TrimSuffix(format, "\n"), v...)
}
