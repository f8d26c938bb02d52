// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"context"
	"database/sql"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/locksmith/models"
)

const lockColumns = "address, name, owner, created_at, updated_at"

// CreateLock - register a new lock
//
// all addresses passed to the database must already be checksummed
func (d *Database) CreateLock(ctx context.Context, lock *models.Lock) error {
	return d.transaction(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT COUNT(*) FROM locks WHERE address = ?", lock.Address)
		if nil != err {
			return err
		}
		if found {
			return fault.LockAlreadyExists
		}

		lock.CreatedAt = now()
		lock.UpdatedAt = lock.CreatedAt
		_, err = tx.ExecContext(ctx,
			"INSERT INTO locks ("+lockColumns+") VALUES (?, ?, ?, ?, ?)",
			lock.Address, lock.Name, lock.Owner, lock.CreatedAt, lock.UpdatedAt)
		return err
	})
}

// Lock - fetch a single lock
func (d *Database) Lock(ctx context.Context, address string) (*models.Lock, error) {
	row := d.db.QueryRowContext(ctx, "SELECT "+lockColumns+" FROM locks WHERE address = ?", address)

	lock, err := scanLock(row)
	if sql.ErrNoRows == err {
		return nil, fault.LockNotFound
	}
	return lock, err
}

// LocksByOwner - all locks of one owner, oldest first
func (d *Database) LocksByOwner(ctx context.Context, owner string) ([]*models.Lock, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT "+lockColumns+" FROM locks WHERE owner = ? ORDER BY created_at, address", owner)
	if nil != err {
		return nil, err
	}
	defer rows.Close()

	locks := make([]*models.Lock, 0)
	for rows.Next() {
		lock, err := scanLock(rows)
		if nil != err {
			return nil, err
		}
		locks = append(locks, lock)
	}
	return locks, rows.Err()
}

// RenameLock - change the name of an existing lock
func (d *Database) RenameLock(ctx context.Context, address string, name string) error {
	result, err := d.db.ExecContext(ctx, "UPDATE locks SET name = ?, updated_at = ? WHERE address = ?", name, now(), address)
	if nil != err {
		return err
	}
	n, err := result.RowsAffected()
	if nil != err {
		return err
	}
	if 0 == n {
		return fault.LockNotFound
	}
	return nil
}

// scanner - common part of sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLock(s scanner) (*models.Lock, error) {
	lock := &models.Lock{}
	err := s.Scan(&lock.Address, &lock.Name, &lock.Owner, &lock.CreatedAt, &lock.UpdatedAt)
	if nil != err {
		return nil, err
	}
	return lock, nil
}
