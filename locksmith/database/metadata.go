// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/unlock-protocol/unlockd/locksmith/models"
)

// SaveLockMetadata - replace the default metadata of every key on a lock
func (d *Database) SaveLockMetadata(ctx context.Context, address string, data models.Metadata) error {
	buffer, err := json.Marshal(data)
	if nil != err {
		return err
	}

	return d.transaction(ctx, func(tx *sql.Tx) error {
		return upsert(ctx, tx,
			"SELECT COUNT(*) FROM lock_metadata WHERE address = ?",
			"UPDATE lock_metadata SET data = ?, updated_at = ? WHERE address = ?",
			"INSERT INTO lock_metadata (data, updated_at, address) VALUES (?, ?, ?)",
			[]interface{}{address},
			string(buffer), now())
	})
}

// LockMetadata - the default key metadata of a lock, empty if never set
func (d *Database) LockMetadata(ctx context.Context, address string) (models.Metadata, error) {
	return d.metadata(ctx, "SELECT data FROM lock_metadata WHERE address = ?", address)
}

// SaveUserMetadata - replace the data a key owner attached to their key
func (d *Database) SaveUserMetadata(ctx context.Context, address string, owner string, data models.Metadata) error {
	buffer, err := json.Marshal(data)
	if nil != err {
		return err
	}

	return d.transaction(ctx, func(tx *sql.Tx) error {
		return upsert(ctx, tx,
			"SELECT COUNT(*) FROM user_metadata WHERE address = ? AND owner = ?",
			"UPDATE user_metadata SET data = ?, updated_at = ? WHERE address = ? AND owner = ?",
			"INSERT INTO user_metadata (data, updated_at, address, owner) VALUES (?, ?, ?, ?)",
			[]interface{}{address, owner},
			string(buffer), now())
	})
}

// UserMetadata - the data of one key owner, empty if never set
func (d *Database) UserMetadata(ctx context.Context, address string, owner string) (models.Metadata, error) {
	return d.metadata(ctx, "SELECT data FROM user_metadata WHERE address = ? AND owner = ?", address, owner)
}

func (d *Database) metadata(ctx context.Context, query string, args ...interface{}) (models.Metadata, error) {
	buffer := ""
	err := d.db.QueryRowContext(ctx, query, args...).Scan(&buffer)
	if sql.ErrNoRows == err {
		return models.Metadata{}, nil
	}
	if nil != err {
		return nil, err
	}

	data := models.Metadata{}
	if err := json.Unmarshal([]byte(buffer), &data); nil != err {
		d.log.Warnf("malformed metadata: %q  error: %s", buffer, err)
		return models.Metadata{}, nil
	}
	return data, nil
}

// update the row identified by keys or insert it
//
// the update and insert statements take the values followed by the keys
func upsert(ctx context.Context, tx *sql.Tx, count string, update string, insert string, keys []interface{}, values ...interface{}) error {
	found, err := exists(ctx, tx, count, keys...)
	if nil != err {
		return err
	}

	args := append(append([]interface{}{}, values...), keys...)
	if found {
		_, err = tx.ExecContext(ctx, update, args...)
	} else {
		_, err = tx.ExecContext(ctx, insert, args...)
	}
	return err
}
