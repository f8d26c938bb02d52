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

const userColumns = "email_address, public_key, encrypted_private_key, recovery_phrase_hash, created_at"

// CreateUser - store a new user, the email address is the key
func (d *Database) CreateUser(ctx context.Context, user *models.User) error {
	return d.transaction(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT COUNT(*) FROM users WHERE email_address = ?", user.EmailAddress)
		if nil != err {
			return err
		}
		if found {
			return fault.UserAlreadyExists
		}

		user.CreatedAt = now()
		_, err = tx.ExecContext(ctx,
			"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?)",
			user.EmailAddress, user.PublicKey, string(user.PasswordEncryptedPrivateKey), user.RecoveryPhraseHash, user.CreatedAt)
		return err
	})
}

// User - fetch a user by email address
func (d *Database) User(ctx context.Context, emailAddress string) (*models.User, error) {
	user := &models.User{}
	key := ""
	err := d.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email_address = ?", emailAddress).
		Scan(&user.EmailAddress, &user.PublicKey, &key, &user.RecoveryPhraseHash, &user.CreatedAt)
	if sql.ErrNoRows == err {
		return nil, fault.UserNotFound
	}
	if nil != err {
		return nil, err
	}
	user.PasswordEncryptedPrivateKey = []byte(key)
	return user, nil
}

// UpdatePrivateKey - replace the password encrypted private key of a user
func (d *Database) UpdatePrivateKey(ctx context.Context, emailAddress string, key []byte) error {
	result, err := d.db.ExecContext(ctx, "UPDATE users SET encrypted_private_key = ? WHERE email_address = ?", string(key), emailAddress)
	if nil != err {
		return err
	}
	n, err := result.RowsAffected()
	if nil != err {
		return err
	}
	if 0 == n {
		return fault.UserNotFound
	}
	return nil
}
