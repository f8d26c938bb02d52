// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/locksmith/models"
)

const transactionColumns = "hash, sender, recipient, for_address, data, chain, created_at"

// SaveTransaction - record a submitted transaction
func (d *Database) SaveTransaction(ctx context.Context, transaction *models.Transaction) error {
	return d.transaction(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT COUNT(*) FROM transactions WHERE hash = ?", transaction.Hash)
		if nil != err {
			return err
		}
		if found {
			return fault.TransactionAlreadyExists
		}

		transaction.CreatedAt = now()
		_, err = tx.ExecContext(ctx,
			"INSERT INTO transactions ("+transactionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
			transaction.Hash, transaction.Sender, transaction.Recipient, transaction.For,
			transaction.Data, transaction.ChainID, transaction.CreatedAt)
		return err
	})
}

// Transactions - transactions sent by one account, optionally
// restricted to a set of recipients, newest first
func (d *Database) Transactions(ctx context.Context, sender string, recipients []string) ([]*models.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE sender = ?"
	args := []interface{}{sender}
	if len(recipients) > 0 {
		query += " AND recipient IN (?" + strings.Repeat(", ?", len(recipients)-1) + ")"
		for _, r := range recipients {
			args = append(args, r)
		}
	}
	query += " ORDER BY created_at DESC, hash"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if nil != err {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		t := &models.Transaction{}
		err := rows.Scan(&t.Hash, &t.Sender, &t.Recipient, &t.For, &t.Data, &t.ChainID, &t.CreatedAt)
		if nil != err {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
