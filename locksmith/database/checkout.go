// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/locksmith/models"
)

const checkoutColumns = "id, name, owner, config, created_at, updated_at"

// SaveCheckoutConfig - create a checkout config, or update it when the
// id is set and belongs to the same owner
func (d *Database) SaveCheckoutConfig(ctx context.Context, config *models.CheckoutConfig) error {
	return d.transaction(ctx, func(tx *sql.Tx) error {
		if "" != config.ID {
			owner := ""
			err := tx.QueryRowContext(ctx, "SELECT owner FROM checkout_configs WHERE id = ?", config.ID).Scan(&owner)
			if sql.ErrNoRows == err {
				return fault.CheckoutConfigNotFound
			}
			if nil != err {
				return err
			}
			if owner != config.Owner {
				return fault.SignatureMismatch
			}

			config.UpdatedAt = now()
			_, err = tx.ExecContext(ctx,
				"UPDATE checkout_configs SET name = ?, config = ?, updated_at = ? WHERE id = ?",
				config.Name, string(config.Config), config.UpdatedAt, config.ID)
			return err
		}

		config.ID = uuid.New().String()
		config.CreatedAt = now()
		config.UpdatedAt = config.CreatedAt
		_, err := tx.ExecContext(ctx,
			"INSERT INTO checkout_configs ("+checkoutColumns+") VALUES (?, ?, ?, ?, ?, ?)",
			config.ID, config.Name, config.Owner, string(config.Config), config.CreatedAt, config.UpdatedAt)
		return err
	})
}

// CheckoutConfig - fetch one checkout config
func (d *Database) CheckoutConfig(ctx context.Context, id string) (*models.CheckoutConfig, error) {
	row := d.db.QueryRowContext(ctx, "SELECT "+checkoutColumns+" FROM checkout_configs WHERE id = ?", id)
	config, err := scanCheckoutConfig(row)
	if sql.ErrNoRows == err {
		return nil, fault.CheckoutConfigNotFound
	}
	return config, err
}

// CheckoutConfigsByOwner - all checkout configs of one owner, newest first
func (d *Database) CheckoutConfigsByOwner(ctx context.Context, owner string) ([]*models.CheckoutConfig, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT "+checkoutColumns+" FROM checkout_configs WHERE owner = ? ORDER BY updated_at DESC, id", owner)
	if nil != err {
		return nil, err
	}
	defer rows.Close()

	configs := make([]*models.CheckoutConfig, 0)
	for rows.Next() {
		config, err := scanCheckoutConfig(rows)
		if nil != err {
			return nil, err
		}
		configs = append(configs, config)
	}
	return configs, rows.Err()
}

// DeleteCheckoutConfig - remove a checkout config of an owner
func (d *Database) DeleteCheckoutConfig(ctx context.Context, id string, owner string) error {
	return d.transaction(ctx, func(tx *sql.Tx) error {
		stored := ""
		err := tx.QueryRowContext(ctx, "SELECT owner FROM checkout_configs WHERE id = ?", id).Scan(&stored)
		if sql.ErrNoRows == err {
			return fault.CheckoutConfigNotFound
		}
		if nil != err {
			return err
		}
		if stored != owner {
			return fault.SignatureMismatch
		}

		_, err = tx.ExecContext(ctx, "DELETE FROM checkout_configs WHERE id = ?", id)
		return err
	})
}

func scanCheckoutConfig(s scanner) (*models.CheckoutConfig, error) {
	config := &models.CheckoutConfig{}
	buffer := ""
	err := s.Scan(&config.ID, &config.Name, &config.Owner, &buffer, &config.CreatedAt, &config.UpdatedAt)
	if nil != err {
		return nil, err
	}
	config.Config = []byte(buffer)
	return config, nil
}
