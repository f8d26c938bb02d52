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

const eventColumns = "id, lock_address, name, description, location, date, owner, logo, created_at"

// SaveEvent - create the event of a lock or replace its details
//
// a lock has at most one event, its id is kept across updates
func (d *Database) SaveEvent(ctx context.Context, event *models.Event) error {
	return d.transaction(ctx, func(tx *sql.Tx) error {
		id := ""
		err := tx.QueryRowContext(ctx, "SELECT id FROM events WHERE lock_address = ?", event.LockAddress).Scan(&id)
		switch err {
		case nil:
			event.ID = id
			_, err = tx.ExecContext(ctx,
				"UPDATE events SET name = ?, description = ?, location = ?, date = ?, owner = ?, logo = ? WHERE id = ?",
				event.Name, event.Description, event.Location, event.Date.UTC(), event.Owner, event.Logo, event.ID)
			return err

		case sql.ErrNoRows:
			event.ID = uuid.New().String()
			event.CreatedAt = now()
			_, err = tx.ExecContext(ctx,
				"INSERT INTO events ("+eventColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
				event.ID, event.LockAddress, event.Name, event.Description, event.Location,
				event.Date.UTC(), event.Owner, event.Logo, event.CreatedAt)
			return err

		default:
			return err
		}
	})
}

// Event - the event of a lock
func (d *Database) Event(ctx context.Context, lockAddress string) (*models.Event, error) {
	event := &models.Event{}
	err := d.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE lock_address = ?", lockAddress).
		Scan(&event.ID, &event.LockAddress, &event.Name, &event.Description, &event.Location,
			&event.Date, &event.Owner, &event.Logo, &event.CreatedAt)
	if sql.ErrNoRows == err {
		return nil, fault.EventNotFound
	}
	if nil != err {
		return nil, err
	}
	return event, nil
}
