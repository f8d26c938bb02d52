// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/fixtures"
	"github.com/unlock-protocol/unlockd/locksmith/api"
	"github.com/unlock-protocol/unlockd/locksmith/database"
	"github.com/unlock-protocol/unlockd/locksmith/models"
)

type fixedPricer struct{}

func (fixedPricer) Price(ctx context.Context, address string) (*models.Price, error) {
	return &models.Price{LockAddress: address, KeyPrice: "0.01", Currency: "ETH", USDCents: 200}, nil
}

type noKeys struct{}

func (noKeys) KeyExpiration(ctx context.Context, lock string, owner string) (int64, error) {
	return 0, nil
}

func runWithLocksmith(t *testing.T, arguments ...string) (string, error) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	db, err := database.Open(database.Configuration{Driver: "sqlite3", DataSource: ":memory:"})
	require.NoError(t, err, "database")
	defer db.Close()

	err = db.CreateLock(context.Background(), &models.Lock{
		Address: fixtures.LockChecksum,
		Name:    "Monthly",
		Owner:   fixtures.AccountChecksum,
	})
	require.NoError(t, err, "create lock")

	server := api.New(api.Configuration{}, db, fixedPricer{}, nil, noKeys{})
	httpServer := httptest.NewServer(adaptor.FiberApp(server.App()))
	defer httpServer.Close()

	app := newApp()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut

	err = app.Run(append([]string{"unlock-cli", "--locksmith", httpServer.URL}, arguments...))
	return out.String(), err
}

func TestRunLock(t *testing.T) {
	out, err := runWithLocksmith(t, "lock", "--address", fixtures.LockAddress)
	require.NoError(t, err, "lock")

	var lock models.Lock
	require.NoError(t, json.Unmarshal([]byte(out), &lock), "decode output")
	assert.Equal(t, fixtures.LockChecksum, lock.Address, "wrong address")
	assert.Equal(t, "Monthly", lock.Name, "wrong name")
}

func TestRunLocks(t *testing.T) {
	out, err := runWithLocksmith(t, "locks", "--owner", fixtures.AccountAddress)
	require.NoError(t, err, "locks")

	var locks []models.Lock
	require.NoError(t, json.Unmarshal([]byte(out), &locks), "decode output")
	require.Len(t, locks, 1, "wrong count")
	assert.Equal(t, fixtures.LockChecksum, locks[0].Address, "wrong address")
}

func TestRunLockNotFound(t *testing.T) {
	_, err := runWithLocksmith(t, "lock", "--address", fixtures.OtherLockAddress)
	assert.Equal(t, fault.LockNotFound, err, "wrong error")
}

func TestRunPrice(t *testing.T) {
	out, err := runWithLocksmith(t, "price", "--address", fixtures.LockAddress)
	require.NoError(t, err, "price")

	var price models.Price
	require.NoError(t, json.Unmarshal([]byte(out), &price), "decode output")
	assert.Equal(t, int64(200), price.USDCents, "wrong price")
}

func TestRunTransactionsRequiresRecipient(t *testing.T) {
	_, err := runWithLocksmith(t, "transactions", "--sender", fixtures.AccountAddress)
	assert.Equal(t, ErrRequiredRecipient, err, "wrong error")
}
