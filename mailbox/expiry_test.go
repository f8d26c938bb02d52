// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mailbox_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unlock-protocol/unlockd/blockchain"
	"github.com/unlock-protocol/unlockd/fixtures"
	"github.com/unlock-protocol/unlockd/mailbox"
	"github.com/unlock-protocol/unlockd/record"
	web3mocks "github.com/unlock-protocol/unlockd/web3/mocks"
)

// a real handler whose pollers are only run by Refresh
type manualHandler struct {
	*blockchain.Handler
}

func (manualHandler) Start() {}

func TestKeyExpiryLocks(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var clock atomic.Int64
	clock.Store(now)

	reader := web3mocks.NewMockReader(ctrl)
	wallet := web3mocks.NewMockWallet(ctrl)
	wallet.EXPECT().Account(gomock.Any()).Return(account, nil).AnyTimes()
	reader.EXPECT().NetworkID(gomock.Any()).Return(uint64(4), nil).AnyTimes()
	reader.EXPECT().Balance(gomock.Any(), account).Return("1", nil).AnyTimes()
	reader.EXPECT().Lock(gomock.Any(), lockAddress).Return(record.Lock{Address: lockAddress, Name: "Members", KeyPrice: "0.01"}, nil).AnyTimes()
	reader.EXPECT().KeyExpiration(gomock.Any(), lockAddress, account).Return(now+100, nil).AnyTimes()

	var handler *blockchain.Handler
	create := func(locks []string, callback blockchain.Callback) (mailbox.Handler, error) {
		h, err := blockchain.New(blockchain.Configuration{
			Reader:                reader,
			Wallet:                wallet,
			Locks:                 locks,
			RequiredConfirmations: 1,
			Callback:              callback,
			Now:                   clock.Load,
		})
		if nil != err {
			return nil, err
		}
		handler = h
		return manualHandler{h}, nil
	}

	out := &outbox{}
	m := mailbox.New(mailboxID, create, newMemoryCache(), out.send)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Handle(ctx, configMessage(origin, lockAddress)), "configure")
	require.NotNil(t, handler, "no handler")
	out.take()

	handler.Refresh(ctx)
	_, ok := find(out.take(), mailbox.Unlocked)
	assert.True(t, ok, "not unlocked")

	// still valid, nothing to send
	clock.Store(now + 99)
	handler.Refresh(ctx)
	assert.Equal(t, 0, len(out.take()), "messages before expiry")

	clock.Store(now + 100)
	handler.Refresh(ctx)
	assert.Equal(t, []mailbox.Kind{mailbox.UpdateKeys, mailbox.Locked}, kinds(out.take()), "expiry not sent")
	assert.Equal(t, record.KeyExpired, m.Snapshot().Keys[lockAddress].Status, "key not expired")
}
