// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package linker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unlock-protocol/unlockd/linker"
	"github.com/unlock-protocol/unlockd/record"
)

const (
	lock  = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	other = "0x0000000000000000000000000000000000000001"
	owner = "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"
	now   = int64(1600000000)
)

func TestKeyStatus(t *testing.T) {
	future := record.Key{Expiration: now + 1}
	current := record.Key{Expiration: now}
	past := record.Key{Expiration: now - 100}
	empty := record.Key{}

	tx := func(status record.TransactionStatus, confirmations uint64) *record.Transaction {
		return &record.Transaction{Status: status, Confirmations: confirmations}
	}

	testData := []struct {
		name     string
		key      record.Key
		tx       *record.Transaction
		expected record.KeyStatus
	}{
		{"no tx future", future, nil, record.KeyValid},
		{"no tx now", current, nil, record.KeyExpired},
		{"no tx past", past, nil, record.KeyExpired},
		{"no tx empty", empty, nil, record.KeyNone},
		{"submitted", future, tx(record.TransactionSubmitted, 0), record.KeySubmitted},
		{"pending", future, tx(record.TransactionPending, 0), record.KeyPending},
		{"failed", future, tx(record.TransactionFailed, 20), record.KeyFailed},
		{"confirming", future, tx(record.TransactionMined, 2), record.KeyConfirming},
		{"confirmed", future, tx(record.TransactionMined, 12), record.KeyValid},
		{"confirmed expired", past, tx(record.TransactionMined, 13), record.KeyExpired},
		{"confirmed empty", empty, tx(record.TransactionMined, 13), record.KeyNone},
		{"unknown tx status", future, tx(record.TransactionNone, 0), record.KeyValid},
	}

	for _, d := range testData {
		actual := linker.KeyStatus(d.key, d.tx, 12, now)
		assert.Equal(t, d.expected, actual, d.name)
	}
}

// valid iff expiration strictly future and no blocking transaction
func TestValidProperty(t *testing.T) {
	statuses := []record.TransactionStatus{
		record.TransactionNone,
		record.TransactionSubmitted,
		record.TransactionPending,
		record.TransactionMined,
		record.TransactionFailed,
	}
	for _, expiration := range []int64{0, now - 1, now, now + 1, now + 1000} {
		for _, status := range statuses {
			for _, confirmations := range []uint64{0, 5, 6, 100} {
				key := record.Key{Expiration: expiration}
				tx := &record.Transaction{Status: status, Confirmations: confirmations}
				s := linker.KeyStatus(key, tx, 6, now)

				blocking := record.TransactionSubmitted == status ||
					record.TransactionPending == status ||
					record.TransactionFailed == status ||
					(record.TransactionMined == status && confirmations < 6)
				assert.Equal(t, expiration > now && !blocking, record.KeyValid == s,
					"expiration: %d status: %s confirmations: %d => %s", expiration, status, confirmations, s)
				assert.Equal(t, blocking, s.Blocking(),
					"expiration: %d status: %s confirmations: %d => %s", expiration, status, confirmations, s)
			}
		}
	}
}

func TestLink(t *testing.T) {
	keys := map[string]record.Key{
		lock:  {ID: record.KeyID(lock, owner), Lock: lock, Owner: owner, Expiration: now + 1000},
		other: {ID: record.KeyID(other, owner), Lock: other, Owner: owner},
	}
	transactions := map[string]record.Transaction{
		"0x01": {Hash: "0x01", From: owner, To: lock, Lock: lock, Status: record.TransactionMined, BlockNumber: 10, Confirmations: 30},
		"0x02": {Hash: "0x02", From: owner, To: lock, Lock: lock, Status: record.TransactionMined, BlockNumber: 20, Confirmations: 2},
		"0x03": {Hash: "0x03", From: "0x9999999999999999999999999999999999999999", To: lock, Lock: lock, Status: record.TransactionPending},
		"0x04": {Hash: "0x04", From: owner, To: "0x0000000000000000000000000000000000000002", Status: record.TransactionPending},
	}

	linked := linker.Link(keys, transactions, 6, now)

	k := linked[lock]
	assert.Equal(t, []string{"0x02", "0x01"}, k.Transactions, "wrong transaction order")
	assert.Equal(t, record.KeyConfirming, k.Status, "wrong status")
	assert.Equal(t, uint64(2), k.Confirmations, "wrong confirmations")

	o := linked[other]
	assert.Nil(t, o.Transactions, "unrelated transactions linked")
	assert.Equal(t, record.KeyNone, o.Status, "wrong status")

	// input not modified
	assert.Equal(t, record.KeyNone, keys[lock].Status, "input modified")
	assert.Nil(t, keys[lock].Transactions, "input modified")
}

func TestLinkUnminedFirst(t *testing.T) {
	keys := map[string]record.Key{
		lock: {Lock: lock, Owner: owner, Expiration: now + 1000},
	}
	transactions := map[string]record.Transaction{
		"0xaa": {Hash: "0xaa", From: "0x1111111111111111111111111111111111111111", For: owner, Lock: lock, Status: record.TransactionMined, BlockNumber: 50, Confirmations: 50},
		"0xbb": {Hash: "0xbb", From: owner, To: lock, Status: record.TransactionSubmitted},
	}

	linked := linker.Link(keys, transactions, 6, now)
	assert.Equal(t, []string{"0xbb", "0xaa"}, linked[lock].Transactions, "wrong order")
	assert.Equal(t, record.KeySubmitted, linked[lock].Status, "wrong status")

	// once mined and confirmed the key is valid
	tx := transactions["0xbb"]
	tx.Status = record.TransactionMined
	tx.BlockNumber = 60
	tx.Confirmations = 6
	transactions["0xbb"] = tx

	linked = linker.Link(keys, transactions, 6, now)
	assert.Equal(t, record.KeyValid, linked[lock].Status, "wrong status")
}

func TestLinkTieOnHash(t *testing.T) {
	keys := map[string]record.Key{
		lock: {Lock: lock, Owner: owner},
	}
	transactions := map[string]record.Transaction{
		"0x10": {Hash: "0x10", From: owner, Lock: lock, Status: record.TransactionPending},
		"0x20": {Hash: "0x20", From: owner, Lock: lock, Status: record.TransactionFailed, BlockNumber: 5},
		"0x30": {Hash: "0x30", From: owner, Lock: lock, Status: record.TransactionPending},
	}
	linked := linker.Link(keys, transactions, 6, now)
	assert.Equal(t, []string{"0x30", "0x10", "0x20"}, linked[lock].Transactions, "wrong order")
	assert.Equal(t, record.KeyPending, linked[lock].Status, "wrong status")
}
