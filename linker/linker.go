// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package linker - attach transactions to keys and derive key status
package linker

import (
	"sort"
	"strings"

	"github.com/unlock-protocol/unlockd/record"
)

// KeyStatus - derive the status of a key from its driving transaction
//
// tx may be nil when the key has no transactions
func KeyStatus(key record.Key, tx *record.Transaction, requiredConfirmations uint64, now int64) record.KeyStatus {
	if nil != tx {
		switch tx.Status {
		case record.TransactionSubmitted:
			return record.KeySubmitted
		case record.TransactionPending:
			return record.KeyPending
		case record.TransactionFailed:
			return record.KeyFailed
		case record.TransactionMined:
			if tx.Confirmations < requiredConfirmations {
				return record.KeyConfirming
			}
		}
	}

	if key.Expiration > now {
		return record.KeyValid
	}
	if key.Expiration > 0 {
		return record.KeyExpired
	}
	return record.KeyNone
}

// Link - attach the transactions to each key and set key status
//
// keys are indexed by lock address, a new map is returned and the
// input is not modified
func Link(keys map[string]record.Key, transactions map[string]record.Transaction, requiredConfirmations uint64, now int64) map[string]record.Key {
	linked := make(map[string]record.Key, len(keys))

	for lock, key := range keys {
		matched := make([]record.Transaction, 0, 4)
		for _, tx := range transactions {
			if belongsTo(key, tx) {
				matched = append(matched, tx)
			}
		}

		sort.Slice(matched, func(i, j int) bool {
			return newer(matched[i], matched[j])
		})

		k := key.Copy()
		k.Transactions = nil
		k.Confirmations = 0

		var driving *record.Transaction
		if len(matched) > 0 {
			driving = &matched[0]
			k.Confirmations = driving.Confirmations
			k.Transactions = make([]string, len(matched))
			for i, tx := range matched {
				k.Transactions[i] = tx.Hash
			}
		}
		k.Status = KeyStatus(k, driving, requiredConfirmations, now)
		linked[lock] = k
	}
	return linked
}

// the transaction concerns the lock and the owner of the key
func belongsTo(key record.Key, tx record.Transaction) bool {
	lock := tx.Lock
	if "" == lock {
		lock = tx.To
	}
	if !strings.EqualFold(lock, key.Lock) {
		return false
	}
	return strings.EqualFold(tx.Owner(), key.Owner)
}

// ordering: unmined first, then highest block, then hash
func newer(a record.Transaction, b record.Transaction) bool {
	aMined := a.Status.Mined()
	bMined := b.Status.Mined()
	if aMined != bMined {
		return !aMined
	}
	if a.BlockNumber != b.BlockNumber {
		return a.BlockNumber > b.BlockNumber
	}
	return a.Hash > b.Hash
}
