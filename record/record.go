// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"strings"
)

// Lock - the terms of a lock contract
//
// KeyPrice is a decimal string in units of the lock currency, an
// empty CurrencyContractAddress means the native currency and a
// MaxNumberOfKeys of -1 means unlimited
type Lock struct {
	Address                 string `json:"address"`
	Name                    string `json:"name"`
	KeyPrice                string `json:"keyPrice"`
	ExpirationDuration      uint64 `json:"expirationDuration"`
	CurrencyContractAddress string `json:"currencyContractAddress,omitempty"`
	MaxNumberOfKeys         int64  `json:"maxNumberOfKeys"`
	OutstandingKeys         uint64 `json:"outstandingKeys"`
	Owner                   string `json:"owner"`
}

// Key - a membership of one owner on one lock
type Key struct {
	ID            string    `json:"id"`
	Lock          string    `json:"lock"`
	Owner         string    `json:"owner"`
	Expiration    int64     `json:"expiration"`
	Status        KeyStatus `json:"status"`
	Confirmations uint64    `json:"confirmations"`
	Transactions  []string  `json:"transactions,omitempty"`
}

// Transaction - a chain transaction affecting a lock
//
// For is the key owner, when empty the sender is the owner
type Transaction struct {
	Hash          string            `json:"hash"`
	From          string            `json:"from"`
	To            string            `json:"to"`
	For           string            `json:"for,omitempty"`
	Lock          string            `json:"lock"`
	Confirmations uint64            `json:"confirmations"`
	BlockNumber   uint64            `json:"blockNumber"`
	Status        TransactionStatus `json:"status"`
	Type          TransactionType   `json:"type"`
}

// KeyID - identifier of the key for an owner on a lock
func KeyID(lock string, owner string) string {
	return strings.ToLower(lock) + "-" + strings.ToLower(owner)
}

// NewKey - an empty key for an owner on a lock
func NewKey(lock string, owner string) Key {
	return Key{
		ID:    KeyID(lock, owner),
		Lock:  strings.ToLower(lock),
		Owner: strings.ToLower(owner),
	}
}

// Owner - the address that will own the key
func (t Transaction) Owner() string {
	if "" != t.For {
		return strings.ToLower(t.For)
	}
	return strings.ToLower(t.From)
}

// Copy - duplicate a key including its transaction list
func (k Key) Copy() Key {
	if nil != k.Transactions {
		k.Transactions = append([]string(nil), k.Transactions...)
	}
	return k
}
