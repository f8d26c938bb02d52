// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package models - records stored by the locksmith backend
package models

import (
	"encoding/json"
	"time"
)

// Lock - a lock registered by its owner
type Lock struct {
	Address   string    `json:"address"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User - an account holder with an encrypted private key
//
// the recovery phrase is never returned, only its argon2 hash is stored
type User struct {
	EmailAddress                string          `json:"emailAddress"`
	PublicKey                   string          `json:"publicKey"`
	PasswordEncryptedPrivateKey json.RawMessage `json:"passwordEncryptedPrivateKey"`
	RecoveryPhraseHash          string          `json:"-"`
	CreatedAt                   time.Time       `json:"createdAt"`
}

// Event - an event organised around a lock
type Event struct {
	ID          string    `json:"id"`
	LockAddress string    `json:"lockAddress"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	Owner       string    `json:"owner"`
	Logo        string    `json:"logo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Metadata - arbitrary JSON attached to a lock or to one key
type Metadata map[string]interface{}

// Transaction - a transaction reported by a paywall or a dashboard
type Transaction struct {
	Hash      string    `json:"transactionHash"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	For       string    `json:"for,omitempty"`
	Data      string    `json:"data,omitempty"`
	ChainID   uint64    `json:"chain"`
	CreatedAt time.Time `json:"createdAt"`
}

// CheckoutConfig - a stored checkout flow description
type CheckoutConfig struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Owner     string          `json:"by"`
	Config    json.RawMessage `json:"config"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Price - the cost of one key on a lock
type Price struct {
	LockAddress string `json:"lockAddress"`
	KeyPrice    string `json:"keyPrice"`
	Currency    string `json:"currency"`
	USDCents    int64  `json:"usd"`
}
