// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package web3 - read lock and key state from an Ethereum node and
// send key purchases through the node's unlocked account
package web3

import (
	"context"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/unlock-protocol/unlockd/record"
)

// Reader - read-only access to chain state
type Reader interface {
	NetworkID(ctx context.Context) (uint64, error)
	BlockNumber(ctx context.Context) (uint64, error)
	Balance(ctx context.Context, account string) (string, error)
	Lock(ctx context.Context, address string) (record.Lock, error)
	KeyExpiration(ctx context.Context, lock string, owner string) (int64, error)
	Transaction(ctx context.Context, hash string) (record.Transaction, error)
}

// Wallet - access to the node's account
type Wallet interface {
	Account(ctx context.Context) (string, error)
	PurchaseKey(ctx context.Context, request PurchaseRequest) (string, error)
}

// PurchaseRequest - the data to buy a key
//
// Tip is added to the key price, both are decimal strings in units
// of the lock currency
type PurchaseRequest struct {
	Lock     record.Lock
	Owner    string
	Referrer string
	Tip      string
}

// Backend - the part of ethclient.Client used here
type Backend interface {
	NetworkID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// Caller - raw JSON-RPC access for account operations
type Caller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}
