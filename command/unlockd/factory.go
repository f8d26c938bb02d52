// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/unlock-protocol/unlockd/blockchain"
	"github.com/unlock-protocol/unlockd/mailbox"
	"github.com/unlock-protocol/unlockd/web3"
)

// builds a blockchain handler for each configured session
type handlerFactory struct {
	reader   web3.Reader
	wallet   web3.Wallet
	source   blockchain.TransactionSource
	required uint64
}

func (f *handlerFactory) create(locks []string, callback blockchain.Callback) (mailbox.Handler, error) {
	h, err := blockchain.New(blockchain.Configuration{
		Reader:                f.reader,
		Wallet:                f.wallet,
		Transactions:          f.source,
		Locks:                 locks,
		RequiredConfirmations: f.required,
		Callback:              callback,
	})
	if nil != err {
		return nil, err
	}
	return h, nil
}
