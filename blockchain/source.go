// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"context"

	"github.com/unlock-protocol/unlockd/record"
)

// TransactionSource - stored transactions of an account
type TransactionSource interface {
	Transactions(ctx context.Context, sender string, recipients []string) ([]record.Transaction, error)
	SaveTransaction(ctx context.Context, tx record.Transaction, network uint64) error
}

// Callback - receives every new snapshot
type Callback func(snapshot *record.Snapshot)
