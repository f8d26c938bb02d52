// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockchain - reconcile chain and locksmith data for one
// lock set into snapshots
//
// a handler runs one poller for each of account, balance, network,
// locks, keys and transactions.  Whenever a poller reports a change
// the keys are relinked to their transactions and a fresh snapshot is
// passed to the callback.
//
// the callback must not call back into the handler while holding a
// lock that the handler's caller also holds
package blockchain
