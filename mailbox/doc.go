// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mailbox - route paywall messages for one session
//
// a mailbox accepts a paywall configuration, keeps the latest
// snapshot for the configured locks, caches it and tells the host
// about every change.  Outbound messages are only sent for fields
// that changed, LOCKED and UNLOCKED are only sent when the lock state
// changes.
//
//   inbound:  CONFIG, SEND_UPDATES, PURCHASE_KEY, UPDATE_ACCOUNT, READY
//   outbound: UPDATE_LOCKS, UPDATE_ACCOUNT, UPDATE_ACCOUNT_BALANCE,
//             UPDATE_NETWORK, UPDATE_KEYS, UPDATE_TRANSACTIONS,
//             LOCKED, UNLOCKED, ERROR, READY
package mailbox
