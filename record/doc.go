// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package record - the data records shared by the paywall pipeline
//
// locks, keys and transactions as read from the chain and from
// locksmith, plus the aggregate snapshot that is handed to a mailbox
// after every reconciliation pass.  Addresses are held in lower case.
package record
