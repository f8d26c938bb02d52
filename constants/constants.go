// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package constants

import (
	"time"
)

// polling intervals for the paywall pollers
const (
	AccountPollInterval     = 2 * time.Second
	NetworkPollInterval     = 5 * time.Second
	BalancePollInterval     = 5 * time.Second
	KeyPollInterval         = 15 * time.Second
	LockPollInterval        = 5 * time.Minute
	TransactionPollInterval = 5 * time.Second
	StatusPollInterval      = 5 * time.Second
)

// the longest a single poll may take before it is abandoned
const (
	PollTimeout = 20 * time.Second
)

// a stored transaction unknown to the node for this long is treated
// as dropped or replaced
const (
	DroppedTransactionTimeout = 10 * time.Minute
)

// sessions not polled for this long are closed
const (
	SessionTimeout = 30 * time.Minute
)

// cached paywall snapshots older than this are ignored
const (
	SnapshotCacheTimeout = 24 * time.Hour
)
