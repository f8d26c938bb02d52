// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package server - the set of RPC receivers
package server

import (
	"net/rpc"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/unlock-protocol/unlockd/rpc/node"
	"github.com/unlock-protocol/unlockd/rpc/paywall"
)

// Create - an RPC server with Paywall and Node registered
func Create(log *logger.L, version string, rpcCount *atomic.Uint64, sessions paywall.Sessions, publicKey []byte) *rpc.Server {

	start := time.Now().UTC()

	server := rpc.NewServer()

	_ = server.Register(paywall.New(log, sessions))
	_ = server.Register(node.New(log, start, version, rpcCount, sessions, publicKey))

	return server
}
