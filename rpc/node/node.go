// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"encoding/hex"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/unlock-protocol/unlockd/rpc/ratelimit"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// SessionCounter - source of the open session count
type SessionCounter interface {
	Count() int
}

// Node - type for RPC calls
type Node struct {
	Log       *logger.L
	Limiter   *rate.Limiter
	Start     time.Time
	Version   string
	Sessions  SessionCounter
	PublicKey []byte
	counter   *atomic.Uint64
}

// New - create the Node RPC receiver
func New(log *logger.L, start time.Time, version string, counter *atomic.Uint64, sessions SessionCounter, publicKey []byte) *Node {
	return &Node{
		Log:       log,
		Limiter:   rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:     start,
		Version:   version,
		Sessions:  sessions,
		PublicKey: publicKey,
		counter:   counter,
	}
}

// ---

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	RPCs      uint64 `json:"rpcs"`
	Sessions  int    `json:"sessions"`
	PublicKey string `json:"publicKey"`
}

// Info - return some information about this node
//
// PublicKey is the key for subscribing to published notifications
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {

	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	reply.RPCs = node.counter.Load()
	reply.Sessions = node.Sessions.Count()
	reply.PublicKey = hex.EncodeToString(node.PublicKey)
	return nil
}
