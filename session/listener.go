// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package session

import (
	"github.com/bitmark-inc/logger"

	"github.com/unlock-protocol/unlockd/cache"
	"github.com/unlock-protocol/unlockd/mailbox"
	"github.com/unlock-protocol/unlockd/messagebus"
)

// passes snapshot cache changes to every session
type cacheListener struct {
	log *logger.L
}

func (l *cacheListener) Run(args interface{}, shutdown <-chan struct{}) {
	queue := messagebus.Bus.Broadcast.Chan(0)
	defer messagebus.Bus.Broadcast.Release(queue)

	l.log.Info("cache listener starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item := <-queue:
			switch item.Command {
			case mailbox.CachePut, mailbox.CacheDelete:
				if 2 != len(item.Parameters) {
					l.log.Warnf("%s: bad parameter count: %d", item.Command, len(item.Parameters))
					continue loop
				}
				source := string(item.Parameters[0])
				key := string(item.Parameters[1])
				l.log.Tracef("%s: source: %s  key: %s", item.Command, source, key)
				for _, s := range cache.Pool.Sessions.Items() {
					s.(*Session).mailbox.CacheChanged(item.Command, source, key)
				}
			default:
			}
		}
	}
	l.log.Info("cache listener shutting down…")
}
