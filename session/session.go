// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/unlock-protocol/unlockd/mailbox"
	"github.com/unlock-protocol/unlockd/messagebus"
)

// notification command for outbound messages
//
// parameters: [session id, message kind, message JSON]
const NotifyCommand = "message"

// Session - one open paywall
type Session struct {
	sync.Mutex

	id         string
	origin     string
	useDefault bool
	mailbox    *mailbox.Mailbox

	outbound []mailbox.Message
	limit    int
	dropped  uint64
}

// queue an outbound message, the oldest is dropped when full
func (s *Session) deliver(message mailbox.Message) {
	s.Lock()
	if len(s.outbound) >= s.limit {
		s.outbound = s.outbound[1:]
		s.dropped += 1
	}
	s.outbound = append(s.outbound, message)
	s.Unlock()

	data, err := json.Marshal(message)
	if nil != err {
		globalData.log.Errorf("%s: encode: %s  error: %s", s.id, message.Kind, err)
		return
	}
	if !messagebus.Bus.Notifications.Send(NotifyCommand, []byte(s.id), []byte(message.Kind), data) {
		globalData.log.Debugf("%s: notification queue full", s.id)
	}
}

// remove queued messages and return the count dropped since the
// previous call
func (s *Session) take(max int) ([]mailbox.Message, uint64) {
	s.Lock()
	defer s.Unlock()

	n := len(s.outbound)
	if max > 0 && max < n {
		n = max
	}
	messages := make([]mailbox.Message, n)
	copy(messages, s.outbound[:n])
	s.outbound = s.outbound[n:]

	dropped := s.dropped
	s.dropped = 0
	return messages, dropped
}

func (s *Session) configure(ctx context.Context, conf mailbox.PaywallConfig) {
	message := mailbox.NewMessage(mailbox.Config, conf)
	message.Origin = s.origin
	if err := s.mailbox.Handle(ctx, message); nil != err {
		globalData.log.Warnf("%s: default configuration error: %s", s.id, err)
	}
}
