// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/unlock-protocol/unlockd/mailbox"
	"github.com/unlock-protocol/unlockd/rpc/paywall"
)

// Open - start a session for an origin
func (c *Client) Open(origin string, useDefault bool) (string, error) {
	arguments := paywall.OpenArguments{
		Origin:  origin,
		Default: useDefault,
	}
	var reply paywall.OpenReply
	if err := c.call("Paywall.Open", &arguments, &reply); nil != err {
		return "", err
	}
	return reply.SessionID, nil
}

// Post - send a message to a session
func (c *Client) Post(sessionID string, message mailbox.Message) error {
	arguments := paywall.PostArguments{
		SessionID: sessionID,
		Message:   message,
	}
	var reply paywall.PostReply
	return c.call("Paywall.Post", &arguments, &reply)
}

// Poll - fetch up to count queued messages, zero for the server maximum
func (c *Client) Poll(sessionID string, count int) (*paywall.PollReply, error) {
	arguments := paywall.PollArguments{
		SessionID: sessionID,
		Count:     count,
	}
	var reply paywall.PollReply
	if err := c.call("Paywall.Poll", &arguments, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// CloseSession - end a session
func (c *Client) CloseSession(sessionID string) error {
	arguments := paywall.CloseArguments{
		SessionID: sessionID,
	}
	var reply paywall.CloseReply
	return c.call("Paywall.Close", &arguments, &reply)
}
