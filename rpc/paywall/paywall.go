// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package paywall

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/mailbox"
	"github.com/unlock-protocol/unlockd/rpc/ratelimit"
)

const (
	rateLimitPaywall = 200
	rateBurstPaywall = 100
)

// limit for Poll count
const maximumPoll = 100

// the longest a posted message may take, purchases wait for the wallet
const postTimeout = 2 * time.Minute

// Sessions - the session registry operations
type Sessions interface {
	Open(ctx context.Context, origin string, useDefault bool) (string, error)
	Post(ctx context.Context, id string, message mailbox.Message) error
	Poll(id string, max int) ([]mailbox.Message, uint64, error)
	Close(id string) error
	Count() int
}

// Paywall - type for RPC calls
type Paywall struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Sessions Sessions
}

// New - create the Paywall RPC receiver
func New(log *logger.L, sessions Sessions) *Paywall {
	return &Paywall{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitPaywall, rateBurstPaywall),
		Sessions: sessions,
	}
}

// ---

// OpenArguments - arguments for Open
type OpenArguments struct {
	Origin  string `json:"origin"`
	Default bool   `json:"default"`
}

// OpenReply - result from Open
type OpenReply struct {
	SessionID string `json:"sessionId"`
}

// Open - start a paywall session, its first queued message is READY
func (paywall *Paywall) Open(arguments *OpenArguments, reply *OpenReply) error {

	if err := ratelimit.Limit(paywall.Limiter); nil != err {
		return err
	}

	if nil == arguments || "" == arguments.Origin {
		return fault.MissingParameters
	}

	id, err := paywall.Sessions.Open(context.Background(), arguments.Origin, arguments.Default)
	if nil != err {
		return err
	}

	paywall.Log.Infof("open: %s  origin: %q", id, arguments.Origin)

	reply.SessionID = id
	return nil
}

// ---

// PostArguments - arguments for Post
type PostArguments struct {
	SessionID string          `json:"sessionId"`
	Message   mailbox.Message `json:"message"`
}

// PostReply - result from Post
type PostReply struct{}

// Post - deliver a host message to a session
func (paywall *Paywall) Post(arguments *PostArguments, reply *PostReply) error {

	if err := ratelimit.Limit(paywall.Limiter); nil != err {
		return err
	}

	if nil == arguments || "" == arguments.SessionID || "" == arguments.Message.Kind {
		return fault.MissingParameters
	}

	paywall.Log.Debugf("post: %s  kind: %s", arguments.SessionID, arguments.Message.Kind)

	ctx, cancel := context.WithTimeout(context.Background(), postTimeout)
	defer cancel()

	return paywall.Sessions.Post(ctx, arguments.SessionID, arguments.Message)
}

// ---

// PollArguments - arguments for Poll
type PollArguments struct {
	SessionID string `json:"sessionId"`
	Count     int    `json:"count"`
}

// PollReply - result from Poll
type PollReply struct {
	Messages []mailbox.Message `json:"messages"`
	Dropped  uint64            `json:"dropped"`
}

// Poll - fetch queued outbound messages, zero count for the maximum
func (paywall *Paywall) Poll(arguments *PollArguments, reply *PollReply) error {

	if nil == arguments || "" == arguments.SessionID {
		return fault.MissingParameters
	}

	count := arguments.Count
	if 0 == count {
		count = maximumPoll
	}
	if err := ratelimit.LimitN(paywall.Limiter, count, maximumPoll); nil != err {
		return err
	}

	messages, dropped, err := paywall.Sessions.Poll(arguments.SessionID, count)
	if nil != err {
		return err
	}

	reply.Messages = messages
	reply.Dropped = dropped
	return nil
}

// ---

// CloseArguments - arguments for Close
type CloseArguments struct {
	SessionID string `json:"sessionId"`
}

// CloseReply - result from Close
type CloseReply struct{}

// Close - end a session and stop its blockchain polling
func (paywall *Paywall) Close(arguments *CloseArguments, reply *CloseReply) error {

	if err := ratelimit.Limit(paywall.Limiter); nil != err {
		return err
	}

	if nil == arguments || "" == arguments.SessionID {
		return fault.MissingParameters
	}

	paywall.Log.Infof("close: %s", arguments.SessionID)

	return paywall.Sessions.Close(arguments.SessionID)
}
