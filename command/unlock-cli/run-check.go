// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli"

	"github.com/unlock-protocol/unlockd/mailbox"
	"github.com/unlock-protocol/unlockd/rpc/paywall"
)

// the subset of the RPC client used by check
type paywallClient interface {
	Open(origin string, useDefault bool) (string, error)
	Post(sessionID string, message mailbox.Message) error
	Poll(sessionID string, count int) (*paywall.PollReply, error)
	CloseSession(sessionID string) error
}

func runCheck(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	conf, err := readPaywall(c.String("paywall"))
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	return check(m.w, client, checkParameters{
		origin:   c.String("origin"),
		account:  c.String("account"),
		config:   conf,
		interval: c.Duration("interval"),
		polls:    c.Int("polls"),
	})
}

type checkParameters struct {
	origin   string
	account  string
	config   *mailbox.PaywallConfig
	interval time.Duration
	polls    int
}

// open a session, configure it then poll and show every message
// until the polls are exhausted
func check(w io.Writer, client paywallClient, p checkParameters) error {

	id, err := client.Open(p.origin, false)
	if nil != err {
		return err
	}
	defer client.CloseSession(id)

	fmt.Fprintf(w, "session: %s\n", id)

	if err := client.Post(id, mailbox.NewMessage(mailbox.Config, p.config)); nil != err {
		return err
	}
	if "" != p.account {
		if err := client.Post(id, mailbox.NewMessage(mailbox.UpdateAccount, p.account)); nil != err {
			return err
		}
	}
	if err := client.Post(id, mailbox.NewMessage(mailbox.Ready, nil)); nil != err {
		return err
	}

	state := "unknown"
	for i := 0; i < p.polls; i += 1 {
		if i > 0 {
			time.Sleep(p.interval)
		}
		reply, err := client.Poll(id, 0)
		if nil != err {
			return err
		}
		if 0 != reply.Dropped {
			fmt.Fprintf(w, "dropped: %d\n", reply.Dropped)
		}
		for _, message := range reply.Messages {
			switch message.Kind {
			case mailbox.Locked:
				state = "locked"
			case mailbox.Unlocked:
				state = "unlocked"
			}
			fmt.Fprintf(w, "%-24s %s\n", message.Kind, message.Payload)
		}
	}

	fmt.Fprintf(w, "state: %s\n", state)
	return nil
}
