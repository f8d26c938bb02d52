// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli"

	"github.com/unlock-protocol/unlockd/mailbox"
)

type openReply struct {
	SessionID string `json:"sessionId"`
}

func runOpen(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	origin, err := checkOrigin(c.String("origin"))
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	id, err := client.Open(origin, c.Bool("default"))
	if nil != err {
		return err
	}

	return printJson(m.w, openReply{SessionID: id})
}

func runPost(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkSession(c.String("session"))
	if nil != err {
		return err
	}

	message, err := messageFromFlags(c.String("type"), c.String("payload"), c.String("paywall"))
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	if err := client.Post(id, message); nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "posted: %s\n", message.Kind)
	}
	return nil
}

func runPoll(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkSession(c.String("session"))
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Poll(id, c.Int("count"))
	if nil != err {
		return err
	}

	return printJson(m.w, reply)
}

func runClose(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkSession(c.String("session"))
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	return client.CloseSession(id)
}

// build a message from either a paywall file or a type and JSON payload
func messageFromFlags(kind string, payload string, paywallFile string) (mailbox.Message, error) {

	if "" != paywallFile {
		conf, err := readPaywall(paywallFile)
		if nil != err {
			return mailbox.Message{}, err
		}
		return mailbox.NewMessage(mailbox.Config, conf), nil
	}

	if "" == kind {
		return mailbox.Message{}, ErrRequiredMessageType
	}

	message := mailbox.Message{
		Kind: mailbox.Kind(kind),
	}
	if "" != payload {
		if !json.Valid([]byte(payload)) {
			// bare words are sent as JSON strings e.g. SEND_UPDATES locks
			data, err := json.Marshal(payload)
			if nil != err {
				return mailbox.Message{}, err
			}
			payload = string(data)
		}
		message.Payload = json.RawMessage(payload)
	}
	return message, nil
}
