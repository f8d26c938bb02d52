// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/urfave/cli"

	"github.com/unlock-protocol/unlockd/locksmith/client"
)

func locksmithClient(m *metadata) *client.Client {
	return client.New(m.locksmith, m.timeout)
}

func runLock(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	address, err := checkAddress(c.String("address"))
	if nil != err {
		return err
	}

	lock, err := locksmithClient(m).Lock(context.Background(), address)
	if nil != err {
		return err
	}
	return printJson(m.w, lock)
}

func runLocks(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	owner, err := checkAddress(c.String("owner"))
	if nil != err {
		return err
	}

	locks, err := locksmithClient(m).Locks(context.Background(), owner)
	if nil != err {
		return err
	}
	return printJson(m.w, locks)
}

func runPrice(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	address, err := checkAddress(c.String("address"))
	if nil != err {
		return err
	}

	price, err := locksmithClient(m).Price(context.Background(), address)
	if nil != err {
		return err
	}
	return printJson(m.w, price)
}

func runTransactions(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	sender, err := checkAddress(c.String("sender"))
	if nil != err {
		return err
	}

	recipients := []string{}
	for _, r := range c.StringSlice("recipient") {
		address, err := checkAddress(r)
		if nil != err {
			return err
		}
		recipients = append(recipients, address)
	}
	if 0 == len(recipients) {
		return ErrRequiredRecipient
	}

	transactions, err := locksmithClient(m).Transactions(context.Background(), sender, recipients)
	if nil != err {
		return err
	}
	return printJson(m.w, transactions)
}
