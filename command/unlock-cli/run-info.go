// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/unlock-protocol/unlockd/command/unlock-cli/rpccalls"
)

func runInfo(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	info, err := client.GetInfo()
	if nil != err {
		return err
	}

	return printJson(m.w, info)
}

// connect to the configured unlockd
func connect(m *metadata) (*rpccalls.Client, error) {
	return rpccalls.NewClient(m.connect, m.timeout, m.verbose, m.e)
}
