// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/unlock-protocol/unlockd/configuration"
	"github.com/unlock-protocol/unlockd/mailbox"
)

// read and validate a paywall configuration written in Lua
func readPaywall(fileName string) (*mailbox.PaywallConfig, error) {
	if "" == fileName {
		return nil, ErrRequiredPaywall
	}

	conf := mailbox.PaywallConfig{}
	if err := configuration.ParseConfigurationFile(fileName, &conf, nil); nil != err {
		return nil, err
	}

	validated, err := conf.Validate()
	if nil != err {
		return nil, err
	}
	return &validated, nil
}
