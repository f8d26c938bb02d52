// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/util"
)

// common errors - keep in alphabetic order
var (
	ErrRequiredAddress     = fault.InvalidError("address is required")
	ErrRequiredMessageType = fault.InvalidError("message type is required")
	ErrRequiredOrigin      = fault.InvalidError("origin is required")
	ErrRequiredPaywall     = fault.InvalidError("paywall file is required")
	ErrRequiredRecipient   = fault.InvalidError("recipient is required")
	ErrRequiredSession     = fault.InvalidError("session id is required")
)

func checkOrigin(origin string) (string, error) {
	if "" == origin {
		return "", ErrRequiredOrigin
	}
	return origin, nil
}

func checkSession(id string) (string, error) {
	if "" == id {
		return "", ErrRequiredSession
	}
	return id, nil
}

// address is required and must be valid, the result is checksummed
func checkAddress(address string) (string, error) {
	if "" == address {
		return "", ErrRequiredAddress
	}
	return util.ChecksumAddress(address)
}
