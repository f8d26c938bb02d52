// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/unlock-protocol/unlockd/fault"
)

// ChecksumAddress - validate a hex address and return its EIP-55 form
func ChecksumAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) || !strings.HasPrefix(strings.ToLower(address), "0x") {
		return "", fault.InvalidAddress
	}
	return common.HexToAddress(address).Hex(), nil
}

// NormaliseAddress - validate a hex address and return it in lower case
func NormaliseAddress(address string) (string, error) {
	checksummed, err := ChecksumAddress(address)
	if nil != err {
		return "", err
	}
	return strings.ToLower(checksummed), nil
}

// SameAddress - compare two addresses ignoring case
func SameAddress(a string, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
