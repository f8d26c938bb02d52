// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package web3

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// the subset of the PublicLock interface used by the paywall
const publicLockABI = `[
{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"keyPrice","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"expirationDuration","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"maxNumberOfKeys","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"tokenAddress","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"keyExpirationTimestampFor","stateMutability":"view","inputs":[{"name":"_owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"purchase","stateMutability":"payable","inputs":[{"name":"_value","type":"uint256"},{"name":"_recipient","type":"address"},{"name":"_referrer","type":"address"},{"name":"_data","type":"bytes"}],"outputs":[]}
]`

// the subset of ERC20 needed to price keys
const erc20ABI = `[
{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"_owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

var (
	// PublicLock - parsed lock contract interface
	PublicLock = mustParse(publicLockABI)

	// ERC20 - parsed token contract interface
	ERC20 = mustParse(erc20ABI)
)

func mustParse(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if nil != err {
		panic("web3: invalid ABI: " + err.Error())
	}
	return parsed
}
