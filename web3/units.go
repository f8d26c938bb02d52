// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package web3

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/unlock-protocol/unlockd/fault"
)

// native currency decimals
const etherDecimals = 18

// FromWei - convert an integer amount in the smallest unit to a
// decimal string
func FromWei(amount *big.Int, decimals uint8) string {
	if nil == amount {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}

// ToWei - convert a decimal string to an integer amount in the
// smallest unit, any fraction smaller than one unit is truncated
func ToWei(amount string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if nil != err {
		return nil, fault.InvalidAmount
	}
	if d.IsNegative() {
		return nil, fault.InvalidAmount
	}
	return d.Shift(int32(decimals)).BigInt(), nil
}
