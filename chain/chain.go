// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chain - the Ethereum networks that host Unlock locks
package chain

// network ids
const (
	Mainnet uint64 = 1
	Rinkeby uint64 = 4
	Goerli  uint64 = 5
	XDai    uint64 = 100
	Polygon uint64 = 137
	Local   uint64 = 1337
	Hardhat uint64 = 31337
)

type network struct {
	name          string
	confirmations uint64
	testing       bool
}

var networks = map[uint64]network{
	Mainnet: {name: "mainnet", confirmations: 12},
	Rinkeby: {name: "rinkeby", confirmations: 6, testing: true},
	Goerli:  {name: "goerli", confirmations: 6, testing: true},
	XDai:    {name: "xdai", confirmations: 12},
	Polygon: {name: "polygon", confirmations: 12},
	Local:   {name: "local", confirmations: 1, testing: true},
	Hardhat: {name: "hardhat", confirmations: 1, testing: true},
}

// Valid - true for a supported network id
func Valid(id uint64) bool {
	_, ok := networks[id]
	return ok
}

// Name - readable network name, "unknown" for unsupported ids
func Name(id uint64) string {
	if n, ok := networks[id]; ok {
		return n.name
	}
	return "unknown"
}

// IsTesting - true for test networks
func IsTesting(id uint64) bool {
	return networks[id].testing
}

// RequiredConfirmations - number of blocks before a transaction is
// considered final, unknown networks use the mainnet value
func RequiredConfirmations(id uint64) uint64 {
	if n, ok := networks[id]; ok {
		return n.confirmations
	}
	return networks[Mainnet].confirmations
}
