// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"encoding/json"

	"github.com/unlock-protocol/unlockd/fault"
)

// Snapshot - aggregate chain data for one account and lock set
//
// a snapshot is treated as an immutable value, every change produces
// a fresh copy
type Snapshot struct {
	Locks        map[string]Lock        `json:"locks"`
	Account      string                 `json:"account"`
	Balance      string                 `json:"balance"`
	Network      uint64                 `json:"network"`
	Keys         map[string]Key         `json:"keys"`
	Transactions map[string]Transaction `json:"transactions"`
}

// NewSnapshot - an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Locks:        make(map[string]Lock),
		Balance:      "0",
		Keys:         make(map[string]Key),
		Transactions: make(map[string]Transaction),
	}
}

// Copy - deep copy of a snapshot
func (s *Snapshot) Copy() *Snapshot {
	if nil == s {
		return NewSnapshot()
	}
	c := &Snapshot{
		Locks:        make(map[string]Lock, len(s.Locks)),
		Account:      s.Account,
		Balance:      s.Balance,
		Network:      s.Network,
		Keys:         make(map[string]Key, len(s.Keys)),
		Transactions: make(map[string]Transaction, len(s.Transactions)),
	}
	for k, v := range s.Locks {
		c.Locks[k] = v
	}
	for k, v := range s.Keys {
		c.Keys[k] = v.Copy()
	}
	for k, v := range s.Transactions {
		c.Transactions[k] = v
	}
	return c
}

// Encode - JSON form of a snapshot for the cache
func (s *Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot - restore a snapshot from its cached form
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	if 0 == len(data) {
		return nil, fault.CacheDataMalformed
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); nil != err {
		return nil, fault.CacheDataMalformed
	}
	if nil == s.Locks || nil == s.Keys || nil == s.Transactions {
		return nil, fault.CacheDataMalformed
	}
	if "" == s.Balance {
		s.Balance = "0"
	}
	return &s, nil
}
