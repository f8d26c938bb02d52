// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mailbox

import (
	"encoding/json"
	"strings"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/util"
)

// Kind - message type
type Kind string

// message types
const (
	Config               Kind = "CONFIG"
	SendUpdates          Kind = "SEND_UPDATES"
	PurchaseKey          Kind = "PURCHASE_KEY"
	UpdateAccount        Kind = "UPDATE_ACCOUNT"
	Ready                Kind = "READY"
	UpdateLocks          Kind = "UPDATE_LOCKS"
	UpdateAccountBalance Kind = "UPDATE_ACCOUNT_BALANCE"
	UpdateNetwork        Kind = "UPDATE_NETWORK"
	UpdateKeys           Kind = "UPDATE_KEYS"
	UpdateTransactions   Kind = "UPDATE_TRANSACTIONS"
	Locked               Kind = "LOCKED"
	Unlocked             Kind = "UNLOCKED"
	Error                Kind = "ERROR"
)

// Message - one message in either direction
type Message struct {
	Kind    Kind            `json:"type"`
	Origin  string          `json:"origin,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage - create a message with a JSON payload
func NewMessage(kind Kind, payload interface{}) Message {
	m := Message{
		Kind: kind,
	}
	if nil != payload {
		data, err := json.Marshal(payload)
		if nil == err {
			m.Payload = data
		}
	}
	return m
}

// Decode - unpack the payload
func (m Message) Decode(payload interface{}) error {
	if 0 == len(m.Payload) {
		return fault.MissingParameters
	}
	if err := json.Unmarshal(m.Payload, payload); nil != err {
		return fault.InvalidJSON
	}
	return nil
}

// LockConfig - per lock paywall settings
type LockConfig struct {
	Name string `json:"name" gluamapper:"name"`
}

// PaywallConfig - the CONFIG payload
type PaywallConfig struct {
	Locks        map[string]LockConfig `json:"locks" gluamapper:"locks"`
	CallToAction map[string]string     `json:"callToAction,omitempty" gluamapper:"call_to_action"`
	Icon         string                `json:"icon,omitempty" gluamapper:"icon"`
}

// call to action texts that a configuration may override
var callToActionKeys = map[string]struct{}{
	"default":   {},
	"expired":   {},
	"pending":   {},
	"confirmed": {},
	"noWallet":  {},
	"metadata":  {},
}

// maximum length of a lock name
const maximumNameLength = 200

// Validate - check a configuration and return it with lower case
// lock addresses
func (c PaywallConfig) Validate() (PaywallConfig, error) {
	if 0 == len(c.Locks) {
		return PaywallConfig{}, fault.MissingLocks
	}

	result := PaywallConfig{
		Locks: make(map[string]LockConfig, len(c.Locks)),
		Icon:  c.Icon,
	}

	for address, lock := range c.Locks {
		normalised, err := util.NormaliseAddress(address)
		if nil != err {
			return PaywallConfig{}, err
		}
		name := strings.TrimSpace(lock.Name)
		if "" == name || len(name) > maximumNameLength {
			return PaywallConfig{}, fault.InvalidLockName
		}
		result.Locks[normalised] = LockConfig{Name: name}
	}

	if 0 != len(c.CallToAction) {
		result.CallToAction = make(map[string]string, len(c.CallToAction))
		for k, v := range c.CallToAction {
			if _, ok := callToActionKeys[k]; !ok {
				return PaywallConfig{}, fault.InvalidConfiguration
			}
			result.CallToAction[k] = v
		}
	}
	return result, nil
}

// LockAddresses - the configured locks
func (c PaywallConfig) LockAddresses() []string {
	locks := make([]string, 0, len(c.Locks))
	for address := range c.Locks {
		locks = append(locks, address)
	}
	return locks
}

// PurchaseRequest - the PURCHASE_KEY payload
type PurchaseRequest struct {
	Lock     string `json:"lock"`
	ExtraTip string `json:"extraTip,omitempty"`
}

// UnlockedPayload - the locks that have a valid key
type UnlockedPayload []string
