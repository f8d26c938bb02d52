// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mailbox

import (
	"context"
	"sort"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/unlock-protocol/unlockd/blockchain"
	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/record"
	"github.com/unlock-protocol/unlockd/util"
)

// Handler - the blockchain handler operations used by a mailbox
type Handler interface {
	Start()
	Stop()
	SetAccount(account string) error
	Purchase(ctx context.Context, lock string, tip string) (string, error)
	Snapshot() *record.Snapshot
}

// HandlerFactory - create a handler for a lock set
type HandlerFactory func(locks []string, callback blockchain.Callback) (Handler, error)

// Sender - deliver an outbound message
type Sender func(message Message)

// update types accepted by SEND_UPDATES
var updateTypes = map[string]Kind{
	"locks":        UpdateLocks,
	"account":      UpdateAccount,
	"balance":      UpdateAccountBalance,
	"network":      UpdateNetwork,
	"keys":         UpdateKeys,
	"transactions": UpdateTransactions,
}

// Mailbox - message router for one session
type Mailbox struct {
	sync.Mutex

	log     *logger.L
	id      string
	factory HandlerFactory
	cache   SnapshotCache
	send    Sender

	origin     string
	config     *PaywallConfig
	cacheKey   string
	handler    Handler
	generation uint64
	snapshot   *record.Snapshot
	unlocked   *bool
}

// New - create a mailbox and announce that it is ready
func New(id string, factory HandlerFactory, cache SnapshotCache, send Sender) *Mailbox {
	m := &Mailbox{
		log:      logger.New("mailbox"),
		id:       id,
		factory:  factory,
		cache:    cache,
		send:     send,
		snapshot: record.NewSnapshot(),
	}
	m.send(NewMessage(Ready, nil))
	return m
}

// ID - the mailbox identifier
func (m *Mailbox) ID() string {
	return m.id
}

// Configured - true once a valid CONFIG was received
func (m *Mailbox) Configured() bool {
	m.Lock()
	defer m.Unlock()
	return nil != m.config
}

// Snapshot - copy of the current snapshot
func (m *Mailbox) Snapshot() *record.Snapshot {
	m.Lock()
	defer m.Unlock()
	return m.snapshot.Copy()
}

// Handle - process one inbound message
//
// any error is also sent to the host as an ERROR message
func (m *Mailbox) Handle(ctx context.Context, message Message) error {
	var err error
	switch message.Kind {
	case Config:
		err = m.configure(message)
	case SendUpdates:
		err = m.sendUpdates(message)
	case PurchaseKey:
		err = m.purchase(ctx, message)
	case UpdateAccount:
		err = m.updateAccount(message)
	case Ready:
		m.ready()
	default:
		err = fault.UnknownMessageType
	}

	if nil != err {
		m.log.Warnf("%s: %s  error: %s", m.id, message.Kind, err)
		m.send(NewMessage(Error, err.Error()))
	}
	return err
}

// Close - stop the handler, no more messages are sent
func (m *Mailbox) Close() {
	m.Lock()
	h := m.handler
	m.handler = nil
	m.generation += 1
	m.Unlock()

	if nil != h {
		h.Stop()
	}
	m.log.Debugf("%s: closed", m.id)
}

func (m *Mailbox) configure(message Message) error {
	var conf PaywallConfig
	if err := message.Decode(&conf); nil != err {
		return err
	}
	conf, err := conf.Validate()
	if nil != err {
		return err
	}

	m.Lock()

	if nil != m.config && m.origin != message.Origin {
		m.Unlock()
		return fault.UnauthorisedConfiguration
	}

	locks := conf.LockAddresses()
	key := CacheKey(locks)
	restart := nil == m.config || key != m.cacheKey

	m.origin = message.Origin
	m.config = &conf

	if !restart {
		m.Unlock()
		m.log.Debugf("%s: configuration updated", m.id)
		return nil
	}

	old := m.handler
	m.handler = nil
	m.generation += 1
	generation := m.generation
	m.cacheKey = key
	m.snapshot = m.load(key)
	m.unlocked = nil

	h, err := m.factory(locks, func(s *record.Snapshot) {
		m.update(generation, s)
	})
	if nil != err {
		m.config = nil
		m.Unlock()
		if nil != old {
			old.Stop()
		}
		return err
	}
	m.handler = h

	m.log.Infof("%s: configured locks: %v  cache: %s", m.id, locks, key)

	m.sendAll()
	h.Start()
	m.Unlock()

	if nil != old {
		old.Stop()
	}
	return nil
}

// read the cached snapshot, a malformed entry is removed
//
// must hold lock
func (m *Mailbox) load(key string) *record.Snapshot {
	data := m.cache.Get(key)
	if nil == data {
		return record.NewSnapshot()
	}
	s, err := record.DecodeSnapshot(data)
	if nil != err {
		m.log.Warnf("%s: cache: %s  error: %s", m.id, key, err)
		m.cache.Delete(m.id, key)
		return record.NewSnapshot()
	}
	return s
}

// handler callback
func (m *Mailbox) update(generation uint64, s *record.Snapshot) {
	m.Lock()
	defer m.Unlock()

	if generation != m.generation {
		return
	}

	previous := m.snapshot
	m.snapshot = s

	data, err := s.Encode()
	if nil != err {
		m.log.Errorf("%s: encode snapshot error: %s", m.id, err)
	} else {
		m.cache.Put(m.id, m.cacheKey, data)
	}

	m.sendChanges(previous, s)
}

// CacheChanged - react to a cache change made by another mailbox
func (m *Mailbox) CacheChanged(command string, source string, key string) {
	m.Lock()
	defer m.Unlock()

	if source == m.id || nil == m.config || key != m.cacheKey {
		return
	}

	previous := m.snapshot
	var next *record.Snapshot

	switch command {
	case CachePut:
		s, err := record.DecodeSnapshot(m.cache.Get(key))
		if nil != err {
			// treated as a delete, the same as a malformed entry on load
			m.log.Warnf("%s: reload cache: %s  error: %s", m.id, key, err)
			m.cache.Delete(m.id, key)
			next = m.liveSnapshot()
			break
		}
		// another account's view of the same locks
		if s.Account != previous.Account {
			return
		}
		next = s
	case CacheDelete:
		next = m.liveSnapshot()
	default:
		return
	}

	m.log.Debugf("%s: reload from: %s", m.id, source)
	m.snapshot = next
	m.sendChanges(previous, next)
}

// the handler's current data, empty when there is no handler
//
// must hold lock
func (m *Mailbox) liveSnapshot() *record.Snapshot {
	if nil == m.handler {
		return record.NewSnapshot()
	}
	return m.handler.Snapshot()
}

func (m *Mailbox) sendUpdates(message Message) error {
	var updateType string
	if err := message.Decode(&updateType); nil != err {
		return err
	}

	kind, ok := updateTypes[updateType]
	if !ok {
		return fault.InvalidUpdateType
	}

	m.Lock()
	defer m.Unlock()
	if nil == m.config {
		return fault.NotConfigured
	}
	m.sendField(kind, m.snapshot)
	return nil
}

func (m *Mailbox) purchase(ctx context.Context, message Message) error {
	var request PurchaseRequest
	if err := message.Decode(&request); nil != err {
		return err
	}

	lock, err := util.NormaliseAddress(request.Lock)
	if nil != err {
		return err
	}

	tip := request.ExtraTip
	if "" == tip {
		tip = "0"
	}
	amount, err := decimal.NewFromString(tip)
	if nil != err || amount.IsNegative() {
		return fault.InvalidTip
	}

	m.Lock()
	if nil == m.config || nil == m.handler {
		m.Unlock()
		return fault.NotConfigured
	}
	if _, ok := m.config.Locks[lock]; !ok {
		m.Unlock()
		return fault.LockNotConfigured
	}
	m.cache.Delete(m.id, m.cacheKey)
	h := m.handler
	m.Unlock()

	// the handler reports the new transaction through the callback
	_, err = h.Purchase(ctx, lock, amount.String())
	return err
}

func (m *Mailbox) updateAccount(message Message) error {
	var account string
	if err := message.Decode(&account); nil != err {
		return err
	}
	if "" != account {
		a, err := util.NormaliseAddress(account)
		if nil != err {
			return fault.InvalidAccount
		}
		account = a
	}

	m.Lock()
	if nil == m.config || nil == m.handler {
		m.Unlock()
		return fault.NotConfigured
	}
	h := m.handler
	m.Unlock()

	return h.SetAccount(account)
}

func (m *Mailbox) ready() {
	m.Lock()
	defer m.Unlock()
	if nil == m.config {
		m.send(NewMessage(Ready, nil))
		return
	}
	m.sendAll()
}

// send every field and the lock state
//
// must hold lock
func (m *Mailbox) sendAll() {
	for _, kind := range []Kind{UpdateLocks, UpdateAccount, UpdateAccountBalance, UpdateNetwork, UpdateKeys, UpdateTransactions} {
		m.sendField(kind, m.snapshot)
	}
	m.unlocked = nil
	m.sendLockState(m.snapshot)
}

// send only the fields that differ
//
// must hold lock
func (m *Mailbox) sendChanges(previous *record.Snapshot, next *record.Snapshot) {
	if !cmp.Equal(previous.Locks, next.Locks) {
		m.sendField(UpdateLocks, next)
	}
	if previous.Account != next.Account {
		m.sendField(UpdateAccount, next)
	}
	if previous.Balance != next.Balance {
		m.sendField(UpdateAccountBalance, next)
	}
	if previous.Network != next.Network {
		m.sendField(UpdateNetwork, next)
	}
	if !cmp.Equal(previous.Keys, next.Keys) {
		m.sendField(UpdateKeys, next)
	}
	if !cmp.Equal(previous.Transactions, next.Transactions) {
		m.sendField(UpdateTransactions, next)
	}
	m.sendLockState(next)
}

// must hold lock
func (m *Mailbox) sendField(kind Kind, s *record.Snapshot) {
	var payload interface{}
	switch kind {
	case UpdateLocks:
		payload = s.Locks
	case UpdateAccount:
		payload = s.Account
	case UpdateAccountBalance:
		payload = s.Balance
	case UpdateNetwork:
		payload = s.Network
	case UpdateKeys:
		payload = s.Keys
	case UpdateTransactions:
		payload = s.Transactions
	default:
		return
	}
	m.send(NewMessage(kind, payload))
}

// send LOCKED or UNLOCKED when the state changes
//
// must hold lock
func (m *Mailbox) sendLockState(s *record.Snapshot) {
	valid := UnlockedPayload{}
	for lock := range m.config.Locks {
		if key, ok := s.Keys[lock]; ok && record.KeyValid == key.Status {
			valid = append(valid, lock)
		}
	}
	sort.Strings(valid)

	unlocked := 0 != len(valid)
	if nil != m.unlocked && unlocked == *m.unlocked {
		return
	}
	m.unlocked = &unlocked

	if unlocked {
		m.log.Infof("%s: unlocked: %v", m.id, valid)
		m.send(NewMessage(Unlocked, valid))
	} else {
		m.log.Infof("%s: locked", m.id)
		m.send(NewMessage(Locked, nil))
	}
}
