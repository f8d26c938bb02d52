// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/unlock-protocol/unlockd/background"
	"github.com/unlock-protocol/unlockd/chain"
	"github.com/unlock-protocol/unlockd/constants"
	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/linker"
	"github.com/unlock-protocol/unlockd/poller"
	"github.com/unlock-protocol/unlockd/record"
	"github.com/unlock-protocol/unlockd/util"
	"github.com/unlock-protocol/unlockd/web3"
)

// Configuration - items needed to create a handler
//
// RequiredConfirmations of zero selects the value for the current
// network, Transactions may be nil to only track local purchases
type Configuration struct {
	Reader                web3.Reader
	Wallet                web3.Wallet
	Transactions          TransactionSource
	Locks                 []string
	RequiredConfirmations uint64
	Callback              Callback
	Now                   func() int64
}

// Handler - the reconciliation state for one lock set
type Handler struct {
	sync.Mutex

	log      *logger.L
	reader   web3.Reader
	wallet   web3.Wallet
	source   TransactionSource
	locks    []string
	required uint64
	callback Callback
	now      func() int64

	// current state
	account      string
	override     *string
	balance      string
	network      uint64
	lockData     map[string]record.Lock
	keys         map[string]record.Key
	transactions map[string]record.Transaction
	local        map[string]record.Transaction
	unknown      map[string]int64
	emitted      map[string]record.KeyStatus

	// serialises snapshot delivery
	emitLock sync.Mutex

	accountPoller      *poller.Poller
	balancePoller      *poller.Poller
	networkPoller      *poller.Poller
	lockPoller         *poller.Poller
	keyPoller          *poller.Poller
	transactionsPoller *poller.Poller
	statusPoller       *poller.Poller

	background *background.T
}

// values tagged with the account they were fetched for so that a
// result that arrives after an account change can be discarded
type balanceResult struct {
	Account string
	Balance string
}

type keysResult struct {
	Account string
	Keys    map[string]record.Key
}

type transactionsResult struct {
	Account      string
	Transactions map[string]record.Transaction
}

// New - create a handler, no polling happens until Start
func New(conf Configuration) (*Handler, error) {
	if nil == conf.Reader || nil == conf.Wallet || nil == conf.Callback {
		return nil, fault.MissingParameters
	}
	if 0 == len(conf.Locks) {
		return nil, fault.MissingLocks
	}

	locks := make([]string, 0, len(conf.Locks))
	seen := make(map[string]struct{})
	for _, l := range conf.Locks {
		address, err := util.NormaliseAddress(l)
		if nil != err {
			return nil, err
		}
		if _, ok := seen[address]; ok {
			continue
		}
		seen[address] = struct{}{}
		locks = append(locks, address)
	}
	sort.Strings(locks)

	now := conf.Now
	if nil == now {
		now = func() int64 { return time.Now().Unix() }
	}

	h := &Handler{
		log:          logger.New("blockchain"),
		reader:       conf.Reader,
		wallet:       conf.Wallet,
		source:       conf.Transactions,
		locks:        locks,
		required:     conf.RequiredConfirmations,
		callback:     conf.Callback,
		now:          now,
		balance:      "0",
		lockData:     make(map[string]record.Lock),
		keys:         make(map[string]record.Key),
		transactions: make(map[string]record.Transaction),
		local:        make(map[string]record.Transaction),
		unknown:      make(map[string]int64),
	}

	h.accountPoller = poller.New("poll-account", constants.AccountPollInterval, h.fetchAccount, h.accountChanged)
	h.balancePoller = poller.New("poll-balance", constants.BalancePollInterval, h.fetchBalance, h.balanceChanged)
	h.networkPoller = poller.New("poll-network", constants.NetworkPollInterval, h.fetchNetwork, h.networkChanged)
	h.lockPoller = poller.New("poll-locks", constants.LockPollInterval, h.fetchLocks, h.locksChanged)
	h.keyPoller = poller.New("poll-keys", constants.KeyPollInterval, h.fetchKeys, h.keysChanged)
	h.transactionsPoller = poller.New("poll-transactions", constants.TransactionPollInterval, h.fetchTransactions, h.transactionsChanged)
	h.statusPoller = poller.New("poll-status", constants.StatusPollInterval, h.fetchStatus, h.statusChanged)

	return h, nil
}

// Locks - the normalised lock addresses
func (h *Handler) Locks() []string {
	return append([]string(nil), h.locks...)
}

// Start - begin background polling
func (h *Handler) Start() {
	h.Lock()
	defer h.Unlock()
	if nil != h.background {
		return
	}
	processes := background.Processes{
		h.accountPoller,
		h.networkPoller,
		h.lockPoller,
		h.balancePoller,
		h.keyPoller,
		h.transactionsPoller,
		h.statusPoller,
	}
	h.background = background.Start(processes, nil)
	h.log.Infof("started for locks: %v", h.locks)
}

// Stop - end background polling and wait for the pollers to finish
func (h *Handler) Stop() {
	h.Lock()
	bg := h.background
	h.background = nil
	h.Unlock()

	if nil != bg {
		bg.StopAndWait()
		h.log.Info("stopped")
	}
}

// Refresh - run every poller once in dependency order
func (h *Handler) Refresh(ctx context.Context) {
	h.accountPoller.Poll(ctx)
	h.networkPoller.Poll(ctx)
	h.lockPoller.Poll(ctx)
	h.balancePoller.Poll(ctx)
	h.keyPoller.Poll(ctx)
	h.transactionsPoller.Poll(ctx)
	h.statusPoller.Poll(ctx)
}

// SetAccount - use this account instead of the wallet account
//
// the change is picked up by the account poller
func (h *Handler) SetAccount(account string) error {
	if "" != account {
		a, err := util.NormaliseAddress(account)
		if nil != err {
			return err
		}
		account = a
	}
	h.Lock()
	h.override = &account
	h.Unlock()

	h.accountPoller.Trigger()
	return nil
}

// Purchase - buy a key on one of the handler's locks for the current
// account
//
// returns the transaction hash
func (h *Handler) Purchase(ctx context.Context, lockAddress string, tip string) (string, error) {
	address, err := util.NormaliseAddress(lockAddress)
	if nil != err {
		return "", err
	}

	h.Lock()
	account := h.account
	network := h.network
	lock, ok := h.lockData[address]
	h.Unlock()

	if "" == account {
		return "", fault.MissingAccount
	}
	if !ok {
		return "", fault.LockNotFound
	}

	request := web3.PurchaseRequest{
		Lock:  lock,
		Owner: account,
		Tip:   tip,
	}
	hash, err := h.wallet.PurchaseKey(ctx, request)
	if nil != err {
		h.log.Errorf("purchase on lock: %s  error: %s", address, err)
		return "", err
	}

	tx := record.Transaction{
		Hash:   strings.ToLower(hash),
		From:   account,
		To:     address,
		For:    account,
		Lock:   address,
		Status: record.TransactionSubmitted,
		Type:   record.TransactionTypeKeyPurchase,
	}

	h.Lock()
	if account == h.account {
		h.local[tx.Hash] = tx
		h.transactions[tx.Hash] = tx
	}
	h.Unlock()

	if nil != h.source {
		err := h.source.SaveTransaction(ctx, tx, network)
		if nil != err {
			h.log.Warnf("save transaction: %s  error: %s", tx.Hash, err)
		}
	}

	h.log.Infof("purchase on lock: %s  tx: %s", address, tx.Hash)

	h.emit()
	h.transactionsPoller.Trigger()
	return tx.Hash, nil
}

// Snapshot - build the current snapshot
func (h *Handler) Snapshot() *record.Snapshot {
	h.Lock()
	defer h.Unlock()
	return h.build()
}

// must hold lock
func (h *Handler) build() *record.Snapshot {
	s := record.NewSnapshot()
	s.Account = h.account
	s.Balance = h.balance
	s.Network = h.network
	for k, v := range h.lockData {
		s.Locks[k] = v
	}
	for k, v := range h.transactions {
		s.Transactions[k] = v
	}

	s.Keys = h.link()
	return s
}

// keys with their status at the current time
//
// must hold lock
func (h *Handler) link() map[string]record.Key {
	required := h.required
	if 0 == required {
		required = chain.RequiredConfirmations(h.network)
	}
	return linker.Link(h.keys, h.transactions, required, h.now())
}

// deliver a snapshot to the callback
func (h *Handler) emit() {
	h.emitLock.Lock()
	defer h.emitLock.Unlock()

	h.Lock()
	s := h.build()
	h.emitted = statuses(s.Keys)
	h.Unlock()

	h.callback(s)
}

func statuses(keys map[string]record.Key) map[string]record.KeyStatus {
	result := make(map[string]record.KeyStatus, len(keys))
	for lock, key := range keys {
		result[lock] = key.Status
	}
	return result
}
