// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"context"
	"strings"
	"time"

	"github.com/unlock-protocol/unlockd/constants"
	"github.com/unlock-protocol/unlockd/record"
)

func (h *Handler) currentAccount() string {
	h.Lock()
	defer h.Unlock()
	return h.account
}

func (h *Handler) fetchAccount(ctx context.Context) (interface{}, error) {
	h.Lock()
	override := h.override
	h.Unlock()
	if nil != override {
		return *override, nil
	}
	return h.wallet.Account(ctx)
}

// a new account invalidates everything derived from the old one
func (h *Handler) accountChanged(value interface{}) {
	account := strings.ToLower(value.(string))

	h.Lock()
	h.account = account
	h.balance = "0"
	h.keys = make(map[string]record.Key)
	h.transactions = make(map[string]record.Transaction)
	h.local = make(map[string]record.Transaction)
	h.unknown = make(map[string]int64)
	h.Unlock()

	h.log.Infof("account: %q", account)

	h.balancePoller.Reset()
	h.keyPoller.Reset()
	h.transactionsPoller.Reset()

	h.emit()

	h.balancePoller.Trigger()
	h.keyPoller.Trigger()
	h.transactionsPoller.Trigger()
}

func (h *Handler) fetchBalance(ctx context.Context) (interface{}, error) {
	account := h.currentAccount()
	if "" == account {
		return balanceResult{Balance: "0"}, nil
	}
	balance, err := h.reader.Balance(ctx, account)
	if nil != err {
		return nil, err
	}
	return balanceResult{Account: account, Balance: balance}, nil
}

func (h *Handler) balanceChanged(value interface{}) {
	r := value.(balanceResult)
	h.Lock()
	if r.Account != h.account {
		h.Unlock()
		return
	}
	h.balance = r.Balance
	h.Unlock()
	h.emit()
}

func (h *Handler) fetchNetwork(ctx context.Context) (interface{}, error) {
	return h.reader.NetworkID(ctx)
}

func (h *Handler) networkChanged(value interface{}) {
	network := value.(uint64)
	h.Lock()
	h.network = network
	h.Unlock()
	h.log.Infof("network: %d", network)
	h.emit()
}

func (h *Handler) fetchLocks(ctx context.Context) (interface{}, error) {
	locks := make(map[string]record.Lock, len(h.locks))
	for _, address := range h.locks {
		lock, err := h.reader.Lock(ctx, address)
		if nil != err {
			return nil, err
		}
		lock.Address = address
		locks[address] = lock
	}
	return locks, nil
}

func (h *Handler) locksChanged(value interface{}) {
	locks := value.(map[string]record.Lock)
	h.Lock()
	h.lockData = locks
	h.Unlock()
	h.emit()
}

func (h *Handler) fetchKeys(ctx context.Context) (interface{}, error) {
	account := h.currentAccount()
	keys := make(map[string]record.Key, len(h.locks))
	if "" == account {
		return keysResult{Keys: keys}, nil
	}
	for _, address := range h.locks {
		expiration, err := h.reader.KeyExpiration(ctx, address, account)
		if nil != err {
			return nil, err
		}
		key := record.NewKey(address, account)
		key.Expiration = expiration
		keys[address] = key
	}
	return keysResult{Account: account, Keys: keys}, nil
}

func (h *Handler) keysChanged(value interface{}) {
	r := value.(keysResult)
	h.Lock()
	if r.Account != h.account {
		h.Unlock()
		return
	}
	h.keys = r.Keys
	h.Unlock()
	h.emit()
}

// stored transactions of the account plus local purchases, each with
// its status refreshed from the chain
func (h *Handler) fetchTransactions(ctx context.Context) (interface{}, error) {
	h.Lock()
	account := h.account
	previous := h.transactions
	unknown := h.unknown
	candidates := make(map[string]record.Transaction, len(h.local))
	local := make(map[string]struct{}, len(h.local))
	for hash, tx := range h.local {
		candidates[hash] = tx
		local[hash] = struct{}{}
	}
	h.Unlock()

	now := h.now()
	timeout := int64(constants.DroppedTransactionTimeout / time.Second)
	stillUnknown := make(map[string]int64)

	if "" == account {
		return transactionsResult{Transactions: map[string]record.Transaction{}}, nil
	}

	if nil != h.source {
		stored, err := h.source.Transactions(ctx, account, h.locks)
		if nil != err {
			return nil, err
		}
		for _, tx := range stored {
			tx.Hash = strings.ToLower(tx.Hash)
			if "" == tx.Lock {
				tx.Lock = strings.ToLower(tx.To)
			}
			candidates[tx.Hash] = tx
		}
	}

	result := make(map[string]record.Transaction, len(candidates))
	for hash, tx := range candidates {
		current, err := h.reader.Transaction(ctx, hash)
		if nil != err {
			h.log.Warnf("transaction: %s  error: %s", hash, err)
			if since, ok := unknown[hash]; ok {
				stillUnknown[hash] = since
				if now-since >= timeout {
					continue
				}
			}
			if p, ok := previous[hash]; ok {
				result[hash] = p
			} else {
				result[hash] = tx
			}
			continue
		}

		// the node does not know it, local purchases are always kept
		if record.TransactionSubmitted == current.Status {
			if _, ok := local[hash]; !ok {
				since, seen := unknown[hash]
				if !seen {
					since = now
				}
				stillUnknown[hash] = since
				if now-since >= timeout {
					h.log.Debugf("transaction: %s  dropped after: %ds", hash, now-since)
					continue
				}
			}
		}
		result[hash] = merge(tx, current)
	}

	h.Lock()
	if account == h.account {
		h.unknown = stillUnknown
	}
	h.Unlock()

	return transactionsResult{Account: account, Transactions: result}, nil
}

// chain status over stored details
func merge(stored record.Transaction, current record.Transaction) record.Transaction {
	tx := stored
	tx.Status = current.Status
	tx.Confirmations = current.Confirmations
	tx.BlockNumber = current.BlockNumber
	if "" == tx.From {
		tx.From = current.From
	}
	if "" == tx.To {
		tx.To = current.To
	}
	if "" == tx.For {
		tx.For = current.For
	}
	if "" == tx.Lock {
		tx.Lock = current.Lock
	}
	if "" == tx.Type {
		tx.Type = current.Type
	}
	return tx
}

func (h *Handler) transactionsChanged(value interface{}) {
	r := value.(transactionsResult)
	h.Lock()
	if r.Account != h.account {
		h.Unlock()
		return
	}
	h.transactions = r.Transactions
	h.Unlock()
	h.emit()
}

// key statuses depend on the time, so they are recomputed on a timer
// and a snapshot is only sent when one differs from the last delivered
func (h *Handler) fetchStatus(ctx context.Context) (interface{}, error) {
	h.Lock()
	defer h.Unlock()
	return statuses(h.link()), nil
}

func (h *Handler) statusChanged(value interface{}) {
	current := value.(map[string]record.KeyStatus)

	h.Lock()
	changed := !sameStatuses(current, h.emitted)
	h.Unlock()

	if changed {
		h.log.Debugf("key status: %v", current)
		h.emit()
	}
}

func sameStatuses(a map[string]record.KeyStatus, b map[string]record.KeyStatus) bool {
	if len(a) != len(b) {
		return false
	}
	for lock, status := range a {
		if other, ok := b[lock]; !ok || other != status {
			return false
		}
	}
	return true
}
