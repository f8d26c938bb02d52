// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mailbox_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unlock-protocol/unlockd/blockchain"
	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/fixtures"
	"github.com/unlock-protocol/unlockd/mailbox"
	"github.com/unlock-protocol/unlockd/mailbox/mocks"
	"github.com/unlock-protocol/unlockd/record"
)

const (
	lockAddress = fixtures.LockAddress
	otherLock   = fixtures.OtherLockAddress
	account     = fixtures.AccountAddress
	origin      = "https://example.com"
	mailboxID   = "session-one"
	now         = int64(1600000000)
)

type memoryCache struct {
	sync.Mutex
	data    map[string][]byte
	puts    []string
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(key string) []byte {
	c.Lock()
	defer c.Unlock()
	return c.data[key]
}

func (c *memoryCache) Put(source string, key string, value []byte) {
	c.Lock()
	defer c.Unlock()
	c.data[key] = value
	c.puts = append(c.puts, key)
}

func (c *memoryCache) Delete(source string, key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.data, key)
	c.deletes = append(c.deletes, key)
}

type outbox struct {
	sync.Mutex
	messages []mailbox.Message
}

func (o *outbox) send(m mailbox.Message) {
	o.Lock()
	o.messages = append(o.messages, m)
	o.Unlock()
}

// return and clear the sent messages
func (o *outbox) take() []mailbox.Message {
	o.Lock()
	defer o.Unlock()
	m := o.messages
	o.messages = nil
	return m
}

func kinds(messages []mailbox.Message) []mailbox.Kind {
	result := make([]mailbox.Kind, len(messages))
	for i, m := range messages {
		result[i] = m.Kind
	}
	return result
}

func find(messages []mailbox.Message, kind mailbox.Kind) (mailbox.Message, bool) {
	for _, m := range messages {
		if kind == m.Kind {
			return m, true
		}
	}
	return mailbox.Message{}, false
}

type factory struct {
	handlers  []*mocks.MockHandler
	locks     [][]string
	callbacks []blockchain.Callback
	err       error
}

func (f *factory) create(locks []string, callback blockchain.Callback) (mailbox.Handler, error) {
	if nil != f.err {
		return nil, f.err
	}
	h := f.handlers[len(f.callbacks)]
	f.locks = append(f.locks, locks)
	f.callbacks = append(f.callbacks, callback)
	return h, nil
}

type testMailbox struct {
	mailbox *mailbox.Mailbox
	cache   *memoryCache
	out     *outbox
	factory *factory
}

func newTestMailbox(handlers ...*mocks.MockHandler) *testMailbox {
	tm := &testMailbox{
		cache:   newMemoryCache(),
		out:     &outbox{},
		factory: &factory{handlers: handlers},
	}
	tm.mailbox = mailbox.New(mailboxID, tm.factory.create, tm.cache, tm.out.send)
	return tm
}

func configMessage(from string, locks ...string) mailbox.Message {
	conf := mailbox.PaywallConfig{
		Locks: make(map[string]mailbox.LockConfig),
	}
	for _, l := range locks {
		conf.Locks[l] = mailbox.LockConfig{Name: "lock " + l[:6]}
	}
	m := mailbox.NewMessage(mailbox.Config, conf)
	m.Origin = from
	return m
}

func errorText(t *testing.T, messages []mailbox.Message) string {
	m, ok := find(messages, mailbox.Error)
	require.True(t, ok, "no error message in: %v", kinds(messages))
	var text string
	require.NoError(t, json.Unmarshal(m.Payload, &text), "error payload")
	return text
}

func validSnapshot(network uint64) *record.Snapshot {
	s := record.NewSnapshot()
	s.Account = account
	s.Network = network
	s.Locks[lockAddress] = record.Lock{Address: lockAddress, Name: "Members", KeyPrice: "0.01"}
	s.Keys[lockAddress] = record.Key{
		ID:         record.KeyID(lockAddress, account),
		Lock:       lockAddress,
		Owner:      account,
		Expiration: now + 100,
		Status:     record.KeyValid,
	}
	return s
}

func TestReadyOnCreate(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	tm := newTestMailbox()
	assert.Equal(t, []mailbox.Kind{mailbox.Ready}, kinds(tm.out.take()), "no ready message")
	assert.False(t, tm.mailbox.Configured(), "configured without CONFIG")

	// READY before configuration is answered with READY
	err := tm.mailbox.Handle(context.Background(), mailbox.NewMessage(mailbox.Ready, nil))
	assert.Nil(t, err, "ready error")
	assert.Equal(t, []mailbox.Kind{mailbox.Ready}, kinds(tm.out.take()), "no ready reply")
}

func TestConfigure(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := mocks.NewMockHandler(ctrl)
	h.EXPECT().Start().Times(1)

	tm := newTestMailbox(h)
	tm.out.take()

	err := tm.mailbox.Handle(context.Background(), configMessage(origin, fixtures.LockChecksum, otherLock))
	require.NoError(t, err, "configure")
	assert.True(t, tm.mailbox.Configured(), "not configured")

	expected := []mailbox.Kind{
		mailbox.UpdateLocks,
		mailbox.UpdateAccount,
		mailbox.UpdateAccountBalance,
		mailbox.UpdateNetwork,
		mailbox.UpdateKeys,
		mailbox.UpdateTransactions,
		mailbox.Locked,
	}
	assert.Equal(t, expected, kinds(tm.out.take()), "wrong messages")

	require.Equal(t, 1, len(tm.factory.locks), "handler not created")
	assert.ElementsMatch(t, []string{lockAddress, otherLock}, tm.factory.locks[0], "wrong locks")
}

func TestConfigureInvalid(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	tm := newTestMailbox()
	ctx := context.Background()

	testData := []struct {
		message  mailbox.Message
		expected error
	}{
		{configMessage(origin), fault.MissingLocks},
		{configMessage(origin, "0x1234"), fault.InvalidAddress},
		{mailbox.Message{Kind: mailbox.Config}, fault.MissingParameters},
		{mailbox.Message{Kind: mailbox.Config, Payload: json.RawMessage(`{"locks":`)}, fault.InvalidJSON},
		{mailbox.NewMessage(mailbox.Config, mailbox.PaywallConfig{Locks: map[string]mailbox.LockConfig{lockAddress: {Name: " "}}}), fault.InvalidLockName},
		{mailbox.NewMessage(mailbox.Config, mailbox.PaywallConfig{
			Locks:        map[string]mailbox.LockConfig{lockAddress: {Name: "ok"}},
			CallToAction: map[string]string{"shout": "buy now"},
		}), fault.InvalidConfiguration},
		{mailbox.Message{Kind: "BOGUS"}, fault.UnknownMessageType},
	}

	for i, d := range testData {
		tm.out.take()
		err := tm.mailbox.Handle(ctx, d.message)
		assert.Equal(t, d.expected, err, "%d: wrong error", i)
		assert.Equal(t, d.expected.Error(), errorText(t, tm.out.take()), "%d: wrong error message", i)
	}
	assert.False(t, tm.mailbox.Configured(), "configured by invalid message")
	assert.Equal(t, 0, len(tm.factory.callbacks), "handler created")
}

func TestConfigureFactoryError(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	tm := newTestMailbox()
	tm.factory.err = errors.New("no node")

	err := tm.mailbox.Handle(context.Background(), configMessage(origin, lockAddress))
	assert.Equal(t, tm.factory.err, err, "wrong error")
	assert.False(t, tm.mailbox.Configured(), "configured without handler")
}

func TestReconfigure(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mocks.NewMockHandler(ctrl)
	second := mocks.NewMockHandler(ctrl)
	first.EXPECT().Start().Times(1)
	first.EXPECT().Stop().Times(1)
	second.EXPECT().Start().Times(1)

	tm := newTestMailbox(first, second)
	ctx := context.Background()

	require.NoError(t, tm.mailbox.Handle(ctx, configMessage(origin, lockAddress)), "configure")

	// a different origin may not reconfigure
	err := tm.mailbox.Handle(ctx, configMessage("https://evil.example.com", otherLock))
	assert.Equal(t, fault.UnauthorisedConfiguration, err, "wrong error")

	// same origin and locks keeps the handler
	tm.out.take()
	require.NoError(t, tm.mailbox.Handle(ctx, configMessage(origin, fixtures.LockChecksum)), "reconfigure")
	assert.Equal(t, 0, len(tm.out.take()), "messages on unchanged lock set")
	assert.Equal(t, 1, len(tm.factory.callbacks), "handler recreated")

	// new locks replace the handler
	require.NoError(t, tm.mailbox.Handle(ctx, configMessage(origin, otherLock)), "reconfigure")
	assert.Equal(t, 2, len(tm.factory.callbacks), "handler not recreated")
	assert.Equal(t, []string{otherLock}, tm.factory.locks[1], "wrong locks")

	// the replaced handler no longer reaches the host
	tm.out.take()
	tm.factory.callbacks[0](validSnapshot(4))
	assert.Equal(t, 0, len(tm.out.take()), "old handler delivered")
}

func TestCachedSnapshot(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := mocks.NewMockHandler(ctrl)
	h.EXPECT().Start()

	tm := newTestMailbox(h)
	data, err := validSnapshot(4).Encode()
	require.NoError(t, err, "encode")
	tm.cache.data[mailbox.CacheKey([]string{lockAddress})] = data
	tm.out.take()

	require.NoError(t, tm.mailbox.Handle(context.Background(), configMessage(origin, lockAddress)), "configure")

	messages := tm.out.take()
	m, ok := find(messages, mailbox.UpdateNetwork)
	require.True(t, ok, "no network update")
	assert.Equal(t, "4", string(m.Payload), "cached network not sent")

	m, ok = find(messages, mailbox.Unlocked)
	require.True(t, ok, "not unlocked from cache")
	assert.Equal(t, `["`+lockAddress+`"]`, string(m.Payload), "wrong unlocked payload")

	assert.Equal(t, validSnapshot(4), tm.mailbox.Snapshot(), "wrong snapshot")
}

func TestMalformedCache(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := mocks.NewMockHandler(ctrl)
	h.EXPECT().Start()

	tm := newTestMailbox(h)
	key := mailbox.CacheKey([]string{lockAddress})
	tm.cache.data[key] = []byte("{not json")

	require.NoError(t, tm.mailbox.Handle(context.Background(), configMessage(origin, lockAddress)), "configure")

	assert.Equal(t, []string{key}, tm.cache.deletes, "malformed entry not deleted")
	assert.Nil(t, tm.cache.Get(key), "malformed entry still present")
	assert.Equal(t, record.NewSnapshot(), tm.mailbox.Snapshot(), "snapshot not empty")
}

func TestUpdateSendsOnlyChanges(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := mocks.NewMockHandler(ctrl)
	h.EXPECT().Start()

	tm := newTestMailbox(h)
	require.NoError(t, tm.mailbox.Handle(context.Background(), configMessage(origin, lockAddress)), "configure")
	tm.out.take()

	callback := tm.factory.callbacks[0]

	// network only
	s := record.NewSnapshot()
	s.Network = 4
	callback(s)
	assert.Equal(t, []mailbox.Kind{mailbox.UpdateNetwork}, kinds(tm.out.take()), "wrong messages")

	// account, locks and a valid key
	s = validSnapshot(4)
	callback(s)
	assert.Equal(t, []mailbox.Kind{
		mailbox.UpdateLocks,
		mailbox.UpdateAccount,
		mailbox.UpdateKeys,
		mailbox.Unlocked,
	}, kinds(tm.out.take()), "wrong messages")

	// identical snapshot
	callback(s.Copy())
	assert.Equal(t, 0, len(tm.out.take()), "messages for identical snapshot")

	// key expires
	s = s.Copy()
	k := s.Keys[lockAddress]
	k.Status = record.KeyExpired
	s.Keys[lockAddress] = k
	callback(s)
	assert.Equal(t, []mailbox.Kind{mailbox.UpdateKeys, mailbox.Locked}, kinds(tm.out.take()), "wrong messages")

	// every snapshot is cached
	assert.Equal(t, 4, len(tm.cache.puts), "snapshots not cached")
	cached, err := record.DecodeSnapshot(tm.cache.Get(mailbox.CacheKey([]string{lockAddress})))
	require.NoError(t, err, "decode cached")
	assert.Equal(t, s, cached, "wrong cached snapshot")
}

func TestSendUpdates(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := mocks.NewMockHandler(ctrl)
	h.EXPECT().Start()

	tm := newTestMailbox(h)
	ctx := context.Background()

	err := tm.mailbox.Handle(ctx, mailbox.NewMessage(mailbox.SendUpdates, "keys"))
	assert.Equal(t, fault.NotConfigured, err, "updates before configuration")

	require.NoError(t, tm.mailbox.Handle(ctx, configMessage(origin, lockAddress)), "configure")
	tm.factory.callbacks[0](validSnapshot(4))
	tm.out.take()

	err = tm.mailbox.Handle(ctx, mailbox.NewMessage(mailbox.SendUpdates, "balance"))
	require.NoError(t, err, "send updates")
	messages := tm.out.take()
	assert.Equal(t, []mailbox.Kind{mailbox.UpdateAccountBalance}, kinds(messages), "wrong messages")
	assert.Equal(t, `"0"`, string(messages[0].Payload), "wrong balance")

	err = tm.mailbox.Handle(ctx, mailbox.NewMessage(mailbox.SendUpdates, "everything"))
	assert.Equal(t, fault.InvalidUpdateType, err, "unknown update type accepted")

	// READY resends everything including the lock state
	tm.out.take()
	require.NoError(t, tm.mailbox.Handle(ctx, mailbox.NewMessage(mailbox.Ready, nil)), "ready")
	messages = tm.out.take()
	assert.Equal(t, 7, len(messages), "wrong message count")
	_, ok := find(messages, mailbox.Unlocked)
	assert.True(t, ok, "lock state not resent")
}

func TestPurchase(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := mocks.NewMockHandler(ctrl)
	h.EXPECT().Start()

	tm := newTestMailbox(h)
	ctx := context.Background()

	purchase := func(lock string, tip string) mailbox.Message {
		return mailbox.NewMessage(mailbox.PurchaseKey, mailbox.PurchaseRequest{Lock: lock, ExtraTip: tip})
	}

	err := tm.mailbox.Handle(ctx, purchase(lockAddress, ""))
	assert.Equal(t, fault.NotConfigured, err, "purchase before configuration")

	require.NoError(t, tm.mailbox.Handle(ctx, configMessage(origin, lockAddress)), "configure")

	err = tm.mailbox.Handle(ctx, purchase(otherLock, ""))
	assert.Equal(t, fault.LockNotConfigured, err, "unconfigured lock accepted")

	err = tm.mailbox.Handle(ctx, purchase(lockAddress, "-1"))
	assert.Equal(t, fault.InvalidTip, err, "negative tip accepted")

	err = tm.mailbox.Handle(ctx, purchase(lockAddress, "lots"))
	assert.Equal(t, fault.InvalidTip, err, "bad tip accepted")

	err = tm.mailbox.Handle(ctx, purchase("0xnot", ""))
	assert.Equal(t, fault.InvalidAddress, err, "bad lock accepted")

	assert.Equal(t, 0, len(tm.cache.deletes), "cache invalidated by rejected purchase")

	h.EXPECT().Purchase(gomock.Any(), lockAddress, "0.25").Return("0xabc", nil)
	err = tm.mailbox.Handle(ctx, purchase(fixtures.LockChecksum, "0.250"))
	assert.Nil(t, err, "purchase error")
	assert.Equal(t, []string{mailbox.CacheKey([]string{lockAddress})}, tm.cache.deletes, "cache not invalidated")

	h.EXPECT().Purchase(gomock.Any(), lockAddress, "0").Return("", fault.MissingAccount)
	tm.out.take()
	err = tm.mailbox.Handle(ctx, purchase(lockAddress, ""))
	assert.Equal(t, fault.MissingAccount, err, "wrong error")
	assert.Equal(t, fault.MissingAccount.Error(), errorText(t, tm.out.take()), "error not sent")
}

func TestUpdateAccount(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := mocks.NewMockHandler(ctrl)
	h.EXPECT().Start()

	tm := newTestMailbox(h)
	ctx := context.Background()
	require.NoError(t, tm.mailbox.Handle(ctx, configMessage(origin, lockAddress)), "configure")

	err := tm.mailbox.Handle(ctx, mailbox.NewMessage(mailbox.UpdateAccount, "0x12"))
	assert.Equal(t, fault.InvalidAccount, err, "bad account accepted")

	h.EXPECT().SetAccount(account).Return(nil)
	err = tm.mailbox.Handle(ctx, mailbox.NewMessage(mailbox.UpdateAccount, fixtures.AccountChecksum))
	assert.Nil(t, err, "update account error")

	h.EXPECT().SetAccount("").Return(nil)
	err = tm.mailbox.Handle(ctx, mailbox.NewMessage(mailbox.UpdateAccount, ""))
	assert.Nil(t, err, "clear account error")
}

func TestCacheChanged(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := mocks.NewMockHandler(ctrl)
	h.EXPECT().Start()

	tm := newTestMailbox(h)
	require.NoError(t, tm.mailbox.Handle(context.Background(), configMessage(origin, lockAddress)), "configure")
	tm.factory.callbacks[0](validSnapshot(4))
	tm.out.take()

	key := mailbox.CacheKey([]string{lockAddress})

	// another session on the same account wrote newer data
	newer := validSnapshot(5)
	data, err := newer.Encode()
	require.NoError(t, err, "encode")
	tm.cache.data[key] = data

	tm.mailbox.CacheChanged(mailbox.CachePut, mailboxID, key)
	assert.Equal(t, 0, len(tm.out.take()), "own change reloaded")

	tm.mailbox.CacheChanged(mailbox.CachePut, "other", "paywall/unrelated")
	assert.Equal(t, 0, len(tm.out.take()), "unrelated key reloaded")

	tm.mailbox.CacheChanged(mailbox.CachePut, "other", key)
	assert.Equal(t, []mailbox.Kind{mailbox.UpdateNetwork}, kinds(tm.out.take()), "wrong messages")
	assert.Equal(t, uint64(5), tm.mailbox.Snapshot().Network, "not reloaded")

	// a different account's data is not adopted
	foreign := validSnapshot(6)
	foreign.Account = otherLock
	data, err = foreign.Encode()
	require.NoError(t, err, "encode")
	tm.cache.data[key] = data
	tm.mailbox.CacheChanged(mailbox.CachePut, "other", key)
	assert.Equal(t, 0, len(tm.out.take()), "foreign account adopted")

	// delete falls back to the live handler data
	live := validSnapshot(7)
	h.EXPECT().Snapshot().Return(live)
	tm.mailbox.CacheChanged(mailbox.CacheDelete, "other", key)
	assert.Equal(t, []mailbox.Kind{mailbox.UpdateNetwork}, kinds(tm.out.take()), "wrong messages")
	assert.Equal(t, uint64(7), tm.mailbox.Snapshot().Network, "live data not used")
}

func TestCacheChangedMalformed(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := mocks.NewMockHandler(ctrl)
	h.EXPECT().Start()

	tm := newTestMailbox(h)
	require.NoError(t, tm.mailbox.Handle(context.Background(), configMessage(origin, lockAddress)), "configure")
	tm.factory.callbacks[0](validSnapshot(4))
	tm.out.take()

	key := mailbox.CacheKey([]string{lockAddress})
	tm.cache.data[key] = []byte("{not json")

	live := validSnapshot(8)
	h.EXPECT().Snapshot().Return(live)
	tm.mailbox.CacheChanged(mailbox.CachePut, "other", key)

	assert.Equal(t, []string{key}, tm.cache.deletes, "malformed entry not deleted")
	assert.Nil(t, tm.cache.Get(key), "malformed entry still present")
	assert.Equal(t, []mailbox.Kind{mailbox.UpdateNetwork}, kinds(tm.out.take()), "wrong messages")
	assert.Equal(t, uint64(8), tm.mailbox.Snapshot().Network, "live data not used")
}

func TestClose(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := mocks.NewMockHandler(ctrl)
	h.EXPECT().Start()
	h.EXPECT().Stop()

	tm := newTestMailbox(h)
	ctx := context.Background()
	require.NoError(t, tm.mailbox.Handle(ctx, configMessage(origin, lockAddress)), "configure")

	tm.mailbox.Close()
	tm.out.take()

	tm.factory.callbacks[0](validSnapshot(4))
	assert.Equal(t, 0, len(tm.out.take()), "update after close")

	err := tm.mailbox.Handle(ctx, mailbox.NewMessage(mailbox.UpdateAccount, account))
	assert.Equal(t, fault.NotConfigured, err, "update after close")
}

func TestCacheKey(t *testing.T) {
	a := mailbox.CacheKey([]string{lockAddress, otherLock})
	b := mailbox.CacheKey([]string{otherLock, fixtures.LockChecksum})
	c := mailbox.CacheKey([]string{lockAddress})

	assert.Equal(t, a, b, "order or case changes key")
	assert.NotEqual(t, a, c, "different sets share a key")
	assert.Regexp(t, `^paywall/[1-9A-HJ-NP-Za-km-z]+$`, a, "wrong key format")
}
