// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unlock-protocol/unlockd/blockchain"
	"github.com/unlock-protocol/unlockd/cache"
	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/fixtures"
	"github.com/unlock-protocol/unlockd/mailbox"
	"github.com/unlock-protocol/unlockd/messagebus"
	"github.com/unlock-protocol/unlockd/record"
	"github.com/unlock-protocol/unlockd/session"
)

const origin = "https://example.com"

type fakeHandler struct {
	sync.Mutex
	locks    []string
	callback blockchain.Callback
	started  bool
	stopped  bool
}

func (h *fakeHandler) Start() {
	h.Lock()
	h.started = true
	h.Unlock()
}

func (h *fakeHandler) Stop() {
	h.Lock()
	h.stopped = true
	h.Unlock()
}

func (h *fakeHandler) isStopped() bool {
	h.Lock()
	defer h.Unlock()
	return h.stopped
}

func (h *fakeHandler) SetAccount(account string) error {
	s := record.NewSnapshot()
	s.Account = account
	h.callback(s)
	return nil
}

func (h *fakeHandler) Purchase(ctx context.Context, lock string, tip string) (string, error) {
	return "", fault.MissingAccount
}

func (h *fakeHandler) Snapshot() *record.Snapshot {
	return record.NewSnapshot()
}

type factory struct {
	sync.Mutex
	handlers []*fakeHandler
}

func (f *factory) create(locks []string, callback blockchain.Callback) (mailbox.Handler, error) {
	f.Lock()
	defer f.Unlock()
	h := &fakeHandler{locks: locks, callback: callback}
	f.handlers = append(f.handlers, h)
	return h, nil
}

func (f *factory) all() []*fakeHandler {
	f.Lock()
	defer f.Unlock()
	return append([]*fakeHandler(nil), f.handlers...)
}

type memoryCache struct {
	sync.Mutex
	data map[string][]byte
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
}

func (c *memoryCache) Delete(source string, key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.data, key)
}

func setup(t *testing.T, queueSize int, maximum int, timeout time.Duration) (*factory, *memoryCache) {
	fixtures.SetupTestLogger()
	require.NoError(t, cache.Initialise(), "cache initialise")

	f := &factory{}
	c := &memoryCache{data: make(map[string][]byte)}
	err := session.Initialise(session.Configuration{
		Factory:         f.create,
		Cache:           c,
		QueueSize:       queueSize,
		MaximumSessions: maximum,
		IdleTimeout:     timeout,
	})
	require.NoError(t, err, "session initialise")
	return f, c
}

func teardown() {
	session.Finalise()
	cache.Finalise()
	fixtures.TeardownTestLogger()
}

func paywall(locks ...string) mailbox.PaywallConfig {
	conf := mailbox.PaywallConfig{Locks: make(map[string]mailbox.LockConfig)}
	for _, l := range locks {
		conf.Locks[l] = mailbox.LockConfig{Name: "members"}
	}
	return conf
}

func kinds(messages []mailbox.Message) []mailbox.Kind {
	result := make([]mailbox.Kind, len(messages))
	for i, m := range messages {
		result[i] = m.Kind
	}
	return result
}

func TestOpenPostPoll(t *testing.T) {
	f, _ := setup(t, 0, 0, 0)
	defer teardown()

	ctx := context.Background()

	id, err := session.Open(ctx, origin, false)
	require.NoError(t, err, "open")
	assert.Equal(t, 1, session.Count(), "wrong count")

	messages, dropped, err := session.Poll(id, 0)
	require.NoError(t, err, "poll")
	assert.Equal(t, uint64(0), dropped, "dropped messages")
	assert.Equal(t, []mailbox.Kind{mailbox.Ready}, kinds(messages), "wrong messages")

	err = session.Post(ctx, id, mailbox.NewMessage(mailbox.Config, paywall(fixtures.LockAddress)))
	require.NoError(t, err, "post config")

	handlers := f.all()
	require.Equal(t, 1, len(handlers), "handler not created")
	assert.True(t, handlers[0].started, "handler not started")

	messages, _, err = session.Poll(id, 2)
	require.NoError(t, err, "poll")
	assert.Equal(t, []mailbox.Kind{mailbox.UpdateLocks, mailbox.UpdateAccount}, kinds(messages), "wrong first messages")

	messages, _, err = session.Poll(id, 0)
	require.NoError(t, err, "poll")
	assert.Equal(t, 5, len(messages), "wrong remaining count")

	// errors are returned and also queued
	err = session.Post(ctx, id, mailbox.NewMessage(mailbox.SendUpdates, "nothing"))
	assert.Equal(t, fault.InvalidUpdateType, err, "wrong error")
	messages, _, _ = session.Poll(id, 0)
	assert.Equal(t, []mailbox.Kind{mailbox.Error}, kinds(messages), "error not queued")

	require.NoError(t, session.Close(id), "close")
	assert.True(t, handlers[0].isStopped(), "handler not stopped")
	assert.Equal(t, 0, session.Count(), "session not removed")

	assert.Equal(t, fault.SessionNotFound, session.Close(id), "closed twice")
}

func TestUnknownSession(t *testing.T) {
	setup(t, 0, 0, 0)
	defer teardown()

	_, _, err := session.Poll("not-a-uuid", 0)
	assert.Equal(t, fault.InvalidSessionID, err, "wrong error")

	_, _, err = session.Poll("6f1f8a36-3f0e-4a4b-9c2e-2f5d6a1b9e10", 0)
	assert.Equal(t, fault.SessionNotFound, err, "wrong error")

	err = session.Post(context.Background(), "6f1f8a36-3f0e-4a4b-9c2e-2f5d6a1b9e10", mailbox.NewMessage(mailbox.Ready, nil))
	assert.Equal(t, fault.SessionNotFound, err, "wrong error")
}

func TestQueueDropsOldest(t *testing.T) {
	setup(t, 3, 0, 0)
	defer teardown()

	ctx := context.Background()
	id, err := session.Open(ctx, origin, false)
	require.NoError(t, err, "open")

	// READY plus three replies
	for i := 0; i < 3; i += 1 {
		require.NoError(t, session.Post(ctx, id, mailbox.NewMessage(mailbox.Ready, nil)), "post")
	}

	messages, dropped, err := session.Poll(id, 0)
	require.NoError(t, err, "poll")
	assert.Equal(t, 3, len(messages), "queue not bounded")
	assert.Equal(t, uint64(1), dropped, "wrong dropped count")

	_, dropped, _ = session.Poll(id, 0)
	assert.Equal(t, uint64(0), dropped, "dropped count not reset")
}

func TestMaximumSessions(t *testing.T) {
	setup(t, 0, 2, 0)
	defer teardown()

	ctx := context.Background()
	_, err := session.Open(ctx, origin, false)
	require.NoError(t, err, "open")
	_, err = session.Open(ctx, origin, false)
	require.NoError(t, err, "open")

	_, err = session.Open(ctx, origin, false)
	assert.Equal(t, fault.TooManySessions, err, "limit not enforced")
}

func TestIdleExpiry(t *testing.T) {
	setup(t, 0, 0, 300*time.Millisecond)
	defer teardown()

	id, err := session.Open(context.Background(), origin, false)
	require.NoError(t, err, "open")

	time.Sleep(500 * time.Millisecond)

	_, _, err = session.Poll(id, 0)
	assert.Equal(t, fault.SessionNotFound, err, "idle session still open")
}

func TestDefaultConfiguration(t *testing.T) {
	f, _ := setup(t, 0, 0, 0)
	defer teardown()

	ctx := context.Background()
	conf := paywall(fixtures.LockAddress)
	session.SetDefault(ctx, &conf)

	id, err := session.Open(ctx, origin, true)
	require.NoError(t, err, "open")
	other, err := session.Open(ctx, origin, false)
	require.NoError(t, err, "open")

	handlers := f.all()
	require.Equal(t, 1, len(handlers), "default not applied")
	assert.Equal(t, []string{fixtures.LockAddress}, handlers[0].locks, "wrong locks")

	// a changed default restarts only the default sessions
	changed := paywall(fixtures.OtherLockAddress)
	session.SetDefault(ctx, &changed)

	handlers = f.all()
	require.Equal(t, 2, len(handlers), "change not applied")
	assert.Equal(t, []string{fixtures.OtherLockAddress}, handlers[1].locks, "wrong locks")
	assert.True(t, handlers[0].isStopped(), "old handler not stopped")

	messages, _, err := session.Poll(other, 0)
	require.NoError(t, err, "poll")
	assert.Equal(t, []mailbox.Kind{mailbox.Ready}, kinds(messages), "non-default session configured")

	messages, _, err = session.Poll(id, 0)
	require.NoError(t, err, "poll")
	assert.Contains(t, kinds(messages), mailbox.UpdateLocks, "default session not updated")
}

func TestNotifications(t *testing.T) {
	setup(t, 0, 0, 0)
	defer teardown()

	// discard anything left by other tests
drain:
	for {
		select {
		case <-messagebus.Bus.Notifications.Chan():
		default:
			break drain
		}
	}

	id, err := session.Open(context.Background(), origin, false)
	require.NoError(t, err, "open")

	select {
	case m := <-messagebus.Bus.Notifications.Chan():
		assert.Equal(t, session.NotifyCommand, m.Command, "wrong command")
		require.Equal(t, 3, len(m.Parameters), "wrong parameter count")
		assert.Equal(t, id, string(m.Parameters[0]), "wrong session")
		assert.Equal(t, string(mailbox.Ready), string(m.Parameters[1]), "wrong kind")
		assert.Equal(t, `{"type":"READY"}`, string(m.Parameters[2]), "wrong JSON")
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}
}

func TestCacheBroadcast(t *testing.T) {
	_, c := setup(t, 0, 0, 0)
	defer teardown()

	ctx := context.Background()
	id, err := session.Open(ctx, origin, false)
	require.NoError(t, err, "open")
	require.NoError(t, session.Post(ctx, id, mailbox.NewMessage(mailbox.Config, paywall(fixtures.LockAddress))), "config")
	session.Poll(id, 0)

	key := mailbox.CacheKey([]string{fixtures.LockAddress})
	s := record.NewSnapshot()
	s.Network = 9
	data, err := s.Encode()
	require.NoError(t, err, "encode")
	c.Put("another-session", key, data)

	// repeated until the listener has registered
	received := false
	require.Eventually(t, func() bool {
		messagebus.Bus.Broadcast.Send(mailbox.CachePut, []byte("another-session"), []byte(key))
		messages, _, _ := session.Poll(id, 0)
		for _, m := range messages {
			if mailbox.UpdateNetwork == m.Kind {
				assert.Equal(t, "9", string(m.Payload), "wrong network")
				received = true
			}
		}
		return received
	}, 2*time.Second, 50*time.Millisecond, "cache change not delivered")
}
