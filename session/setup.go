// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package session

import (
	"context"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"

	"github.com/unlock-protocol/unlockd/background"
	"github.com/unlock-protocol/unlockd/cache"
	"github.com/unlock-protocol/unlockd/constants"
	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/mailbox"
)

// defaults for zero configuration values
const (
	defaultQueueSize       = 100
	defaultMaximumSessions = 1000
)

// Configuration - session registry settings
type Configuration struct {
	Factory         mailbox.HandlerFactory
	Cache           mailbox.SnapshotCache
	QueueSize       int
	MaximumSessions int
	IdleTimeout     time.Duration
}

// globals for the registry
type globalDataType struct {
	sync.RWMutex

	log *logger.L

	factory         mailbox.HandlerFactory
	snapshots       mailbox.SnapshotCache
	queueSize       int
	maximumSessions int

	defaultConfig *mailbox.PaywallConfig

	background *background.T

	initialised bool
}

var globalData globalDataType

// Initialise - start the registry
//
// the cache package must already be initialised
func Initialise(configuration Configuration) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}
	if nil == configuration.Factory || nil == configuration.Cache {
		return fault.MissingParameters
	}

	globalData.log = logger.New("session")
	globalData.log.Info("starting…")

	globalData.factory = configuration.Factory
	globalData.snapshots = configuration.Cache

	globalData.queueSize = configuration.QueueSize
	if globalData.queueSize <= 0 {
		globalData.queueSize = defaultQueueSize
	}
	globalData.maximumSessions = configuration.MaximumSessions
	if globalData.maximumSessions <= 0 {
		globalData.maximumSessions = defaultMaximumSessions
	}

	timeout := configuration.IdleTimeout
	if timeout <= 0 {
		timeout = constants.SessionTimeout
	}
	cache.Pool.Sessions.SetExpiration(timeout)
	cache.Pool.Sessions.OnEvict(expire)

	processes := background.Processes{
		&cacheListener{log: globalData.log},
	}
	globalData.background = background.Start(processes, nil)

	globalData.initialised = true
	return nil
}

// Finalise - close every session and stop the registry
func Finalise() error {
	globalData.Lock()
	if !globalData.initialised {
		globalData.Unlock()
		return fault.NotInitialised
	}
	globalData.log.Info("shutting down…")
	globalData.initialised = false
	globalData.background.StopAndWait()
	globalData.defaultConfig = nil
	globalData.Unlock()

	cache.Pool.Sessions.OnEvict(nil)
	for id, item := range cache.Pool.Sessions.Items() {
		cache.Pool.Sessions.Delete(id)
		item.(*Session).mailbox.Close()
	}

	globalData.log.Info("finished")
	globalData.log.Flush()
	return nil
}

// Open - create a session for a host at origin
//
// when useDefault is set the default paywall configuration, if any,
// is applied immediately and re-applied whenever it changes
func Open(ctx context.Context, origin string, useDefault bool) (string, error) {
	globalData.RLock()
	if !globalData.initialised {
		globalData.RUnlock()
		return "", fault.NotInitialised
	}
	if cache.Pool.Sessions.Size() >= globalData.maximumSessions {
		globalData.RUnlock()
		return "", fault.TooManySessions
	}
	factory := globalData.factory
	snapshots := globalData.snapshots
	queueSize := globalData.queueSize
	conf := globalData.defaultConfig
	globalData.RUnlock()

	id := uuid.New().String()
	s := &Session{
		id:         id,
		origin:     origin,
		useDefault: useDefault,
		limit:      queueSize,
	}
	s.mailbox = mailbox.New(id, factory, snapshots, s.deliver)
	cache.Pool.Sessions.Put(id, s)

	globalData.log.Infof("open: %s  origin: %q  default: %t", id, origin, useDefault)

	if useDefault && nil != conf {
		s.configure(ctx, *conf)
	}
	return id, nil
}

// Post - deliver a host message to a session's mailbox
//
// a message without an origin takes the origin given to Open
func Post(ctx context.Context, id string, message mailbox.Message) error {
	s, err := get(id)
	if nil != err {
		return err
	}
	if "" == message.Origin {
		message.Origin = s.origin
	}
	return s.mailbox.Handle(ctx, message)
}

// Poll - remove up to max queued outbound messages, zero for all
func Poll(id string, max int) ([]mailbox.Message, uint64, error) {
	s, err := get(id)
	if nil != err {
		return nil, 0, err
	}
	messages, dropped := s.take(max)
	return messages, dropped, nil
}

// Close - close a session and stop its blockchain handler
func Close(id string) error {
	s, err := get(id)
	if nil != err {
		return err
	}
	cache.Pool.Sessions.Delete(id)
	s.mailbox.Close()
	globalData.log.Infof("close: %s", id)
	return nil
}

// Count - number of open sessions
func Count() int {
	return len(cache.Pool.Sessions.Items())
}

// SetDefault - replace the default paywall configuration and apply it
// to every session opened with the default
func SetDefault(ctx context.Context, conf *mailbox.PaywallConfig) {
	globalData.Lock()
	globalData.defaultConfig = conf
	initialised := globalData.initialised
	globalData.Unlock()

	if !initialised || nil == conf {
		return
	}

	for _, item := range cache.Pool.Sessions.Items() {
		s := item.(*Session)
		if s.useDefault {
			s.configure(ctx, *conf)
		}
	}
}

func get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); nil != err {
		return nil, fault.InvalidSessionID
	}
	item, ok := cache.Pool.Sessions.Get(id)
	if !ok {
		return nil, fault.SessionNotFound
	}
	return item.(*Session), nil
}

// evict function for idle sessions
func expire(id string, item interface{}) {
	globalData.log.Infof("expired: %s", id)
	item.(*Session).mailbox.Close()
}
