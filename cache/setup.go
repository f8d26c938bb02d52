// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/unlock-protocol/unlockd/background"
	"github.com/unlock-protocol/unlockd/fault"
)

// EvictFunc - called for each expired item, outside the pool lock
type EvictFunc func(key string, value interface{})

type item struct {
	object    interface{}
	expiresAt time.Time
}

// PoolHandle - one expiring pool
type PoolHandle struct {
	sync.RWMutex
	items        map[string]item
	expiresAfter time.Duration
	evict        EvictFunc
}

type pools struct {
	Sessions *PoolHandle `exp:"30m"`
	TestA    *PoolHandle `exp:"3s"`
	TestB    *PoolHandle
}

type globalDataType struct {
	sync.Mutex
	background *background.T
}

// Pool - the set of in-memory pools
var Pool pools
var globalData globalDataType

// Initialise - must be called before any pool is accessed
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if nil != globalData.background {
		return fault.AlreadyInitialised
	}

	poolType := reflect.TypeOf(Pool)
	poolValue := reflect.ValueOf(&Pool).Elem()

	for i := 0; i < poolType.NumField(); i++ {
		var exp time.Duration

		fieldInfo := poolType.Field(i)
		expTag := fieldInfo.Tag.Get("exp")
		if len(expTag) > 0 {
			d, err := time.ParseDuration(expTag)
			if err != nil {
				return fmt.Errorf("invalid time duration: %s", expTag)
			}
			exp = d
		}

		p := &PoolHandle{items: make(map[string]item), expiresAfter: exp}
		newPool := reflect.ValueOf(p)
		poolValue.Field(i).Set(newPool)
	}

	processes := background.Processes{
		&cleaner{},
	}
	globalData.background = background.Start(processes, nil)

	return nil
}

// Finalise - stop the expiration check process
func Finalise() {
	globalData.Lock()
	defer globalData.Unlock()

	globalData.background.StopAndWait()
	globalData.background = nil
}

// SetExpiration - change the idle time of later Put and Get calls
func (p *PoolHandle) SetExpiration(d time.Duration) {
	p.Lock()
	defer p.Unlock()
	p.expiresAfter = d
}

// OnEvict - set the function that receives expired items
func (p *PoolHandle) OnEvict(f EvictFunc) {
	p.Lock()
	defer p.Unlock()
	p.evict = f
}

// Put - store an item and start its idle timer
func (p *PoolHandle) Put(key string, value interface{}) {
	p.Lock()
	defer p.Unlock()

	val := item{object: value}
	if p.expiresAfter > 0 {
		val.expiresAt = time.Now().Add(p.expiresAfter)
	}
	p.items[key] = val
}

// Get - fetch an item and restart its idle timer
//
// an item past its expiry is not returned even if the cleaner has not
// removed it yet
func (p *PoolHandle) Get(key string) (interface{}, bool) {
	p.Lock()
	defer p.Unlock()

	val, ok := p.items[key]
	if !ok || expired(val.expiresAt) {
		return nil, false
	}
	if p.expiresAfter > 0 {
		val.expiresAt = time.Now().Add(p.expiresAfter)
		p.items[key] = val
	}
	return val.object, true
}

// Delete - remove an item without calling the evict function
func (p *PoolHandle) Delete(key string) {
	p.Lock()
	defer p.Unlock()

	delete(p.items, key)
}

// Items - copy of all unexpired items, timers are not restarted
func (p *PoolHandle) Items() map[string]interface{} {
	p.RLock()
	defer p.RUnlock()

	m := make(map[string]interface{}, len(p.items))
	for k, v := range p.items {
		if !expired(v.expiresAt) {
			m[k] = v.object
		}
	}
	return m
}

// Size - number of items including any not yet cleaned
func (p *PoolHandle) Size() int {
	p.RLock()
	defer p.RUnlock()

	return len(p.items)
}
