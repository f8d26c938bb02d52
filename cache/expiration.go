// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"reflect"
	"time"
)

const expirationCheckInterval = 30 * time.Second

type cleaner struct{}

func (c *cleaner) Run(args interface{}, shutdown <-chan struct{}) {
	ticker := time.NewTicker(expirationCheckInterval)
	for {
		select {
		case <-ticker.C:
			deleteExpiredItems()
		case <-shutdown:
			ticker.Stop()
			return
		}
	}
}

func deleteExpiredItems() {
	poolType := reflect.TypeOf(Pool)
	poolValue := reflect.ValueOf(&Pool).Elem()

	for i := 0; i < poolType.NumField(); i++ {
		p := poolValue.Field(i).Interface().(*PoolHandle)
		p.deleteExpired()
	}
}

func (p *PoolHandle) deleteExpired() {
	evicted := make(map[string]interface{})

	p.Lock()
	for key, item := range p.items {
		if expired(item.expiresAt) {
			evicted[key] = item.object
			delete(p.items, key)
		}
	}
	evict := p.evict
	p.Unlock()

	if nil == evict {
		return
	}
	for key, object := range evicted {
		evict(key, object)
	}
}

func expired(exp time.Time) bool {
	return !exp.IsZero() && time.Since(exp) > 0
}
