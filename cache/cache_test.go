// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/unlock-protocol/unlockd/fault"
)

func TestPool(t *testing.T) {
	Initialise()
	defer Finalise()

	Pool.TestB.Put("key-one", "data-one")
	Pool.TestB.Put("key-two", "data-two")
	Pool.TestB.Put("key-remove-me", "to be deleted")
	Pool.TestB.Delete("key-remove-me")
	Pool.TestB.Put("key-three", "data-three")
	Pool.TestB.Put("key-one", "data-one")     // duplicate
	Pool.TestB.Put("key-three", "data-three") // duplicate
	Pool.TestB.Put("key-four", "data-four")
	Pool.TestB.Put("key-delete-this", "to be deleted")
	Pool.TestB.Put("key-five", "data-five")
	Pool.TestB.Put("key-six", "data-six")
	Pool.TestB.Delete("key-delete-this")
	Pool.TestB.Put("key-seven", "data-seven")
	Pool.TestB.Put("key-one", "data-one(NEW)") // duplicate
	expectedItems := map[string]interface{}{
		"key-one":   "data-one(NEW)",
		"key-two":   "data-two",
		"key-three": "data-three",
		"key-four":  "data-four",
		"key-five":  "data-five",
		"key-six":   "data-six",
		"key-seven": "data-seven",
	}

	assert.Equal(t, len(expectedItems), Pool.TestB.Size(), "wrong size")
	assert.Equal(t, expectedItems, Pool.TestB.Items(), "wrong items")
}

func TestInitialiseTwice(t *testing.T) {
	Initialise()
	defer Finalise()

	assert.Equal(t, fault.AlreadyInitialised, Initialise(), "second initialise")
}

func TestExpiration(t *testing.T) {
	Initialise()
	defer Finalise()

	var lock sync.Mutex
	evicted := []string{}
	Pool.TestA.OnEvict(func(key string, value interface{}) {
		lock.Lock()
		evicted = append(evicted, key)
		lock.Unlock()
	})

	Pool.TestA.Put("a1", struct{}{})
	Pool.TestA.Put("a2", struct{}{})
	Pool.TestA.Put("a3", struct{}{})
	Pool.TestB.Put("b1", struct{}{})
	Pool.TestB.Put("b2", struct{}{})
	Pool.TestB.Put("b3", struct{}{})
	expectedKeysInPoolA := map[string]bool{"a1": false, "a2": false, "a3": false}
	expectedKeysInPoolB := map[string]bool{"b1": true, "b2": true, "b3": true}

	time.Sleep(3 * time.Second)

	// expired but not yet cleaned
	_, ok := Pool.TestA.Get("a1")
	assert.False(t, ok, "expired item returned")

	deleteExpiredItems()

	for key, existed := range expectedKeysInPoolA {
		_, ok := Pool.TestA.Get(key)
		assert.Equal(t, existed, ok, "existence of %q", key)
	}

	for key, existed := range expectedKeysInPoolB {
		_, ok := Pool.TestB.Get(key)
		assert.Equal(t, existed, ok, "existence of %q", key)
	}

	sort.Strings(evicted)
	assert.Equal(t, []string{"a1", "a2", "a3"}, evicted, "wrong evicted items")
}

func TestGetRestartsTimer(t *testing.T) {
	Initialise()
	defer Finalise()

	Pool.TestA.SetExpiration(400 * time.Millisecond)
	Pool.TestA.Put("active", 1)
	Pool.TestA.Put("idle", 2)

	for i := 0; i < 4; i += 1 {
		time.Sleep(200 * time.Millisecond)
		_, ok := Pool.TestA.Get("active")
		assert.True(t, ok, "active item expired")
	}
	deleteExpiredItems()

	_, ok := Pool.TestA.Get("idle")
	assert.False(t, ok, "idle item still present")
	assert.Equal(t, 1, Pool.TestA.Size(), "wrong size")
}
