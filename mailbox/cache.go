// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mailbox

import (
	"sort"

	"github.com/unlock-protocol/unlockd/messagebus"
	"github.com/unlock-protocol/unlockd/record"
	"github.com/unlock-protocol/unlockd/storage"
)

// broadcast commands for cache changes
//
// parameters: [source mailbox id, cache key]
const (
	CachePut    = "cache-put"
	CacheDelete = "cache-delete"
)

// SnapshotCache - persistent snapshot store shared by all mailboxes
//
// source identifies the writer so that it can ignore its own changes
type SnapshotCache interface {
	Get(key string) []byte
	Put(source string, key string, value []byte)
	Delete(source string, key string)
}

// StorageCache - snapshot cache in the database that announces every
// change on the broadcast bus
type StorageCache struct{}

// Get - read a cached snapshot
func (StorageCache) Get(key string) []byte {
	return storage.Pool.Snapshots.Get([]byte(key))
}

// Put - write a snapshot
func (StorageCache) Put(source string, key string, value []byte) {
	storage.Pool.Snapshots.Put([]byte(key), value)
	messagebus.Bus.Broadcast.Send(CachePut, []byte(source), []byte(key))
}

// Delete - remove a snapshot
func (StorageCache) Delete(source string, key string) {
	storage.Pool.Snapshots.Delete([]byte(key))
	messagebus.Bus.Broadcast.Send(CacheDelete, []byte(source), []byte(key))
}

// CacheEntry - summary of one cached snapshot
type CacheEntry struct {
	Key     string                      `json:"key"`
	Account string                      `json:"account,omitempty"`
	Network uint64                      `json:"network,omitempty"`
	Locks   []string                    `json:"locks,omitempty"`
	Keys    map[string]record.KeyStatus `json:"keys,omitempty"`
	Error   string                      `json:"error,omitempty"`
}

// Has - true if a snapshot is cached under the key
func (StorageCache) Has(key string) bool {
	return storage.Pool.Snapshots.Has([]byte(key))
}

// Entries - summaries of all cached snapshots in key order
//
// a malformed entry is listed with its decode error
func (StorageCache) Entries() ([]CacheEntry, error) {
	elements, err := storage.Pool.Snapshots.Elements()
	if nil != err {
		return nil, err
	}

	entries := make([]CacheEntry, 0, len(elements))
	for _, e := range elements {
		entry := CacheEntry{
			Key: string(e.Key),
		}
		s, err := record.DecodeSnapshot(e.Value)
		if nil != err {
			entry.Error = err.Error()
			entries = append(entries, entry)
			continue
		}
		entry.Account = s.Account
		entry.Network = s.Network
		entry.Locks = make([]string, 0, len(s.Locks))
		for address := range s.Locks {
			entry.Locks = append(entry.Locks, address)
		}
		sort.Strings(entry.Locks)
		entry.Keys = make(map[string]record.KeyStatus, len(s.Keys))
		for address, key := range s.Keys {
			entry.Keys[address] = key.Status
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
