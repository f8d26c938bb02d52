// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag on the pools structure.
//
//   S   - paywall snapshot cache
//         key:   cache key (base58 hash of the sorted lock address list)
//         value: JSON encoded record.Snapshot
//
//   Z   - testing
//
// Reads are served through a short lived memory cache that is updated
// on every write.
package storage
