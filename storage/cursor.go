// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Map - run a function on all elements in the pool
//
// iteration stops at the first error which is returned
func (p *PoolHandle) Map(f func(key []byte, value []byte) error) error {
	maxRange := util.Range{
		Start: []byte{p.prefix}, // Start of key range, included in the range
		Limit: p.limit,          // Limit of key range, excluded from the range
	}

	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return nil
	}

	iter := poolData.db.NewIterator(&maxRange, nil)

	var err error
iterating:
	for iter.Next() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		dataKey := make([]byte, len(key)-1) // strip the prefix
		copy(dataKey, key[1:])              // ...

		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		err = f(dataKey, dataValue)
		if err != nil {
			break iterating
		}
	}
	iter.Release()
	if err == nil {
		err = iter.Error()
	}
	return err
}

// Elements - fetch all elements of a pool in key order
func (p *PoolHandle) Elements() ([]Element, error) {
	results := make([]Element, 0, 16)
	err := p.Map(func(key []byte, value []byte) error {
		results = append(results, Element{Key: key, Value: value})
		return nil
	})
	return results, err
}
