// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unlock-protocol/unlockd/storage"
)

// open a fresh database in a temporary directory and return its name,
// the database is closed when the test ends
func setup(t *testing.T) string {
	name := filepath.Join(t.TempDir(), "test")
	require.NoError(t, storage.Initialise(name, storage.ReadWrite), "storage initialise")
	t.Cleanup(storage.Finalise)
	return name
}

func element(key string, value string) storage.Element {
	return storage.Element{
		Key:   []byte(key),
		Value: []byte(value),
	}
}

// populate leaves these in key order
var expectedElements = []storage.Element{
	element("key-five", "data-five"),
	element("key-four", "data-four"),
	element("key-one", "data-one(NEW)"),
	element("key-seven", "data-seven"),
	element("key-six", "data-six"),
	element("key-three", "data-three"),
	element("key-two", "data-two"),
}

// a key that must not exist
var nonExistantKey = []byte("/nonexistant")
