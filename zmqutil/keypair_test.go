// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/zmqutil"
)

func TestMakeKeyPair(t *testing.T) {
	dir := t.TempDir()
	public := filepath.Join(dir, "publish.public")
	private := filepath.Join(dir, "publish.private")

	require.NoError(t, zmqutil.MakeKeyPair(public, private), "make key pair")

	publicKey, err := zmqutil.ReadPublicKeyFile(public)
	require.NoError(t, err, "read public")
	assert.Equal(t, 32, len(publicKey), "wrong public key length")

	privateKey, err := zmqutil.ReadPrivateKeyFile(private)
	require.NoError(t, err, "read private")
	assert.Equal(t, 32, len(privateKey), "wrong private key length")

	assert.Equal(t, fault.KeyFileAlreadyExists, zmqutil.MakeKeyPair(public, private), "overwrote keys")

	// swapped files
	_, err = zmqutil.ReadPublicKeyFile(private)
	assert.Equal(t, fault.InvalidPublicKeyFile, err, "private key read as public")
	_, err = zmqutil.ReadPrivateKeyFile(public)
	assert.Equal(t, fault.InvalidPrivateKeyFile, err, "public key read as private")
}

func TestParseKey(t *testing.T) {
	key := strings.Repeat("ab", 32)

	data, private, err := zmqutil.ParseKey("PRIVATE:" + key + "\n")
	assert.Nil(t, err, "parse private")
	assert.True(t, private, "not private")
	assert.Equal(t, 32, len(data), "wrong length")

	data, private, err = zmqutil.ParseKey("  PUBLIC:" + key)
	assert.Nil(t, err, "parse public")
	assert.False(t, private, "not public")
	assert.Equal(t, 32, len(data), "wrong length")

	_, _, err = zmqutil.ParseKey("PUBLIC:abcd")
	assert.Equal(t, fault.InvalidPublicKeyFile, err, "short key accepted")

	_, _, err = zmqutil.ParseKey(key)
	assert.Equal(t, fault.InvalidPublicKeyFile, err, "untagged key accepted")
}
