// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unlock-protocol/unlockd/constants"
)

func copySample(t *testing.T, dir string, sample string, name string) string {
	data, err := os.ReadFile(sample)
	require.NoError(t, err, "read sample")
	fileName := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fileName, data, 0600), "write sample")
	return fileName
}

func TestGetConfigurationFromSample(t *testing.T) {
	dir := t.TempDir()
	fileName := copySample(t, dir, "unlockd.conf.sample", "unlockd.conf")

	conf, err := getConfiguration(fileName, nil)
	require.NoError(t, err, "read configuration")

	assert.Equal(t, filepath.Clean(dir), filepath.Clean(conf.DataDirectory), "wrong data directory")
	assert.Equal(t, filepath.Join(dir, "data", "unlockd.leveldb"), conf.Database.Name, "wrong database")
	assert.Equal(t, filepath.Join(dir, "rpc.crt"), conf.ClientRPC.Certificate, "wrong certificate")
	assert.Equal(t, filepath.Join(dir, "publish.private"), conf.Publishing.PrivateKey, "wrong publish key")
	assert.Equal(t, []string{"0.0.0.0:2130", "[::]:2130"}, conf.ClientRPC.Listen, "wrong listeners")
	assert.Equal(t, "http://127.0.0.1:8080", conf.Locksmith.URL, "wrong locksmith")
	assert.Equal(t, 10*time.Second, conf.LocksmithTimeout(), "wrong locksmith timeout")
	assert.Equal(t, 300*time.Second, conf.IdleTimeout(), "wrong idle timeout")
	assert.Equal(t, uint64(0), conf.RequiredConfirmations, "wrong confirmations")
	assert.Equal(t, "", conf.DefaultPaywall, "unexpected default paywall")

	info, err := os.Stat(filepath.Join(dir, "data"))
	require.NoError(t, err, "database directory not created")
	assert.True(t, info.IsDir(), "database path is not a directory")
}

func TestGetConfigurationDefaults(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "minimal.conf")
	script := `return { data_directory = ".", default_paywall = "paywall.conf" }`
	require.NoError(t, os.WriteFile(fileName, []byte(script), 0600), "write config")

	conf, err := getConfiguration(fileName, nil)
	require.NoError(t, err, "read configuration")

	assert.Equal(t, defaultWeb3Provider, conf.Web3Provider, "wrong provider")
	assert.Equal(t, defaultMaximumSessions, conf.Sessions.MaximumSessions, "wrong maximum sessions")
	assert.Equal(t, defaultQueueSize, conf.Sessions.QueueSize, "wrong queue size")
	assert.Equal(t, constants.SessionTimeout, conf.IdleTimeout(), "wrong idle timeout")
	assert.Equal(t, filepath.Join(dir, "paywall.conf"), conf.DefaultPaywall, "paywall not made absolute")
	assert.Equal(t, filepath.Join(dir, defaultLogDirectory), conf.Logging.Directory, "wrong log directory")
}

func TestGetConfigurationVariables(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "vars.conf")
	script := `return { data_directory = ".", web3_provider = variables["provider"] }`
	require.NoError(t, os.WriteFile(fileName, []byte(script), 0600), "write config")

	conf, err := getConfiguration(fileName, map[string]string{"provider": "ws://node:8546"})
	require.NoError(t, err, "read configuration")
	assert.Equal(t, "ws://node:8546", conf.Web3Provider, "variable not applied")
}

func TestGetConfigurationErrors(t *testing.T) {
	dir := t.TempDir()

	scripts := map[string]string{
		"blank-data":   `return { data_directory = "" }`,
		"missing-data": `return { data_directory = "` + filepath.Join(dir, "absent") + `" }`,
		"path-name":    `return { data_directory = ".", database = { name = "sub/db" } }`,
		"not-table":    `return "unlockd"`,
	}

	for name, script := range scripts {
		fileName := filepath.Join(dir, name+".conf")
		require.NoError(t, os.WriteFile(fileName, []byte(script), 0600), "write config")

		_, err := getConfiguration(fileName, nil)
		assert.Error(t, err, "expected error for: %s", name)
	}
}
