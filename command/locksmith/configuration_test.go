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
)

func TestGetConfigurationFromSample(t *testing.T) {
	data, err := os.ReadFile("locksmith.conf.sample")
	require.NoError(t, err, "read sample")

	dir := t.TempDir()
	fileName := filepath.Join(dir, "locksmith.conf")
	require.NoError(t, os.WriteFile(fileName, data, 0600), "write sample")

	conf, err := getConfiguration(fileName, nil)
	require.NoError(t, err, "read configuration")

	assert.Equal(t, "sqlite3", conf.Database.Driver, "wrong driver")
	assert.Equal(t, filepath.Join(dir, "locksmith.sqlite"), conf.Database.DataSource, "data source not made absolute")
	assert.Equal(t, "127.0.0.1:8080", conf.API.Listen, "wrong listen")
	assert.Equal(t, float64(50), conf.API.RequestsPerSecond, "wrong rate")
	assert.Equal(t, time.Minute, conf.Pricing.CacheDuration, "wrong cache duration")
	assert.Equal(t, 30*time.Second, conf.Email.MaxElapsed, "wrong max elapsed")
	assert.Equal(t, []string{"confirmEmail", "welcome", "keyMined"}, conf.Email.Templates, "wrong templates")
	assert.Equal(t, filepath.Join(dir, defaultLogDirectory), conf.Logging.Directory, "wrong log directory")
}

func TestGetConfigurationKeepsDataSourceURIs(t *testing.T) {
	dir := t.TempDir()

	sources := []string{
		":memory:",
		"file:test.db?cache=shared",
	}
	for _, source := range sources {
		fileName := filepath.Join(dir, "test.conf")
		script := `return { data_directory = ".", database = { driver = "sqlite3", data_source = "` + source + `" } }`
		require.NoError(t, os.WriteFile(fileName, []byte(script), 0600), "write config")

		conf, err := getConfiguration(fileName, nil)
		require.NoError(t, err, "read configuration")
		assert.Equal(t, source, conf.Database.DataSource, "data source was changed")
	}
}

func TestGetConfigurationErrors(t *testing.T) {
	dir := t.TempDir()

	scripts := map[string]string{
		"blank-data": `return { data_directory = "" }`,
		"log-path":   `return { data_directory = ".", logging = { file = "a/b.log" } }`,
		"syntax":     `return {`,
	}

	for name, script := range scripts {
		fileName := filepath.Join(dir, name+".conf")
		require.NoError(t, os.WriteFile(fileName, []byte(script), 0600), "write config")

		_, err := getConfiguration(fileName, nil)
		assert.Error(t, err, "expected error for: %s", name)
	}
}
