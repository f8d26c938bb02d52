// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/unlock-protocol/unlockd/configuration"
	"github.com/unlock-protocol/unlockd/locksmith/api"
	"github.com/unlock-protocol/unlockd/locksmith/database"
	"github.com/unlock-protocol/unlockd/locksmith/email"
	"github.com/unlock-protocol/unlockd/locksmith/pricing"
	"github.com/unlock-protocol/unlockd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultDriver     = "sqlite3"
	defaultDataSource = "locksmith.sqlite"

	defaultListen       = "127.0.0.1:8080"
	defaultWeb3Provider = "http://127.0.0.1:8545"

	defaultLogDirectory = "log"
	defaultLogFile      = "locksmith.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// Configuration - the whole locksmith configuration
type Configuration struct {
	DataDirectory string `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string `gluamapper:"pidfile" json:"pidfile"`
	Web3Provider  string `gluamapper:"web3_provider" json:"web3_provider"`

	Database database.Configuration `gluamapper:"database" json:"database"`
	API      api.Configuration      `gluamapper:"api" json:"api"`
	Pricing  pricing.Configuration  `gluamapper:"pricing" json:"pricing"`
	Email    email.Configuration    `gluamapper:"email" json:"email"`
	Logging  logger.Configuration   `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		Web3Provider:  defaultWeb3Provider,

		Database: database.Configuration{
			Driver:     defaultDriver,
			DataSource: defaultDataSource,
		},

		API: api.Configuration{
			Listen: defaultListen,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// a plain sqlite file name lives in the data directory
	if "sqlite3" == options.Database.Driver && isPlainFile(options.Database.DataSource) {
		options.Database.DataSource = util.EnsureAbsolute(options.DataDirectory, options.Database.DataSource)
	}

	if "" != options.PidFile {
		options.PidFile = util.EnsureAbsolute(options.DataDirectory, options.PidFile)
	}

	if filepath.Base(options.Logging.File) != options.Logging.File {
		return nil, fmt.Errorf("Files: %q is not plain name", options.Logging.File)
	}
	options.Logging.Directory = util.EnsureAbsolute(options.DataDirectory, options.Logging.Directory)
	if err := os.MkdirAll(options.Logging.Directory, 0700); nil != err {
		return nil, err
	}

	// done
	return options, nil
}

// true for a data source that is just a file path
func isPlainFile(dataSource string) bool {
	return "" != dataSource &&
		!strings.HasPrefix(dataSource, "file:") &&
		!strings.Contains(dataSource, ":memory:")
}
