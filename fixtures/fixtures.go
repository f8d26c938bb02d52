// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - common test setup
package fixtures

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// well known addresses for tests
const (
	LockAddress      = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	LockChecksum     = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	OtherLockAddress = "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"
	AccountAddress   = "0xdbf03b407c01e7cd3cbea99509d93f8dddc8c6fb"
	AccountChecksum  = "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"
)

// SetupTestLogger - start a file logger in the testing directory
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the testing directory
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}
