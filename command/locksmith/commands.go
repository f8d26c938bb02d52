// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/unlock-protocol/unlockd/locksmith/database"
)

// setup command handler, no configuration is available
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "start", "run":
		return false // continue processing

	case "config-test", "cfg", "migrate", "db-version", "dbv":
		return false // defer processing until configuration is read

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version string\n\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  migrate                             - bring the database schema up to date and exit\n")
		fmt.Printf("\n")

		fmt.Printf("  db-version                 (dbv)    - display the database schema version\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	return true
}

// configuration file enquiry commands
func processConfigCommand(arguments []string, options *Configuration) bool {

	switch arguments[0] {
	case "config-test", "cfg":
		if err := printJSON(os.Stdout, options); nil != err {
			exitwithstatus.Message("error: %s", err)
		}

	default:
		return false
	}

	return true
}

// commands that run after the database is opened and migrated
func processDataCommand(arguments []string, db *database.Database) bool {

	switch arguments[0] {
	case "migrate":
		fmt.Printf("database migrated\n")

	case "db-version", "dbv":
		v, err := db.Version()
		if nil != err {
			exitwithstatus.Message("database version error: %s", err)
		}
		fmt.Printf("%d\n", v)

	default:
		return false
	}

	return true
}

func printJSON(w io.Writer, item interface{}) error {
	b, err := json.Marshal(item)
	if nil != err {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); nil != err {
		return err
	}
	out.WriteString("\n")
	_, err = out.WriteTo(w)
	return err
}
