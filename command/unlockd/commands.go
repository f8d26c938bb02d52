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
	"path/filepath"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/mailbox"
	"github.com/unlock-protocol/unlockd/record"
	"github.com/unlock-protocol/unlockd/rpc/certificate"
	"github.com/unlock-protocol/unlockd/zmqutil"
)

const (
	rpcCertificateKeyFilename = "rpc.crt"
	rpcPrivateKeyFilename     = "rpc.key"

	publishPublicKeyFilename  = "publish.public"
	publishPrivateKeyFilename = "publish.private"
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, rpcCertificateKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, rpcPrivateKeyFilename)

		addresses := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					addresses = append(addresses, a)
				}
			}
		}

		err := certificate.Generate("unlockd", certificateFilename, privateKeyFilename, 0 != len(addresses), addresses)
		if nil != err {
			fmt.Printf("generate RPC key: %q and certificate: %q error: %s\n", privateKeyFilename, certificateFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "gen-publish-keys", "publish":
		publicKeyFilename := getFilenameWithDirectory(arguments, publishPublicKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, publishPrivateKeyFilename)
		err := zmqutil.MakeKeyPair(publicKeyFilename, privateKeyFilename)
		if nil != err {
			fmt.Printf("generate private key: %q and public key: %q error: %s\n", privateKeyFilename, publicKeyFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated private key: %q and public key: %q\n", privateKeyFilename, publicKeyFilename)

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg":
		return false

	case "cache-list", "cl", "cache-show", "cs":
		return false

	case "paywall-test", "pw":
		if len(arguments) < 1 {
			fmt.Printf("error: missing paywall file name\n")
			exitwithstatus.Exit(1)
		}
		conf, err := readPaywall(arguments[0])
		if nil != err {
			fmt.Printf("paywall: %q error: %s\n", arguments[0], err)
			exitwithstatus.Exit(1)
		}
		if err := printJSON(os.Stdout, conf); nil != err {
			exitwithstatus.Message("error: %s", err)
		}

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
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version string\n\n")

		fmt.Printf("  gen-rpc-cert [DIR]         (rpc)    - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-rpc-cert [DIR] [IPs...]         - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-publish-keys [DIR]     (publish) - create private key in: %q\n", "DIR/"+publishPrivateKeyFilename)
		fmt.Printf("                                         and the public key in: %q\n", "DIR/"+publishPublicKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  paywall-test FILE          (pw)     - check a paywall file and display the result\n")
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  cache-list                 (cl)     - summarise every cached paywall snapshot\n")
		fmt.Printf("  cache-show KEY             (cs)     - display one cached snapshot\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		if err := printJSON(os.Stdout, options); nil != err {
			exitwithstatus.Message("error: %s", err)
		}

	default:
		return false
	}

	return true
}

// cached snapshot commands
// have the database open, but nothing else started
func processDataCommand(w io.Writer, arguments []string, cache snapshotStore) (bool, error) {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "cache-list", "cl":
		entries, err := cache.Entries()
		if nil != err {
			return true, err
		}
		return true, printJSON(w, entries)

	case "cache-show", "cs":
		if len(arguments) < 1 {
			return true, fault.MissingParameters
		}
		key := arguments[0]
		if !cache.Has(key) {
			return true, fault.SnapshotNotFound
		}
		s, err := record.DecodeSnapshot(cache.Get(key))
		if nil != err {
			return true, err
		}
		return true, printJSON(w, s)

	default:
		return false, nil
	}
}

// the parts of the snapshot cache used by the data commands
type snapshotStore interface {
	Get(key string) []byte
	Has(key string) bool
	Entries() ([]mailbox.CacheEntry, error)
}

// get the working directory; if not set in the arguments
// it's set to the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
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
