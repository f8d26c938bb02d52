// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/unlock-protocol/unlockd/background"
	"github.com/unlock-protocol/unlockd/chain"
	"github.com/unlock-protocol/unlockd/locksmith/api"
	"github.com/unlock-protocol/unlockd/locksmith/database"
	"github.com/unlock-protocol/unlockd/locksmith/email"
	"github.com/unlock-protocol/unlockd/locksmith/pricing"
	"github.com/unlock-protocol/unlockd/web3"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// time allowed for the initial node connection
const dialTimeout = 30 * time.Second

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile, nil)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// optional PID file
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// migrations run on open
	log.Infof("database driver: %s", theConfiguration.Database.Driver)
	db, err := database.Open(theConfiguration.Database)
	if nil != err {
		log.Criticalf("database open error: %s", err)
		exitwithstatus.Message("database open error: %s", err)
	}
	defer db.Close()

	// these commands need the migrated database
	if len(arguments) > 0 && processDataCommand(arguments, db) {
		return
	}

	// lock and key reads go straight to the node
	log.Infof("web3 provider: %q", theConfiguration.Web3Provider)
	dialContext, cancel := context.WithTimeout(context.Background(), dialTimeout)
	node, err := web3.Dial(dialContext, theConfiguration.Web3Provider)
	if nil == err {
		var networkID uint64
		networkID, err = node.NetworkID(dialContext)
		if nil == err {
			log.Infof("network: %s (%d)", chain.Name(networkID), networkID)
		}
	}
	cancel()
	if nil != err {
		log.Criticalf("web3 provider: %q  error: %s", theConfiguration.Web3Provider, err)
		exitwithstatus.Message("web3 provider: %q  error: %s", theConfiguration.Web3Provider, err)
	}
	defer node.Close()

	pricer := pricing.New(node, theConfiguration.Pricing)

	// mail is optional
	var mailer api.Mailer
	if "" != theConfiguration.Email.URL {
		mailer = email.New(theConfiguration.Email, nil)
	} else {
		log.Warn("no email service configured")
	}

	server := api.New(theConfiguration.API, db, pricer, mailer, node)
	processes := background.Start(background.Processes{server}, nil)
	defer processes.StopAndWait()

	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nlistening on: %s  waiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…", theConfiguration.API.Listen)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}
