// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/unlock-protocol/unlockd/background"
	"github.com/unlock-protocol/unlockd/cache"
	"github.com/unlock-protocol/unlockd/chain"
	"github.com/unlock-protocol/unlockd/locksmith/client"
	"github.com/unlock-protocol/unlockd/mailbox"
	"github.com/unlock-protocol/unlockd/publish"
	"github.com/unlock-protocol/unlockd/rpc"
	"github.com/unlock-protocol/unlockd/session"
	"github.com/unlock-protocol/unlockd/storage"
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
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
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

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile, nil)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
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

	// start a profiling http server
	// this uses the default builtin HTTP handler
	// and is not associated with the normal ClientRPC HTTPS server
	if "" != theConfiguration.ProfileHTTP {
		go func() {
			log.Warnf("profile listener on: %s", theConfiguration.ProfileHTTP)
			err := http.ListenAndServe(theConfiguration.ProfileHTTP, nil)
			exitwithstatus.Message("profile error: %s", err)
		}()
	}

	// connection info
	log.Debugf("%s = %#v", "ClientRPC", theConfiguration.ClientRPC)
	log.Debugf("%s = %#v", "HttpsRPC", theConfiguration.HttpsRPC)
	log.Debugf("%s = %#v", "Publishing", theConfiguration.Publishing)
	log.Infof("database: %q", theConfiguration.Database.Name)

	// connect to the node and find out which network it serves
	log.Infof("web3 provider: %q", theConfiguration.Web3Provider)
	dialContext, cancel := context.WithTimeout(context.Background(), dialTimeout)
	node, err := web3.Dial(dialContext, theConfiguration.Web3Provider)
	if nil == err {
		var networkID uint64
		networkID, err = node.NetworkID(dialContext)
		if nil == err {
			log.Infof("network: %s (%d)  test mode: %v", chain.Name(networkID), networkID, chain.IsTesting(networkID))
			if 0 == theConfiguration.RequiredConfirmations {
				theConfiguration.RequiredConfirmations = chain.RequiredConfirmations(networkID)
			}
		}
	}
	cancel()
	if nil != err {
		log.Criticalf("web3 provider: %q  error: %s", theConfiguration.Web3Provider, err)
		exitwithstatus.Message("web3 provider: %q  error: %s", theConfiguration.Web3Provider, err)
	}
	defer node.Close()
	log.Infof("required confirmations: %d", theConfiguration.RequiredConfirmations)

	// start the snapshot storage
	log.Info("initialise storage")
	err = storage.Initialise(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer storage.Finalise()

	// these commands only read the database
	if len(arguments) > 0 {
		done, err := processDataCommand(os.Stdout, arguments, mailbox.StorageCache{})
		if nil != err {
			exitwithstatus.Message("%s: %s  error: %s", program, arguments[0], err)
		}
		if done {
			return
		}
	}

	// start the in-memory caches
	err = cache.Initialise()
	if nil != err {
		log.Criticalf("cache initialise error: %s", err)
		exitwithstatus.Message("cache initialise error: %s", err)
	}
	defer cache.Finalise()

	// every session builds its own handler from the shared connections
	factory := &handlerFactory{
		reader:   node,
		wallet:   node,
		source:   client.New(theConfiguration.Locksmith.URL, theConfiguration.LocksmithTimeout()),
		required: theConfiguration.RequiredConfirmations,
	}

	log.Info("initialise session")
	err = session.Initialise(session.Configuration{
		Factory:         factory.create,
		Cache:           mailbox.StorageCache{},
		QueueSize:       theConfiguration.Sessions.QueueSize,
		MaximumSessions: theConfiguration.Sessions.MaximumSessions,
		IdleTimeout:     theConfiguration.IdleTimeout(),
	})
	if nil != err {
		log.Criticalf("session initialise error: %s", err)
		exitwithstatus.Message("session initialise error: %s", err)
	}
	defer session.Finalise()

	// optional default paywall, reloaded whenever the file changes
	if "" != theConfiguration.DefaultPaywall {
		paywall, err := readPaywall(theConfiguration.DefaultPaywall)
		if nil != err {
			log.Criticalf("default paywall: %q  error: %s", theConfiguration.DefaultPaywall, err)
			exitwithstatus.Message("default paywall: %q  error: %s", theConfiguration.DefaultPaywall, err)
		}
		session.SetDefault(context.Background(), paywall)

		watcher, err := newPaywallWatcher(logger.New("paywall"), theConfiguration.DefaultPaywall, func(conf *mailbox.PaywallConfig) {
			session.SetDefault(context.Background(), conf)
		})
		if nil != err {
			log.Criticalf("paywall watcher error: %s", err)
			exitwithstatus.Message("paywall watcher error: %s", err)
		}
		watching := background.Start(background.Processes{watcher}, nil)
		defer watching.StopAndWait()
	}

	// start up the publishing background processes
	err = publish.Initialise(&theConfiguration.Publishing)
	if nil != err {
		log.Criticalf("publish initialise error: %s", err)
		exitwithstatus.Message("publish initialise error: %s", err)
	}
	defer publish.Finalise()

	// start up the rpc background processes
	err = rpc.Initialise(&theConfiguration.ClientRPC, &theConfiguration.HttpsRPC, version, session.Registry{}, publish.PublicKey())
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	defer rpc.Finalise()

	// if memory logging enabled
	if len(options["memory-stats"]) > 0 {
		go memstats()
	}

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
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
