// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - JSON-RPC over TLS and its HTTPS bridge
package rpc

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/rpc/certificate"
	"github.com/unlock-protocol/unlockd/rpc/handler"
	"github.com/unlock-protocol/unlockd/rpc/listeners"
	"github.com/unlock-protocol/unlockd/rpc/paywall"
	"github.com/unlock-protocol/unlockd/rpc/server"
)

const (
	tlsName   = "client_rpc"
	httpsName = "http_rpc"
)

// globals
type rpcData struct {
	sync.RWMutex // to allow locking

	log *logger.L // logger

	connectionCountRPC atomic.Uint64

	listeners []listeners.Listener

	// set once during initialise
	initialised bool
}

// global data
var globalData rpcData

// Initialise - start the RPC and HTTPS listeners
func Initialise(rpcConfiguration *listeners.RPCConfiguration, httpsConfiguration *listeners.HTTPSConfiguration, version string, sessions paywall.Sessions, publicKey []byte) error {

	globalData.Lock()
	defer globalData.Unlock()

	// no need to Start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	log := logger.New("rpc")
	globalData.log = log
	log.Info("starting…")

	tlsConfig, certificateFingerprint, err := certificate.Load(log, tlsName, rpcConfiguration.Certificate, rpcConfiguration.PrivateKey)
	if nil != err {
		return err
	}

	rpcServer := server.Create(log, version, &globalData.connectionCountRPC, sessions, publicKey)

	rpcListener, err := listeners.NewRPC(
		rpcConfiguration,
		log,
		&globalData.connectionCountRPC,
		rpcServer,
		tlsConfig,
		certificateFingerprint,
	)
	if nil != err {
		return err
	}
	err = rpcListener.Serve()
	if nil != err {
		rpcListener.Close()
		return err
	}
	globalData.listeners = []listeners.Listener{rpcListener}

	httpsListener, err := initialiseHTTPS(httpsConfiguration, version, sessions, publicKey)
	if nil != err {
		rpcListener.Close()
		return err
	}
	if nil != httpsListener {
		globalData.listeners = append(globalData.listeners, httpsListener)
	}

	// all data initialised
	globalData.initialised = true

	return nil
}

// Finalise - stop all listeners
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	for _, l := range globalData.listeners {
		_ = l.Close()
	}
	globalData.listeners = nil

	// finally...
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}

func initialiseHTTPS(configuration *listeners.HTTPSConfiguration, version string, sessions paywall.Sessions, publicKey []byte) (listeners.Listener, error) {

	log := globalData.log

	if 0 == len(configuration.Listen) {
		log.Infof("disable: %s", httpsName)
		return nil, nil
	}

	tlsConfiguration, fingerprint, err := certificate.Load(log, httpsName, configuration.Certificate, configuration.PrivateKey)
	if nil != err {
		return nil, err
	}

	log.Infof("%s: SHA3-256 fingerprint: %x", httpsName, fingerprint)

	// the bridge has its own server so that its calls are counted separately
	var count atomic.Uint64
	s := server.Create(log, version, &count, sessions, publicKey)
	hdlr := handler.New(log, s, time.Now(), version, configuration.MaximumConnections, sessions)

	l, err := listeners.NewHTTPS(configuration, log, tlsConfiguration, hdlr)
	if nil != err {
		return nil, err
	}
	if err := l.Serve(); nil != err {
		l.Close()
		return nil, err
	}
	return l, nil
}
