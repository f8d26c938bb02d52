// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/unlock-protocol/unlockd/configuration"
	"github.com/unlock-protocol/unlockd/mailbox"
)

// read and validate a paywall configuration written in Lua
func readPaywall(fileName string) (*mailbox.PaywallConfig, error) {
	conf := mailbox.PaywallConfig{}
	if err := configuration.ParseConfigurationFile(fileName, &conf, nil); nil != err {
		return nil, err
	}

	validated, err := conf.Validate()
	if nil != err {
		return nil, err
	}
	return &validated, nil
}

// re-applies the default paywall whenever its file changes
//
// the directory is watched since editors often replace the file
type paywallWatcher struct {
	log      *logger.L
	watcher  *fsnotify.Watcher
	fileName string
	apply    func(conf *mailbox.PaywallConfig)
}

func newPaywallWatcher(log *logger.L, fileName string, apply func(conf *mailbox.PaywallConfig)) (*paywallWatcher, error) {
	fileName, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		log.Errorf("new watcher error: %s", err)
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(fileName)); nil != err {
		log.Errorf("watch: %q  error: %s", fileName, err)
		watcher.Close()
		return nil, err
	}

	return &paywallWatcher{
		log:      log,
		watcher:  watcher,
		fileName: fileName,
		apply:    apply,
	}, nil
}

// Run - background process loop
func (w *paywallWatcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	log.Infof("watching: %q", w.fileName)

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Clean(event.Name) != w.fileName || !paywallChanged(event) {
				continue loop
			}
			log.Infof("file event: %v", event)
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)
		}
	}

	w.watcher.Close()
	log.Info("stopped")
}

func (w *paywallWatcher) reload() {
	conf, err := readPaywall(w.fileName)
	if nil != err {
		w.log.Errorf("default paywall: %q  error: %s", w.fileName, err)
		return
	}
	w.log.Infof("default paywall reloaded with %d locks", len(conf.Locks))
	w.apply(conf)
}

func paywallChanged(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create
}
