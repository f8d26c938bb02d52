// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - run a set of long-lived goroutines that all
// share a single shutdown signal
package background

import (
	"sync"
)

// Process - a background task, Run must return soon after shutdown
// is closed
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// T - handle for a started set of processes
type T struct {
	sync.Mutex
	shutdown chan struct{}
	wg       sync.WaitGroup
	stopped  bool
}

// Start - start up a set of background processes
func Start(processes Processes, args interface{}) *T {
	register := &T{
		shutdown: make(chan struct{}),
	}

	for _, p := range processes {
		register.wg.Add(1)
		go func(p Process) {
			defer register.wg.Done()
			p.Run(args, register.shutdown)
		}(p)
	}
	return register
}

// Stop - signal all processes to stop, does not wait
func (t *T) Stop() {
	if nil == t {
		return
	}
	t.Lock()
	defer t.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	close(t.shutdown)
}

// StopAndWait - signal all processes to stop and wait for them all
// to return
func (t *T) StopAndWait() {
	if nil == t {
		return
	}
	t.Stop()
	t.wg.Wait()
}
