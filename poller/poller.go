// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package poller - fixed interval pollers that only report changes
//
// each poller fetches a single value, compares it with the previous
// value and calls its change function when the two differ.  The
// first successful fetch after creation or Reset always reports.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/go-cmp/cmp"

	"github.com/unlock-protocol/unlockd/constants"
)

// FetchFunc - obtain the current value
type FetchFunc func(ctx context.Context) (interface{}, error)

// ChangeFunc - receive a value that differs from the previous one
type ChangeFunc func(value interface{})

// Poller - a change detecting background process
type Poller struct {
	sync.Mutex

	log      *logger.L
	name     string
	interval time.Duration
	timeout  time.Duration
	fetch    FetchFunc
	onChange ChangeFunc

	previous    interface{}
	hasPrevious bool

	trigger chan struct{}
}

// New - create a poller
func New(name string, interval time.Duration, fetch FetchFunc, onChange ChangeFunc) *Poller {
	return &Poller{
		log:      logger.New(name),
		name:     name,
		interval: interval,
		timeout:  constants.PollTimeout,
		fetch:    fetch,
		onChange: onChange,
		trigger:  make(chan struct{}, 1),
	}
}

// Name - the poller name
func (p *Poller) Name() string {
	return p.name
}

// Poll - perform a single fetch and report the value if it changed
//
// returns true if the change function was called
func (p *Poller) Poll(ctx context.Context) bool {
	p.Lock()

	value, err := p.fetch(ctx)
	if nil != err {
		p.Unlock()
		p.log.Warnf("fetch error: %s", err)
		return false
	}

	if p.hasPrevious && cmp.Equal(p.previous, value) {
		p.Unlock()
		p.log.Tracef("unchanged: %v", value)
		return false
	}

	p.previous = value
	p.hasPrevious = true
	p.Unlock()

	p.log.Debugf("changed: %v", value)
	p.onChange(value)
	return true
}

// Reset - forget the previous value so the next fetch always reports
func (p *Poller) Reset() {
	p.Lock()
	p.previous = nil
	p.hasPrevious = false
	p.Unlock()
}

// Trigger - request an immediate poll from the background process
//
// multiple triggers before the next poll are merged
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run - background process polling at a fixed delay
func (p *Poller) Run(args interface{}, shutdown <-chan struct{}) {

	log := p.log

	log.Info("starting…")

	base, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-shutdown
		cancel()
	}()

	delay := time.NewTimer(0)
	defer delay.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-p.trigger:
			if !delay.Stop() {
				select {
				case <-delay.C:
				default:
				}
			}
		case <-delay.C:
		}

		ctx, done := context.WithTimeout(base, p.timeout)
		p.Poll(ctx)
		done()

		delay.Reset(p.interval)
	}

	log.Info("shutting down…")
	log.Flush()
}
