// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/unlock-protocol/unlockd/background"
)

type ticker struct {
	count    int64
	finished int32
}

func (state *ticker) Run(args interface{}, shutdown <-chan struct{}) {
	step := args.(int64)
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(time.Millisecond):
			atomic.AddInt64(&state.count, step)
		}
	}
	atomic.StoreInt32(&state.finished, 1)
}

func TestBackground(t *testing.T) {
	proc1 := &ticker{}
	proc2 := &ticker{}

	processes := background.Processes{
		proc1,
		proc2,
	}

	p := background.Start(processes, int64(3))
	time.Sleep(50 * time.Millisecond)
	p.StopAndWait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&proc1.finished), "process 1 did not finish")
	assert.Equal(t, int32(1), atomic.LoadInt32(&proc2.finished), "process 2 did not finish")
	assert.True(t, atomic.LoadInt64(&proc1.count) > 0, "process 1 never ran")
	assert.Equal(t, int64(0), atomic.LoadInt64(&proc1.count)%3, "wrong step")

	// counts must be stable after stop
	c1 := atomic.LoadInt64(&proc1.count)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, c1, atomic.LoadInt64(&proc1.count), "process ran after stop")
}

func TestStopTwice(t *testing.T) {
	p := background.Start(background.Processes{&ticker{}}, int64(1))
	p.Stop()
	p.Stop()
	p.StopAndWait()

	var nilHandle *background.T
	nilHandle.StopAndWait()
}
