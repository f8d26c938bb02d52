// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/unlock-protocol/unlockd/messagebus"
)

func TestQueue(t *testing.T) {

	items := []messagebus.Message{
		{
			Command:    "c1",
			Parameters: [][]byte{[]byte("p1")},
		},
		{
			Command:    "c2",
			Parameters: nil,
		},
		{
			Command:    "c3",
			Parameters: [][]byte{[]byte("p3"), []byte("q3")},
		},
	}

	for _, item := range items {
		ok := messagebus.Bus.TestQueue.Send(item.Command, item.Parameters...)
		assert.True(t, ok, "send failed")
	}

	queue := messagebus.Bus.TestQueue.Chan()
	for _, item := range items {
		received := <-queue
		assert.Equal(t, item.Command, received.Command, "wrong command")
		assert.Equal(t, len(item.Parameters), len(received.Parameters), "wrong parameters")
	}
}

func TestQueueFull(t *testing.T) {
	n := 0
	for messagebus.Bus.TestQueue.Send("fill") {
		n += 1
		if n > 100 {
			break
		}
	}
	assert.Equal(t, 50, n, "wrong queue size")

	// drain
	queue := messagebus.Bus.TestQueue.Chan()
	for i := 0; i < n; i += 1 {
		<-queue
	}
}

func TestBroadcast(t *testing.T) {

	items := []string{"c1", "c2", "c3"}

	// nothing listening so these messages should be dropped
	for _, item := range items {
		messagebus.Bus.Broadcast.Send("ignored:" + item)
	}

	// create some listeners
	const listeners = 5

	var l [listeners]int
	var wg sync.WaitGroup
	var queues [listeners]<-chan messagebus.Message

	for i := 0; i < listeners; i += 1 {
		queues[i] = messagebus.Bus.Broadcast.Chan(0)
	}

	for i := 0; i < listeners; i += 1 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for _, item := range items {
				select {
				case received := <-queues[n]:
					if received.Command == item {
						l[n] += 1
					}
				case <-time.After(time.Second):
					return
				}
			}
		}(i)
	}

	// all listening so these messages should be received
	for _, item := range items {
		messagebus.Bus.Broadcast.Send(item, []byte("data"))
	}

	// wait for completion
	wg.Wait()
	for i, n := range l {
		assert.Equal(t, len(items), n, "listener[%d] received wrong count", i)
	}

	for i := 0; i < listeners; i += 1 {
		messagebus.Bus.Broadcast.Release(queues[i])
		_, ok := <-queues[i]
		assert.False(t, ok, "released channel not closed")
	}

	// release of unknown channel is harmless
	messagebus.Bus.Broadcast.Release(make(chan messagebus.Message))
}
