// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"reflect"
	"strconv"
	"sync"
)

// internal constants
const (
	queueSize = 1000
)

// Message - a command and its parameters
type Message struct {
	Command    string
	Parameters [][]byte
}

// BusType - the set of queues
type BusType struct {
	Broadcast     *BroadcastQueue `size:"1000"`
	Notifications *Queue          `size:"1000"`
	TestQueue     *Queue          `size:"50"`
}

// Bus - the message queues
var Bus BusType

// Queue - a single reader queue
type Queue struct {
	c chan Message
}

// BroadcastQueue - a queue with many readers
type BroadcastQueue struct {
	sync.RWMutex
	listeners []chan Message
	size      int
}

// initialise all queues with preset size
func init() {

	// this will be a struct type
	busType := reflect.TypeOf(Bus)

	// get write access by using pointer + Elem()
	busValue := reflect.ValueOf(&Bus).Elem()

	// scan each field
	for i := 0; i < busType.NumField(); i += 1 {

		fieldInfo := busType.Field(i)

		sizeTag := fieldInfo.Tag.Get("size")
		queueSize := queueSize
		if "" != sizeTag {
			n, err := strconv.Atoi(sizeTag)
			if nil != err || n <= 0 {
				panic("invalid size for: " + fieldInfo.Name)
			}
			queueSize = n
		}

		switch busValue.Field(i).Interface().(type) {
		case *Queue:
			q := &Queue{
				c: make(chan Message, queueSize),
			}
			busValue.Field(i).Set(reflect.ValueOf(q))
		case *BroadcastQueue:
			q := &BroadcastQueue{
				listeners: make([]chan Message, 0, 10),
				size:      queueSize,
			}
			busValue.Field(i).Set(reflect.ValueOf(q))
		default:
			panic("invalid type: " + fieldInfo.Name)
		}
	}
}

// Send - queue a message, dropped if the queue is full
func (queue *Queue) Send(command string, parameters ...[]byte) bool {
	select {
	case queue.c <- Message{Command: command, Parameters: parameters}:
		return true
	default:
		return false
	}
}

// Chan - channel to read from
func (queue *Queue) Chan() <-chan Message {
	return queue.c
}

// Send - deliver a message to every listener
//
// listeners that are full miss the message
func (queue *BroadcastQueue) Send(command string, parameters ...[]byte) {
	m := Message{
		Command:    command,
		Parameters: parameters,
	}

	queue.RLock()
	defer queue.RUnlock()
	for _, listener := range queue.listeners {
		select {
		case listener <- m:
		default:
		}
	}
}

// Chan - register a new listener
//
// size of zero uses the queue default
func (queue *BroadcastQueue) Chan(size int) <-chan Message {
	if size <= 0 {
		size = queue.size
	}
	c := make(chan Message, size)

	queue.Lock()
	queue.listeners = append(queue.listeners, c)
	queue.Unlock()
	return c
}

// Release - unregister a listener and close its channel
func (queue *BroadcastQueue) Release(c <-chan Message) {
	queue.Lock()
	defer queue.Unlock()
	for i, listener := range queue.listeners {
		if (<-chan Message)(listener) == c {
			close(listener)
			queue.listeners = append(queue.listeners[:i], queue.listeners[i+1:]...)
			return
		}
	}
}
