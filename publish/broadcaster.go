// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"encoding/binary"
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/unlock-protocol/unlockd/messagebus"
	"github.com/unlock-protocol/unlockd/session"
	"github.com/unlock-protocol/unlockd/zmqutil"
)

const (
	heartbeatInterval = 60 * time.Second
	heartbeatCommand  = "heart"
	publishZapDomain  = "publish"
)

type broadcaster struct {
	log     *logger.L
	socket4 *zmq.Socket
	socket6 *zmq.Socket
}

// initialise the broadcaster
func (brdc *broadcaster) initialise(privateKey []byte, publicKey []byte, broadcast []string) error {

	log := logger.New("broadcaster")
	brdc.log = log

	log.Info("initialising…")

	// read the keys
	c4, c6, err := zmqutil.NewBind(log, zmq.PUB, publishZapDomain, privateKey, publicKey, broadcast)
	if nil != err {
		log.Errorf("bind error: %s", err)
		return err
	}

	brdc.socket4 = c4 // IPv4
	brdc.socket6 = c6 // IPv6

	return nil
}

// wait for new messages, the sockets are only used from this goroutine
func (brdc *broadcaster) Run(args interface{}, shutdown <-chan struct{}) {

	log := brdc.log

	log.Info("starting…")

	queue := messagebus.Bus.Notifications.Chan()
	heartbeat := time.NewTicker(heartbeatInterval)

loop:
	for {
		log.Debug("waiting…")

		select {
		case <-shutdown:
			break loop
		case <-heartbeat.C:
			now := make([]byte, 8)
			binary.BigEndian.PutUint64(now, uint64(time.Now().Unix()))
			brdc.send([]byte(heartbeatCommand), now)
		case item := <-queue:
			if session.NotifyCommand != item.Command || 3 != len(item.Parameters) {
				log.Warnf("unexpected notification: %s  parameters: %d", item.Command, len(item.Parameters))
				continue loop
			}
			log.Tracef("session: %s  kind: %s", item.Parameters[0], item.Parameters[1])
			brdc.send(item.Parameters...)
		}
	}
	heartbeat.Stop()

	log.Info("shutting down…")

	if nil != brdc.socket4 {
		brdc.socket4.Close()
	}
	if nil != brdc.socket6 {
		brdc.socket6.Close()
	}
	log.Info("stopped")
}

// send a multipart message on every bound socket
func (brdc *broadcaster) send(frames ...[]byte) {
	for _, socket := range []*zmq.Socket{brdc.socket4, brdc.socket6} {
		if nil == socket {
			continue
		}
		if err := sendFrames(socket, frames); nil != err {
			brdc.log.Errorf("send error: %s", err)
		}
	}
}

func sendFrames(socket *zmq.Socket, frames [][]byte) error {
	last := len(frames) - 1
	for i, frame := range frames {
		flag := zmq.SNDMORE
		if i == last {
			flag = 0
		}
		if _, err := socket.SendBytes(frame, flag); nil != err {
			return err
		}
	}
	return nil
}
