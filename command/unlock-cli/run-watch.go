// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	zmq "github.com/pebbe/zmq4"
	"github.com/urfave/cli"

	"github.com/unlock-protocol/unlockd/zmqutil"
)

// frame tag of the publisher's keep alive
const heartbeatTag = "heart"

func runWatch(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	serverKey, err := publisherKey(m, c.String("key"))
	if nil != err {
		return err
	}

	// an ephemeral client identity
	public, private, err := zmq.NewCurveKeypair()
	if nil != err {
		return err
	}

	client, err := zmqutil.NewClient(zmq.SUB, []byte(zmq.Z85decode(private)), []byte(zmq.Z85decode(public)), 0)
	if nil != err {
		return err
	}
	defer client.Close()

	client.Subscribe(c.String("session"))
	if err := client.Connect(c.String("publisher"), serverKey); nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "subscribed to: %s\n", client)
	}

	limit := c.Int("events")
	for count := 0; 0 == limit || count < limit; {
		frames, err := client.Receive(0)
		if nil != err {
			return err
		}
		if printEvent(m.w, frames, m.verbose) {
			count += 1
		}
	}
	return nil
}

// the key given on the command line or the one reported by the node
func publisherKey(m *metadata, key string) ([]byte, error) {
	if "" == key {
		rpcClient, err := connect(m)
		if nil != err {
			return nil, err
		}
		defer rpcClient.Close()

		info, err := rpcClient.GetInfo()
		if nil != err {
			return nil, err
		}
		key = info.PublicKey
	}
	return hex.DecodeString(key)
}

// show a published event, returns false for heartbeats
func printEvent(w io.Writer, frames [][]byte, verbose bool) bool {
	if 2 == len(frames) && heartbeatTag == string(frames[0]) {
		if verbose && 8 == len(frames[1]) {
			t := time.Unix(int64(binary.BigEndian.Uint64(frames[1])), 0).UTC()
			fmt.Fprintf(w, "heartbeat: %s\n", t.Format(time.RFC3339))
		}
		return false
	}

	if 3 != len(frames) {
		fmt.Fprintf(w, "unexpected frames: %d\n", len(frames))
		return false
	}

	fmt.Fprintf(w, "%s %-24s %s\n", frames[0], frames[1], frames[2])
	return true
}
