// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"crypto/tls"
	"io"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client - to hold RPC connections streams
type Client struct {
	conn    net.Conn
	client  *rpc.Client
	verbose bool
	handle  io.Writer // if verbose is set output items here
}

// NewClient - create a RPC connection to an unlockd
func NewClient(connect string, timeout time.Duration, verbose bool, handle io.Writer) (*Client, error) {

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}

	dialer := &net.Dialer{
		Timeout: timeout,
	}
	conn, err := tls.DialWithDialer(dialer, "tcp", connect, tlsConfig)
	if err != nil {
		return nil, err
	}

	return NewClientFromConn(conn, verbose, handle), nil
}

// NewClientFromConn - use an already established connection
func NewClientFromConn(conn net.Conn, verbose bool, handle io.Writer) *Client {
	return &Client{
		conn:    conn,
		client:  jsonrpc.NewClient(conn),
		verbose: verbose,
		handle:  handle,
	}
}

// Close - shutdown the unlockd connection
func (c *Client) Close() {
	c.client.Close()
	c.conn.Close()
}

// make the call and optionally show the request and reply
func (c *Client) call(method string, arguments interface{}, reply interface{}) error {
	if c.verbose {
		printJson(c.handle, method, arguments)
	}
	if err := c.client.Call(method, arguments, reply); nil != err {
		return err
	}
	if c.verbose {
		printJson(c.handle, "reply", reply)
	}
	return nil
}
