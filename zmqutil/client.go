// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"crypto/rand"
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/unlock-protocol/unlockd/fault"
)

// Client - a curve secured client connection, usually zmq.SUB
type Client struct {
	publicKey       []byte
	privateKey      []byte
	serverPublicKey []byte
	address         string
	v6              bool
	socketType      zmq.Type
	subscribe       string
	socket          *zmq.Socket
	timeout         time.Duration
}

const (
	publicKeySize  = 32
	privateKeySize = 32
	identifierSize = 32
)

// NewClient - create an unconnected client
//
// a zero timeout waits forever on send and receive
func NewClient(socketType zmq.Type, privateKey []byte, publicKey []byte, timeout time.Duration) (*Client, error) {

	if len(publicKey) != publicKeySize {
		return nil, fault.InvalidPublicKey
	}
	if len(privateKey) != privateKeySize {
		return nil, fault.InvalidPrivateKey
	}

	client := &Client{
		publicKey:       make([]byte, publicKeySize),
		privateKey:      make([]byte, privateKeySize),
		serverPublicKey: make([]byte, publicKeySize),
		socketType:      socketType,
		timeout:         timeout,
	}
	copy(client.privateKey, privateKey)
	copy(client.publicKey, publicKey)
	return client, nil
}

// Subscribe - set the SUB prefix used by the next Connect, empty
// receives everything
func (client *Client) Subscribe(prefix string) {
	client.subscribe = prefix
}

// create a socket and connect to specific server with specifed key
func (client *Client) openSocket() error {

	socket, err := zmq.NewSocket(client.socketType)
	if nil != err {
		return err
	}

	// create a secure random identifier
	randomIdBytes := make([]byte, identifierSize)
	_, err = rand.Read(randomIdBytes)
	if nil != err {
		socket.Close()
		return err
	}

	// set up as client
	err = socket.SetCurveServer(0)
	if nil != err {
		goto failure
	}
	err = socket.SetCurvePublickey(string(client.publicKey))
	if nil != err {
		goto failure
	}
	err = socket.SetCurveSecretkey(string(client.privateKey))
	if nil != err {
		goto failure
	}

	// local identitity is a random value
	err = socket.SetIdentity(string(randomIdBytes))
	if nil != err {
		goto failure
	}

	// destination identity is its public key
	err = socket.SetCurveServerkey(string(client.serverPublicKey))
	if nil != err {
		goto failure
	}

	// zero => do not set timeout
	if 0 != client.timeout {
		err = socket.SetSndtimeo(client.timeout)
		if nil != err {
			goto failure
		}
		err = socket.SetRcvtimeo(client.timeout)
		if nil != err {
			goto failure
		}
	}
	err = socket.SetLinger(0)
	if nil != err {
		goto failure
	}

	if zmq.SUB == client.socketType {
		err = socket.SetSubscribe(client.subscribe)
		if nil != err {
			goto failure
		}
	}

	// heartbeat (constants from socket.go)
	err = socket.SetHeartbeatIvl(heartbeatInterval)
	if nil != err && zmq.ErrorNotImplemented42 != err {
		goto failure
	}
	err = socket.SetHeartbeatTimeout(heartbeatTimeout)
	if nil != err && zmq.ErrorNotImplemented42 != err {
		goto failure
	}
	err = socket.SetHeartbeatTtl(heartbeatTTL)
	if nil != err && zmq.ErrorNotImplemented42 != err {
		goto failure
	}

	// set IPv6 state before connect
	err = socket.SetIpv6(client.v6)
	if nil != err {
		goto failure
	}

	err = socket.Connect(client.address)
	if nil != err {
		goto failure
	}

	client.socket = socket
	return nil

failure:
	socket.Close()
	return err
}

// destroy the socket, leave the other connection info so can
// reconnect to the same endpoint again
func (client *Client) closeSocket() error {

	if nil == client.socket {
		return nil
	}

	if "" != client.address {
		client.socket.Disconnect(client.address)
	}

	err := client.socket.Close()
	client.socket = nil
	return err
}

// Connect - disconnect any old address and connect to a new one
func (client *Client) Connect(address string, serverPublicKey []byte) error {

	if len(serverPublicKey) != publicKeySize {
		return fault.InvalidPublicKey
	}

	err := client.closeSocket()
	if nil != err {
		return err
	}
	client.address = ""

	to, v6, err := endpoint(address)
	if nil != err {
		return err
	}

	copy(client.serverPublicKey, serverPublicKey)
	client.address = to
	client.v6 = v6

	return client.openSocket()
}

// IsConnected - check if connected to a server
func (client *Client) IsConnected() bool {
	return "" != client.address && nil != client.socket
}

// Close - disconnect and close
func (client *Client) Close() error {
	return client.closeSocket()
}

// Receive - read one multipart message
func (client *Client) Receive(flags zmq.Flag) ([][]byte, error) {
	if !client.IsConnected() {
		return nil, fault.NotConnected
	}
	return client.socket.RecvMessageBytes(flags)
}

// String - the connected endpoint
func (client Client) String() string {
	return client.address
}
