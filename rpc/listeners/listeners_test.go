// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners_test

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/fixtures"
	"github.com/unlock-protocol/unlockd/rpc/certificate"
	"github.com/unlock-protocol/unlockd/rpc/handler"
	"github.com/unlock-protocol/unlockd/rpc/listeners"
	"github.com/unlock-protocol/unlockd/util"
)

type Add struct{}
type AddArg struct {
	A, B int
}

func (a Add) Add(arg *AddArg, reply *int) error {
	*reply = arg.A + arg.B
	return nil
}

type sessionCount int

func (c sessionCount) Count() int {
	return int(c)
}

func tlsSetup(t *testing.T) (*tls.Config, util.FingerprintBytes) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "test.crt")
	keyFile := filepath.Join(dir, "test.key")
	require.NoError(t, certificate.Generate("test", certFile, keyFile, false, []string{"127.0.0.1"}), "generate certificate")

	tlsConfig, fin, err := certificate.Load(logger.New(fixtures.LogCategory), "test", certFile, keyFile)
	require.NoError(t, err, "load certificate")
	return tlsConfig, fin
}

func randomListen() string {
	return fmt.Sprintf("127.0.0.1:%d", rand.Intn(30000)+30000)
}

func TestRpcListenerServe(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	listen := randomListen()
	con := listeners.RPCConfiguration{
		MaximumConnections: 5,
		Listen:             []string{listen},
	}

	var count atomic.Uint64

	s := rpc.NewServer()
	require.NoError(t, s.Register(Add{}), "register")

	tlsConfig, fin := tlsSetup(t)

	l, err := listeners.NewRPC(&con, logger.New(fixtures.LogCategory), &count, s, tlsConfig, fin)
	require.NoError(t, err, "wrong NewRPC")

	err = l.Serve()
	require.NoError(t, err, "wrong Serve")
	defer l.Close()

	c, err := tls.Dial("tcp", listen, &tls.Config{InsecureSkipVerify: true})
	require.NoError(t, err, "dial")

	arg := AddArg{
		A: 2,
		B: 5,
	}
	var reply int

	client := jsonrpc.NewClient(c)
	defer client.Close()
	err = client.Call("Add.Add", &arg, &reply)
	assert.Nil(t, err, "wrong client Call")
	assert.Equal(t, arg.A+arg.B, reply, "wrong result")
	assert.Equal(t, uint64(1), count.Load(), "connection not counted")
}

func TestRpcListenerInvalidConfiguration(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	var count atomic.Uint64
	log := logger.New(fixtures.LogCategory)

	testData := []struct {
		configuration listeners.RPCConfiguration
		expected      error
	}{
		{listeners.RPCConfiguration{MaximumConnections: 0, Listen: []string{"127.0.0.1:2130"}}, fault.MissingParameters},
		{listeners.RPCConfiguration{MaximumConnections: 5}, fault.MissingParameters},
		{listeners.RPCConfiguration{MaximumConnections: 5, Listen: []string{"localhost:2130"}}, fault.InvalidIPAddress},
		{listeners.RPCConfiguration{MaximumConnections: 5, Listen: []string{"127.0.0.1"}}, fault.InvalidIPAddress},
	}

	for i, d := range testData {
		_, err := listeners.NewRPC(&d.configuration, log, &count, rpc.NewServer(), &tls.Config{}, util.FingerprintBytes{})
		assert.Equal(t, d.expected, err, "%d: wrong error", i)
	}
}

func TestRpcListenerWildcard(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	var count atomic.Uint64
	con := listeners.RPCConfiguration{
		MaximumConnections: 5,
		Listen:             []string{"*:2130", "[::1]:2131"},
	}
	_, err := listeners.NewRPC(&con, logger.New(fixtures.LogCategory), &count, rpc.NewServer(), &tls.Config{}, util.FingerprintBytes{})
	assert.Nil(t, err, "wildcard rejected")
	assert.Equal(t, []string{"*:2130", "[::1]:2131"}, con.Listen, "configuration modified")
}

func TestHTTPSListener(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	listen := randomListen()
	con := listeners.HTTPSConfiguration{
		MaximumConnections: 5,
		Listen:             []string{listen},
		Allow: map[string][]string{
			"details": {"127.0.0.0/8"},
		},
	}

	s := rpc.NewServer()
	require.NoError(t, s.Register(Add{}), "register")

	log := logger.New(fixtures.LogCategory)
	h := handler.New(log, s, time.Now(), "9.9", 5, sessionCount(2))

	tlsConfig, _ := tlsSetup(t)

	l, err := listeners.NewHTTPS(&con, log, tlsConfig, h)
	require.NoError(t, err, "NewHTTPS")
	require.NoError(t, l.Serve(), "serve")
	defer l.Close()

	client := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
		Timeout: 5 * time.Second,
	}

	body := `{"id":1,"method":"Add.Add","params":[{"A":3,"B":4}]}`
	resp, err := client.Post("https://"+listen+"/unlockd/rpc", "application/json", strings.NewReader(body))
	require.NoError(t, err, "post")
	defer resp.Body.Close()

	var reply struct {
		Result int `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply), "decode")
	assert.Equal(t, 7, reply.Result, "wrong result")

	resp, err = client.Get("https://" + listen + "/unlockd/details")
	require.NoError(t, err, "get details")
	defer resp.Body.Close()

	var details handler.DetailsReply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&details), "decode details")
	assert.Equal(t, "9.9", details.Version, "wrong version")
	assert.Equal(t, 2, details.Sessions, "wrong sessions")
}

func TestHTTPSListenerDisabled(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	l, err := listeners.NewHTTPS(&listeners.HTTPSConfiguration{}, logger.New(fixtures.LogCategory), nil, nil)
	assert.Nil(t, err, "disabled listener error")
	assert.Nil(t, l, "disabled listener created")
}

func TestHTTPSListenerBadAllow(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	con := listeners.HTTPSConfiguration{
		MaximumConnections: 5,
		Listen:             []string{"127.0.0.1:2132"},
		Allow: map[string][]string{
			"details": {"not-a-network"},
		},
	}
	log := logger.New(fixtures.LogCategory)
	h := handler.New(log, rpc.NewServer(), time.Now(), "1", 5, sessionCount(0))

	_, err := listeners.NewHTTPS(&con, log, &tls.Config{}, h)
	_, ok := err.(*net.ParseError)
	assert.True(t, ok, "bad network accepted: %v", err)
}
