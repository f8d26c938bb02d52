// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package handler - HTTPS bridge to the JSON-RPC server
package handler

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"
)

// Handler - the HTTPS endpoints
type Handler interface {
	Root(http.ResponseWriter, *http.Request)
	RPC(http.ResponseWriter, *http.Request)
	Details(http.ResponseWriter, *http.Request)
	SetAllow(map[string][]*net.IPNet)
}

// SessionCounter - source of the open session count
type SessionCounter interface {
	Count() int
}

// type to allow rpc system to interface to http request
type internalConnection struct {
	in  io.Reader
	out io.Writer
}

func (c *internalConnection) Read(p []byte) (n int, err error) {
	return c.in.Read(p)
}
func (c *internalConnection) Write(d []byte) (n int, err error) {
	return c.out.Write(d)
}
func (c *internalConnection) Close() error {
	return nil
}

type handler struct {
	sync.RWMutex

	log                *logger.L
	server             *rpc.Server
	start              time.Time
	version            string
	sessions           SessionCounter
	maximumConnections uint64
	count              atomic.Uint64
	allow              map[string][]*net.IPNet
}

// New - create the HTTPS handler
func New(log *logger.L, server *rpc.Server, start time.Time, version string, maximumConnections uint64, sessions SessionCounter) Handler {
	return &handler{
		log:                log,
		server:             server,
		start:              start,
		version:            version,
		sessions:           sessions,
		maximumConnections: maximumConnections,
		allow:              make(map[string][]*net.IPNet),
	}
}

// SetAllow - set the address ranges allowed for each restricted path
func (h *handler) SetAllow(allow map[string][]*net.IPNet) {
	h.Lock()
	defer h.Unlock()
	h.allow = allow
}

// Root - this matches anything not matched and returns error
func (h *handler) Root(w http.ResponseWriter, r *http.Request) {
	sendNotFound(w)
}

// RPC - performs a call to any normal RPC
func (h *handler) RPC(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	defer h.count.Add(^uint64(0))
	if h.count.Add(1) > h.maximumConnections {
		sendTooManyRequests(w)
		return
	}

	serverCodec := jsonrpc.NewServerCodec(&internalConnection{in: r.Body, out: w})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	err := h.server.ServeRequest(serverCodec)
	if nil != err {
		h.log.Warnf("rpc from: %q  error: %s", r.RemoteAddr, err)
		sendInternalServerError(w)
		return
	}
}

// DetailsReply - the Details response
type DetailsReply struct {
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
	Connections uint64 `json:"connections"`
	Sessions    int    `json:"sessions"`
}

// Details - GET node details, restricted to the "details" allow list
func (h *handler) Details(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if !h.allowed("details", r.RemoteAddr) {
		h.log.Warnf("Deny access: %q", r.RemoteAddr)
		sendForbidden(w)
		return
	}

	reply := DetailsReply{
		Version:     h.version,
		Uptime:      time.Since(h.start).String(),
		Connections: h.count.Load(),
		Sessions:    h.sessions.Count(),
	}

	sendReply(w, reply)
}

// check a remote "host:port" against a path's allow list
func (h *handler) allowed(path string, remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if nil != err {
		return false
	}
	ip := net.ParseIP(host)
	if nil == ip {
		return false
	}

	h.RLock()
	defer h.RUnlock()
	for _, network := range h.allow[path] {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// send an JSON encoded reply
func sendReply(w http.ResponseWriter, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		sendInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(text)
}

// selected errors as required above
func sendNotFound(w http.ResponseWriter) {
	sendError(w, "not found", http.StatusNotFound)
}
func sendMethodNotAllowed(w http.ResponseWriter) {
	sendError(w, "method not allowed", http.StatusMethodNotAllowed)
}
func sendForbidden(w http.ResponseWriter) {
	sendError(w, "forbidden", http.StatusForbidden)
}
func sendTooManyRequests(w http.ResponseWriter) {
	sendError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}
func sendInternalServerError(w http.ResponseWriter) {
	sendError(w, "internal server error", http.StatusInternalServerError)
}

// to compose JSON error messages
type eType struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// output an error with a JSON body
func sendError(w http.ResponseWriter, message string, code int) {
	text, err := json.Marshal(eType{
		Code:  code,
		Error: message,
	})
	if nil != err {
		// manually composed error just incase JSON fails
		http.Error(w, `{"code":500,"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write(text)
}
