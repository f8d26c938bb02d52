// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package listeners - TLS JSON-RPC and HTTPS listeners
package listeners

import (
	"net"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/unlock-protocol/unlockd/fault"
)

const (
	minConnectionCount = 1
)

// Listener - a started or startable server
type Listener interface {
	Serve() error
	Close() error
}

// network type for each listen address
//
// "*:PORT" is rewritten in place to "[::]:PORT" to listen on tcp4 and tcp6
func parseListenAddress(addrs []string, log *logger.L) ([]string, error) {
	parsed := make([]string, len(addrs))
	for i, listen := range addrs {
		host, port, err := net.SplitHostPort(strings.TrimSpace(listen))
		if nil != err {
			log.Errorf("listen: %q  error: %s", listen, err)
			return nil, fault.InvalidIPAddress
		}

		switch {
		case "*" == host:
			addrs[i] = "[::]:" + port
			host = "::"
			parsed[i] = "tcp"
		case strings.Contains(host, ":"):
			parsed[i] = "tcp6"
		default:
			parsed[i] = "tcp4"
		}

		if ip := net.ParseIP(host); nil == ip {
			err := fault.InvalidIPAddress
			log.Errorf("listen: %q  error: %s", listen, err)
			return nil, err
		}
	}

	return parsed, nil
}
