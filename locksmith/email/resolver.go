// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package email

import (
	"context"
	"net"
	"time"

	"github.com/miekg/dns"
)

const (
	resolvConf      = "/etc/resolv.conf"
	fallbackServer  = "8.8.8.8:53"
	resolverTimeout = 5 * time.Second
	dnsPort         = "53"
)

// Resolver - decides whether a domain can receive mail
type Resolver interface {
	HasMailExchanger(ctx context.Context, domain string) (bool, error)
}

type dnsResolver struct {
	client *dns.Client
	server string
}

// NewResolver - MX lookups against a name server
//
// an empty server uses the first system name server
func NewResolver(server string) Resolver {
	if "" == server {
		server = fallbackServer
		if conf, err := dns.ClientConfigFromFile(resolvConf); nil == err && len(conf.Servers) > 0 {
			server = net.JoinHostPort(conf.Servers[0], conf.Port)
		}
	} else if _, _, err := net.SplitHostPort(server); nil != err {
		server = net.JoinHostPort(server, dnsPort)
	}

	return &dnsResolver{
		client: &dns.Client{Timeout: resolverTimeout},
		server: server,
	}
}

// HasMailExchanger - true if the domain publishes at least one MX record
func (r *dnsResolver) HasMailExchanger(ctx context.Context, domain string) (bool, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeMX)

	in, _, err := r.client.ExchangeContext(ctx, m, r.server)
	if nil != err {
		return false, err
	}
	if dns.RcodeSuccess != in.Rcode {
		return false, nil
	}

	for _, answer := range in.Answer {
		if _, ok := answer.(*dns.MX); ok {
			return true, nil
		}
	}
	return false, nil
}
