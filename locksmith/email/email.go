// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package email - relay templated messages to the mail service
package email

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"

	"github.com/unlock-protocol/unlockd/fault"
)

const (
	defaultMaxElapsed      = 30 * time.Second
	defaultInitialInterval = 500 * time.Millisecond
	requestTimeout         = 10 * time.Second
)

// Configuration - the mail service and the templates it accepts
type Configuration struct {
	URL             string        `gluamapper:"url" json:"url"`
	Templates       []string      `gluamapper:"templates" json:"templates"`
	Nameserver      string        `gluamapper:"nameserver" json:"nameserver"`
	InitialInterval time.Duration `gluamapper:"initial_interval" json:"initial_interval"`
	MaxElapsed      time.Duration `gluamapper:"max_elapsed" json:"max_elapsed"`
}

// Relay - validates and forwards email requests
type Relay struct {
	log             *logger.L
	client          *resty.Client
	templates       map[string]struct{}
	resolver        Resolver
	initialInterval time.Duration
	maxElapsed      time.Duration
}

// the body forwarded to the mail service
type request struct {
	Template  string                 `json:"template"`
	Recipient string                 `json:"recipient"`
	Params    map[string]interface{} `json:"params,omitempty"`
}

// New - create a relay, a nil resolver queries the configured name server
func New(configuration Configuration, resolver Resolver) *Relay {
	if nil == resolver {
		resolver = NewResolver(configuration.Nameserver)
	}

	templates := make(map[string]struct{})
	for _, t := range configuration.Templates {
		templates[strings.ToLower(t)] = struct{}{}
	}

	r := &Relay{
		log:             logger.New("email"),
		client:          resty.New().SetBaseURL(configuration.URL).SetTimeout(requestTimeout),
		templates:       templates,
		resolver:        resolver,
		initialInterval: configuration.InitialInterval,
		maxElapsed:      configuration.MaxElapsed,
	}
	if r.initialInterval <= 0 {
		r.initialInterval = defaultInitialInterval
	}
	if r.maxElapsed <= 0 {
		r.maxElapsed = defaultMaxElapsed
	}
	return r
}

// Send - deliver one templated message
func (r *Relay) Send(ctx context.Context, template string, recipient string, params map[string]interface{}) error {
	template = strings.ToLower(template)
	if _, ok := r.templates[template]; !ok {
		return fault.InvalidTemplate
	}

	address, err := mail.ParseAddress(recipient)
	if nil != err {
		return fault.InvalidEmail
	}
	at := strings.LastIndex(address.Address, "@")
	if at < 0 {
		return fault.InvalidEmail
	}
	domain := address.Address[at+1:]

	ok, err := r.resolver.HasMailExchanger(ctx, domain)
	if nil != err {
		r.log.Warnf("MX lookup: %s  error: %s", domain, err)
		return fault.NoMailExchanger
	}
	if !ok {
		return fault.NoMailExchanger
	}

	body := request{
		Template:  template,
		Recipient: address.Address,
		Params:    params,
	}

	policy := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(r.initialInterval),
		backoff.WithMaxElapsedTime(r.maxElapsed),
	)

	attempt := 0
	err = backoff.Retry(func() error {
		attempt += 1
		response, err := r.client.R().
			SetContext(ctx).
			SetBody(body).
			Post("")
		if nil != err {
			r.log.Warnf("attempt: %d  send error: %s", attempt, err)
			return err
		}

		status := response.StatusCode()
		switch {
		case status >= http.StatusInternalServerError:
			r.log.Warnf("attempt: %d  mail service status: %d", attempt, status)
			return fault.EmailNotDelivered
		case status >= http.StatusBadRequest:
			r.log.Errorf("mail service rejected: %s  status: %d", template, status)
			return backoff.Permanent(fault.EmailNotDelivered)
		}
		return nil
	}, backoff.WithContext(policy, ctx))
	if nil != err {
		return fault.EmailNotDelivered
	}

	r.log.Infof("sent: %s  to domain: %s", template, domain)
	return nil
}
