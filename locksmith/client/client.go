// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package client - access to the locksmith REST interface
package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/go-resty/resty/v2"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/locksmith/api"
	"github.com/unlock-protocol/unlockd/locksmith/models"
	"github.com/unlock-protocol/unlockd/record"
)

const defaultTimeout = 10 * time.Second

// Client - a locksmith connection
type Client struct {
	log    *logger.L
	client *resty.Client
}

// New - create a client for a locksmith base URL
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		log: logger.New("locksmith"),
		client: resty.New().
			SetBaseURL(strings.TrimSuffix(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

// Transactions - transactions sent by an account to any of the locks
func (c *Client) Transactions(ctx context.Context, sender string, recipients []string) ([]record.Transaction, error) {
	var reply api.TransactionsReply
	response, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("sender", sender).
		SetQueryParamsFromValues(url.Values{"recipient[]": recipients}).
		SetResult(&reply).
		Get("/transactions")
	if err := c.check(response, err, nil); nil != err {
		return nil, err
	}

	transactions := make([]record.Transaction, 0, len(reply.Transactions))
	for _, t := range reply.Transactions {
		transactions = append(transactions, record.Transaction{
			Hash:   strings.ToLower(t.Hash),
			From:   strings.ToLower(t.Sender),
			To:     strings.ToLower(t.Recipient),
			For:    strings.ToLower(t.For),
			Lock:   strings.ToLower(t.Recipient),
			Status: record.TransactionSubmitted,
		})
	}
	return transactions, nil
}

// SaveTransaction - record a submitted transaction, saving the same
// hash twice is not an error
func (c *Client) SaveTransaction(ctx context.Context, tx record.Transaction, network uint64) error {
	body := models.Transaction{
		Hash:      tx.Hash,
		Sender:    tx.From,
		Recipient: tx.To,
		For:       tx.For,
		ChainID:   network,
	}

	response, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/transaction")
	if nil == err && http.StatusConflict == response.StatusCode() {
		return nil
	}
	return c.check(response, err, nil)
}

// Lock - a registered lock
func (c *Client) Lock(ctx context.Context, address string) (*models.Lock, error) {
	lock := &models.Lock{}
	response, err := c.client.R().
		SetContext(ctx).
		SetPathParam("address", address).
		SetResult(lock).
		Get("/lock/{address}")
	if err := c.check(response, err, fault.LockNotFound); nil != err {
		return nil, err
	}
	return lock, nil
}

// Locks - the registered locks of an owner
func (c *Client) Locks(ctx context.Context, owner string) ([]*models.Lock, error) {
	var reply api.LocksReply
	response, err := c.client.R().
		SetContext(ctx).
		SetPathParam("owner", owner).
		SetResult(&reply).
		Get("/{owner}/locks")
	if err := c.check(response, err, nil); nil != err {
		return nil, err
	}
	return reply.Locks, nil
}

// Price - the key price of a lock in dollars
func (c *Client) Price(ctx context.Context, address string) (*models.Price, error) {
	price := &models.Price{}
	response, err := c.client.R().
		SetContext(ctx).
		SetPathParam("address", address).
		SetResult(price).
		Get("/price/{address}")
	if err := c.check(response, err, fault.LockNotFound); nil != err {
		return nil, err
	}
	return price, nil
}

// convert a failed request into a fault, notFound is returned for 404
func (c *Client) check(response *resty.Response, err error, notFound error) error {
	if nil != err {
		c.log.Errorf("request error: %s", err)
		return fault.LocksmithRequestFailed
	}
	if response.IsSuccess() {
		return nil
	}

	status := response.StatusCode()
	c.log.Warnf("%s %s  status: %d  body: %s", response.Request.Method, response.Request.URL, status, response.Body())

	switch {
	case http.StatusNotFound == status && nil != notFound:
		return notFound
	case http.StatusBadRequest == status:
		return fault.InvalidParameters
	case http.StatusUnauthorized == status:
		return fault.SignatureMismatch
	}
	return fault.LocksmithRequestFailed
}
