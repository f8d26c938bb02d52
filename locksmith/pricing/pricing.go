// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pricing - key prices of a lock converted to US dollars
package pricing

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/valyala/fastjson"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/locksmith/models"
	"github.com/unlock-protocol/unlockd/record"
	"github.com/unlock-protocol/unlockd/util"
)

const (
	nativeCurrency        = "ETH"
	defaultSpotPriceURL   = "https://api.coinbase.com/v2/prices"
	defaultCacheDuration  = 5 * time.Minute
	defaultRequestTimeout = 10 * time.Second
	centsPerDollar        = 100
)

// LockReader - reads the terms of a lock from the chain
type LockReader interface {
	Lock(ctx context.Context, address string) (record.Lock, error)
}

// Configuration - spot price source
type Configuration struct {
	URL           string        `gluamapper:"url" json:"url"`
	CacheDuration time.Duration `gluamapper:"cache_duration" json:"cache_duration"`
}

// Pricer - converts key prices using cached spot prices
type Pricer struct {
	log    *logger.L
	reader LockReader
	client *resty.Client
	prices *cache.Cache
}

// New - create a pricer
func New(reader LockReader, configuration Configuration) *Pricer {
	url := configuration.URL
	if "" == url {
		url = defaultSpotPriceURL
	}
	duration := configuration.CacheDuration
	if duration <= 0 {
		duration = defaultCacheDuration
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(url, "/")).
		SetTimeout(defaultRequestTimeout).
		SetHeader("Accept", "application/json")

	return &Pricer{
		log:    logger.New("pricing"),
		reader: reader,
		client: client,
		prices: cache.New(duration, 2*duration),
	}
}

// Price - the key price of a lock with its value in US cents
//
// only native currency locks have a dollar value, token locks report
// the token contract as their currency and zero cents
func (p *Pricer) Price(ctx context.Context, address string) (*models.Price, error) {
	checksummed, err := util.ChecksumAddress(address)
	if nil != err {
		return nil, err
	}

	lock, err := p.reader.Lock(ctx, checksummed)
	if nil != err {
		p.log.Warnf("lock: %s  error: %s", checksummed, err)
		if fault.IsErrNotFound(err) {
			return nil, fault.LockNotFound
		}
		return nil, fault.PriceUnavailable
	}

	price := &models.Price{
		LockAddress: checksummed,
		KeyPrice:    lock.KeyPrice,
		Currency:    nativeCurrency,
	}

	if "" != lock.CurrencyContractAddress {
		price.Currency, _ = util.ChecksumAddress(lock.CurrencyContractAddress)
		return price, nil
	}

	keyPrice, err := decimal.NewFromString(lock.KeyPrice)
	if nil != err {
		p.log.Warnf("lock: %s  malformed key price: %q", checksummed, lock.KeyPrice)
		return nil, fault.PriceUnavailable
	}

	spot, err := p.SpotPrice(ctx, nativeCurrency)
	if nil != err {
		return nil, err
	}

	price.USDCents = keyPrice.Mul(spot).Mul(decimal.NewFromInt(centsPerDollar)).Round(0).IntPart()
	return price, nil
}

// SpotPrice - the US dollar price of one unit of a currency
func (p *Pricer) SpotPrice(ctx context.Context, currency string) (decimal.Decimal, error) {
	currency = strings.ToUpper(currency)
	if cached, found := p.prices.Get(currency); found {
		return cached.(decimal.Decimal), nil
	}

	response, err := p.client.R().
		SetContext(ctx).
		SetPathParam("pair", currency+"-USD").
		Get("/{pair}/buy")
	if nil != err {
		p.log.Errorf("spot price: %s  error: %s", currency, err)
		return decimal.Zero, fault.PriceUnavailable
	}
	if http.StatusOK != response.StatusCode() {
		p.log.Errorf("spot price: %s  status: %d", currency, response.StatusCode())
		return decimal.Zero, fault.PriceUnavailable
	}

	data, err := fastjson.ParseBytes(response.Body())
	if nil != err {
		p.log.Errorf("spot price: %s  parse error: %s", currency, err)
		return decimal.Zero, fault.PriceUnavailable
	}

	amount, err := decimal.NewFromString(string(data.GetStringBytes("data", "amount")))
	if nil != err {
		p.log.Errorf("spot price: %s  malformed amount: %s", currency, data.Get("data"))
		return decimal.Zero, fault.PriceUnavailable
	}

	p.prices.SetDefault(currency, amount)
	p.log.Debugf("spot price: %s  USD: %s", currency, amount)

	return amount, nil
}
