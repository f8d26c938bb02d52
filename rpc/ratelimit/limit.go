// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ratelimit - delay or reject RPC calls that exceed a limiter
package ratelimit

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/unlock-protocol/unlockd/fault"
)

// the longest a call is delayed before it is rejected
const maximumDelay = 5 * time.Second

// Limit - limiting for a single request
func Limit(limiter *rate.Limiter) error {
	return reserve(limiter, 1)
}

// LimitN - limiting for a request of count items, a count outside
// 1..maximumCount is limited as a single request and rejected
func LimitN(limiter *rate.Limiter, count int, maximumCount int) error {
	if count <= 0 || count > maximumCount {
		if err := reserve(limiter, 1); nil != err {
			return err
		}
		return fault.InvalidCount
	}
	return reserve(limiter, count)
}

func reserve(limiter *rate.Limiter, n int) error {
	r := limiter.ReserveN(time.Now(), n)
	if !r.OK() {
		return fault.RateLimiting
	}
	delay := r.Delay()
	if delay > maximumDelay {
		r.Cancel()
		return fault.RateLimiting
	}
	time.Sleep(delay)
	return nil
}
