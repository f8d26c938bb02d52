// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mailbox

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"
)

const cacheKeyPrefix = "paywall/"

// CacheKey - the cache key of a lock set
//
// independent of the order and case of the addresses
func CacheKey(locks []string) string {
	normalised := make([]string, len(locks))
	for i, l := range locks {
		normalised[i] = strings.ToLower(strings.TrimSpace(l))
	}
	sort.Strings(normalised)

	// a string slice always marshals
	serialised, _ := json.Marshal(normalised)
	digest := sha3.Sum256(serialised)
	return cacheKeyPrefix + base58.Encode(digest[:])
}
