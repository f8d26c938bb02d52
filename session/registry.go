// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package session

import (
	"context"

	"github.com/unlock-protocol/unlockd/mailbox"
)

// Registry - the session operations as a value for RPC servers
type Registry struct{}

// Open - see package function
func (Registry) Open(ctx context.Context, origin string, useDefault bool) (string, error) {
	return Open(ctx, origin, useDefault)
}

// Post - see package function
func (Registry) Post(ctx context.Context, id string, message mailbox.Message) error {
	return Post(ctx, id, message)
}

// Poll - see package function
func (Registry) Poll(id string, max int) ([]mailbox.Message, uint64, error) {
	return Poll(id, max)
}

// Close - see package function
func (Registry) Close(id string) error {
	return Close(id)
}

// Count - see package function
func (Registry) Count() int {
	return Count()
}
