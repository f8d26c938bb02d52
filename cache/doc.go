// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cache maintains in-memory pools whose items expire when
// they are not accessed
//
//  ***** Data Structure *****
//
//  Pool          Key                 Value                 ExpiresAfter
//  |___ Sessions  session id (uuid)   *session.Session      idle timeout
//
//  ***** Purpose *****
//
//  Sessions:
//    open paywall sessions, each Get restarts the idle timer
//    an expired session is passed to the pool's evict function so
//    that its blockchain handler can be stopped
package cache
