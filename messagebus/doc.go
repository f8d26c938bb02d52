// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - a queuing system for internally generated
// messages
//
// a queue has a single reader, a broadcast queue delivers every
// message to each listener registered at the time it was sent
package messagebus
