// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package session - registry of open paywall sessions
//
// each session owns a mailbox and a bounded queue of outbound
// messages that the host drains by polling, sessions that are not
// accessed for the idle timeout are closed by the cache cleaner
package session
