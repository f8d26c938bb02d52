// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"golang.org/x/crypto/sha3"
)

// FingerprintBytes - type for a certificate fingerprint
type FingerprintBytes [32]byte

// Fingerprint - SHA3-256 of a certificate
//
// can be checked against:
//   openssl x509 -noout -in unlockd-local-rpc.crt -fingerprint -sha3-256
func Fingerprint(certificate []byte) FingerprintBytes {
	return sha3.Sum256(certificate)
}
