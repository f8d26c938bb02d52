// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package signature - personal_sign (EIP-191) signatures carried in an
// Authorization header
//
// the header is "Bearer " followed by the base64 encoding of the
// signature, either the 65 raw bytes or the 0x prefixed hex text a
// wallet returns
package signature

import (
	"crypto/ecdsa"
	"encoding/base64"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/util"
)

const (
	bearerPrefix  = "Bearer "
	signatureSize = 65
	recoveryBase  = 27
)

// Recover - the checksummed address that signed a message
func Recover(message []byte, header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", fault.MissingSignature
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(bearerPrefix):]))
	if nil != err {
		return "", fault.InvalidSignature
	}

	sig := decoded
	if signatureSize != len(sig) {
		sig, err = hexutil.Decode(string(decoded))
		if nil != err || signatureSize != len(sig) {
			return "", fault.InvalidSignature
		}
	}

	// do not modify the decoded buffer
	sig = append([]byte(nil), sig...)
	if sig[crypto.RecoveryIDOffset] >= recoveryBase {
		sig[crypto.RecoveryIDOffset] -= recoveryBase
	}

	publicKey, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if nil != err {
		return "", fault.InvalidSignature
	}
	return crypto.PubkeyToAddress(*publicKey).Hex(), nil
}

// Verify - check that a message was signed by the expected address
func Verify(message []byte, header string, expected string) error {
	signer, err := Recover(message, header)
	if nil != err {
		return err
	}
	if !util.SameAddress(signer, expected) {
		return fault.SignatureMismatch
	}
	return nil
}

// Sign - produce an Authorization header value for a message
func Sign(message []byte, key *ecdsa.PrivateKey) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash(message), key)
	if nil != err {
		return "", err
	}
	sig[crypto.RecoveryIDOffset] += recoveryBase

	return bearerPrefix + base64.StdEncoding.EncodeToString([]byte(hexutil.Encode(sig))), nil
}
