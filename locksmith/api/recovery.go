// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package api

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/bitmark-inc/go-argon2"

	"github.com/unlock-protocol/unlockd/fault"
)

const (
	saltSize      = 16
	hashSeparator = "$"
)

func recoveryContext() *argon2.Context {
	return &argon2.Context{
		Iterations:  5,
		Memory:      1 << 16,
		Parallelism: 4,
		HashLen:     32,
		Mode:        argon2.ModeArgon2i,
		Version:     argon2.Version13,
	}
}

// recovery phrases are stored as hex salt and hash
func hashRecoveryPhrase(phrase string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); nil != err {
		return "", err
	}

	hash, err := argon2.Hash(recoveryContext(), []byte(phrase), salt)
	if nil != err {
		return "", err
	}
	return hex.EncodeToString(salt) + hashSeparator + hex.EncodeToString(hash), nil
}

func verifyRecoveryPhrase(phrase string, stored string) (bool, error) {
	parts := strings.Split(stored, hashSeparator)
	if 2 != len(parts) {
		return false, fault.WrongRecoveryPhrase
	}
	salt, err := hex.DecodeString(parts[0])
	if nil != err {
		return false, fault.WrongRecoveryPhrase
	}
	expected, err := hex.DecodeString(parts[1])
	if nil != err {
		return false, fault.WrongRecoveryPhrase
	}

	hash, err := argon2.Hash(recoveryContext(), []byte(phrase), salt)
	if nil != err {
		return false, err
	}
	return 1 == subtle.ConstantTimeCompare(hash, expected), nil
}
