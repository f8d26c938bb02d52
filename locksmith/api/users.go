// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package api

import (
	"encoding/json"
	"net/mail"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/locksmith/models"
	"github.com/unlock-protocol/unlockd/util"
)

// UserArguments - body of user creation
type UserArguments struct {
	EmailAddress                string          `json:"emailAddress"`
	PublicKey                   string          `json:"publicKey"`
	PasswordEncryptedPrivateKey json.RawMessage `json:"passwordEncryptedPrivateKey"`
	RecoveryPhrase              string          `json:"recoveryPhrase"`
}

// PrivateKeyArguments - body of a private key update
type PrivateKeyArguments struct {
	PasswordEncryptedPrivateKey json.RawMessage `json:"passwordEncryptedPrivateKey"`
}

// PrivateKeyReply - the stored encrypted private key
type PrivateKeyReply struct {
	PasswordEncryptedPrivateKey json.RawMessage `json:"passwordEncryptedPrivateKey"`
}

// RecoveryPhraseArguments - body of a recovery phrase check
type RecoveryPhraseArguments struct {
	RecoveryPhrase string `json:"recoveryPhrase"`
}

// RecoveryPhraseReply - result of a recovery phrase check
type RecoveryPhraseReply struct {
	Verified bool `json:"verified"`
}

// email addresses are compared in lower case
func validEmail(address string) (string, error) {
	parsed, err := mail.ParseAddress(strings.TrimSpace(address))
	if nil != err || parsed.Address != strings.TrimSpace(address) {
		return "", fault.InvalidEmail
	}
	return strings.ToLower(parsed.Address), nil
}

func emailParam(c *fiber.Ctx) (string, error) {
	raw, err := url.PathUnescape(c.Params("email"))
	if nil != err {
		return "", fault.InvalidEmail
	}
	return validEmail(raw)
}

// an encrypted key must be a JSON object
func validEncryptedKey(key json.RawMessage) error {
	var object map[string]interface{}
	if 0 == len(key) || nil != json.Unmarshal(key, &object) || nil == object {
		return fault.InvalidPrivateKey
	}
	return nil
}

// POST /users
func (s *Server) createUser(c *fiber.Ctx) error {
	var arguments UserArguments
	if err := decodeBody(c, &arguments); nil != err {
		return s.fail(c, err)
	}

	emailAddress, err := validEmail(arguments.EmailAddress)
	if nil != err {
		return s.fail(c, err)
	}
	publicKey, err := util.ChecksumAddress(arguments.PublicKey)
	if nil != err {
		return s.fail(c, err)
	}
	if err := validEncryptedKey(arguments.PasswordEncryptedPrivateKey); nil != err {
		return s.fail(c, err)
	}
	if "" == strings.TrimSpace(arguments.RecoveryPhrase) {
		return s.fail(c, fault.MissingParameters)
	}

	hash, err := hashRecoveryPhrase(arguments.RecoveryPhrase)
	if nil != err {
		return s.fail(c, err)
	}

	user := &models.User{
		EmailAddress:                emailAddress,
		PublicKey:                   publicKey,
		PasswordEncryptedPrivateKey: arguments.PasswordEncryptedPrivateKey,
		RecoveryPhraseHash:          hash,
	}
	if err := s.store.CreateUser(c.UserContext(), user); nil != err {
		return s.fail(c, err)
	}

	s.log.Infof("created user: %s", publicKey)
	return c.JSON(user)
}

// GET /users/:email/privatekey
func (s *Server) getPrivateKey(c *fiber.Ctx) error {
	emailAddress, err := emailParam(c)
	if nil != err {
		return s.fail(c, err)
	}

	user, err := s.store.User(c.UserContext(), emailAddress)
	if nil != err {
		return s.fail(c, err)
	}
	return c.JSON(PrivateKeyReply{PasswordEncryptedPrivateKey: user.PasswordEncryptedPrivateKey})
}

// POST /users/:email/recoveryphrase
func (s *Server) verifyRecoveryPhrase(c *fiber.Ctx) error {
	emailAddress, err := emailParam(c)
	if nil != err {
		return s.fail(c, err)
	}

	var arguments RecoveryPhraseArguments
	if err := decodeBody(c, &arguments); nil != err {
		return s.fail(c, err)
	}

	user, err := s.store.User(c.UserContext(), emailAddress)
	if nil != err {
		return s.fail(c, err)
	}

	ok, err := verifyRecoveryPhrase(arguments.RecoveryPhrase, user.RecoveryPhraseHash)
	if nil != err {
		return s.fail(c, err)
	}
	if !ok {
		return s.fail(c, fault.WrongRecoveryPhrase)
	}
	return c.JSON(RecoveryPhraseReply{Verified: true})
}

// PUT /users/:email/passwordEncryptedPrivateKey - signed by the user
func (s *Server) updatePrivateKey(c *fiber.Ctx) error {
	emailAddress, err := emailParam(c)
	if nil != err {
		return s.fail(c, err)
	}

	var arguments PrivateKeyArguments
	if err := decodeBody(c, &arguments); nil != err {
		return s.fail(c, err)
	}
	if err := validEncryptedKey(arguments.PasswordEncryptedPrivateKey); nil != err {
		return s.fail(c, err)
	}

	user, err := s.store.User(c.UserContext(), emailAddress)
	if nil != err {
		return s.fail(c, err)
	}
	if err := authorise(c, user.PublicKey); nil != err {
		return s.fail(c, err)
	}

	if err := s.store.UpdatePrivateKey(c.UserContext(), emailAddress, arguments.PasswordEncryptedPrivateKey); nil != err {
		return s.fail(c, err)
	}
	return c.JSON(PrivateKeyReply{PasswordEncryptedPrivateKey: arguments.PasswordEncryptedPrivateKey})
}
