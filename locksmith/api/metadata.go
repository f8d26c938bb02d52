// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/locksmith/models"
	"github.com/unlock-protocol/unlockd/util"
)

// keys of the generated metadata
const (
	attributesKey   = "attributes"
	nameKey         = "name"
	userMetadataKey = "userMetadata"
	expirationTrait = "Expiration"
)

func decodeMetadata(c *fiber.Ctx) (models.Metadata, error) {
	data := models.Metadata{}
	if err := decodeBody(c, &data); nil != err {
		return nil, err
	}
	if nil == data {
		return nil, fault.InvalidJSON
	}
	return data, nil
}

// PUT /api/key/:address - signed by the lock owner
func (s *Server) saveLockMetadata(c *fiber.Ctx) error {
	address, err := addressParam(c, "address")
	if nil != err {
		return s.fail(c, err)
	}
	data, err := decodeMetadata(c)
	if nil != err {
		return s.fail(c, err)
	}

	lock, err := s.store.Lock(c.UserContext(), address)
	if nil != err {
		return s.fail(c, err)
	}
	if err := authorise(c, lock.Owner); nil != err {
		return s.fail(c, err)
	}

	if err := s.store.SaveLockMetadata(c.UserContext(), address, data); nil != err {
		return s.fail(c, err)
	}
	return c.JSON(data)
}

// PUT /api/key/:address/user/:owner - signed by the key owner
func (s *Server) saveUserMetadata(c *fiber.Ctx) error {
	address, err := addressParam(c, "address")
	if nil != err {
		return s.fail(c, err)
	}
	owner, err := addressParam(c, "owner")
	if nil != err {
		return s.fail(c, err)
	}
	data, err := decodeMetadata(c)
	if nil != err {
		return s.fail(c, err)
	}

	if err := authorise(c, owner); nil != err {
		return s.fail(c, err)
	}

	if err := s.store.SaveUserMetadata(c.UserContext(), address, owner, data); nil != err {
		return s.fail(c, err)
	}
	return c.JSON(data)
}

// GET /api/key/:address/:keyId
//
// the lock defaults, extended with the owner's data and the key
// expiration when the key id names an owner (lock-owner)
func (s *Server) getKeyMetadata(c *fiber.Ctx) error {
	ctx := c.UserContext()

	address, err := addressParam(c, "address")
	if nil != err {
		return s.fail(c, err)
	}
	owner, err := keyOwner(address, c.Params("keyId"))
	if nil != err {
		return s.fail(c, err)
	}

	defaults, err := s.store.LockMetadata(ctx, address)
	if nil != err {
		return s.fail(c, err)
	}

	lock, err := s.store.Lock(ctx, address)
	if fault.LockNotFound == err {
		if 0 == len(defaults) {
			return s.fail(c, fault.KeyMetadataNotFound)
		}
	} else if nil != err {
		return s.fail(c, err)
	}

	result := models.Metadata{}
	for k, v := range defaults {
		result[k] = v
	}
	if _, ok := result[nameKey]; !ok && nil != lock {
		result[nameKey] = lock.Name
	}

	if "" == owner {
		return c.JSON(result)
	}

	userData, err := s.store.UserMetadata(ctx, address, owner)
	if nil != err {
		return s.fail(c, err)
	}
	if len(userData) > 0 {
		result[userMetadataKey] = userData
	}

	expiration, err := s.keys.KeyExpiration(ctx, address, owner)
	if nil != err {
		s.log.Warnf("lock: %s  owner: %s  expiration error: %s", address, owner, err)
		return c.JSON(result)
	}

	attributes, _ := result[attributesKey].([]interface{})
	result[attributesKey] = append(attributes, map[string]interface{}{
		"trait_type":   expirationTrait,
		"display_type": "date",
		"value":        expiration,
	})

	return c.JSON(result)
}

// the owner named by a lock-owner key id, empty for other key ids
func keyOwner(lock string, keyID string) (string, error) {
	parts := strings.SplitN(keyID, "-", 2)
	if 2 != len(parts) {
		return "", nil
	}
	if !util.SameAddress(parts[0], lock) {
		return "", fault.InvalidKeyID
	}
	return util.ChecksumAddress(parts[1])
}
