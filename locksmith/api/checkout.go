// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package api

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/locksmith/models"
	"github.com/unlock-protocol/unlockd/locksmith/signature"
	"github.com/unlock-protocol/unlockd/util"
)

// CheckoutConfigArguments - body of checkout config creation or update
type CheckoutConfigArguments struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Config json.RawMessage `json:"config"`
}

// CheckoutConfigsReply - the checkout configs of an owner
type CheckoutConfigsReply struct {
	Results []*models.CheckoutConfig `json:"results"`
}

func idParam(c *fiber.Ctx) (string, error) {
	id, err := uuid.Parse(c.Params("id"))
	if nil != err {
		return "", fault.CheckoutConfigNotFound
	}
	return id.String(), nil
}

// POST /checkout/configs - the signer becomes the owner
func (s *Server) saveCheckoutConfig(c *fiber.Ctx) error {
	var arguments CheckoutConfigArguments
	if err := decodeBody(c, &arguments); nil != err {
		return s.fail(c, err)
	}

	name := strings.TrimSpace(arguments.Name)
	if "" == name {
		return s.fail(c, fault.MissingParameters)
	}
	var object map[string]interface{}
	if nil != json.Unmarshal(arguments.Config, &object) || nil == object {
		return s.fail(c, fault.InvalidJSON)
	}
	if "" != arguments.ID {
		if _, err := uuid.Parse(arguments.ID); nil != err {
			return s.fail(c, fault.CheckoutConfigNotFound)
		}
	}

	owner, err := signer(c)
	if nil != err {
		return s.fail(c, err)
	}

	config := &models.CheckoutConfig{
		ID:     arguments.ID,
		Name:   name,
		Owner:  owner,
		Config: arguments.Config,
	}
	if err := s.store.SaveCheckoutConfig(c.UserContext(), config); nil != err {
		return s.fail(c, err)
	}
	return c.JSON(config)
}

// GET /checkout/configs/:id
func (s *Server) getCheckoutConfig(c *fiber.Ctx) error {
	id, err := idParam(c)
	if nil != err {
		return s.fail(c, err)
	}

	config, err := s.store.CheckoutConfig(c.UserContext(), id)
	if nil != err {
		return s.fail(c, err)
	}
	return c.JSON(config)
}

// GET /checkout/configs?owner=
func (s *Server) getCheckoutConfigs(c *fiber.Ctx) error {
	owner, err := util.ChecksumAddress(c.Query("owner"))
	if nil != err {
		return s.fail(c, err)
	}

	configs, err := s.store.CheckoutConfigsByOwner(c.UserContext(), owner)
	if nil != err {
		return s.fail(c, err)
	}
	return c.JSON(CheckoutConfigsReply{Results: configs})
}

// DELETE /checkout/configs/:id - the config id is the signed message
func (s *Server) deleteCheckoutConfig(c *fiber.Ctx) error {
	id, err := idParam(c)
	if nil != err {
		return s.fail(c, err)
	}

	owner, err := signature.Recover([]byte(id), c.Get(fiber.HeaderAuthorization))
	if nil != err {
		return s.fail(c, err)
	}

	if err := s.store.DeleteCheckoutConfig(c.UserContext(), id, owner); nil != err {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
