// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/locksmith/models"
	"github.com/unlock-protocol/unlockd/util"
)

// EventArguments - body of event creation or update
type EventArguments struct {
	LockAddress string    `json:"lockAddress"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	Logo        string    `json:"logo"`
}

// POST /events - signed by the lock owner
func (s *Server) saveEvent(c *fiber.Ctx) error {
	var arguments EventArguments
	if err := decodeBody(c, &arguments); nil != err {
		return s.fail(c, err)
	}

	address, err := util.ChecksumAddress(arguments.LockAddress)
	if nil != err {
		return s.fail(c, err)
	}
	name := strings.TrimSpace(arguments.Name)
	if "" == name || arguments.Date.IsZero() {
		return s.fail(c, fault.MissingParameters)
	}

	lock, err := s.store.Lock(c.UserContext(), address)
	if nil != err {
		return s.fail(c, err)
	}
	if err := authorise(c, lock.Owner); nil != err {
		return s.fail(c, err)
	}

	event := &models.Event{
		LockAddress: address,
		Name:        name,
		Description: arguments.Description,
		Location:    arguments.Location,
		Date:        arguments.Date.UTC(),
		Owner:       lock.Owner,
		Logo:        arguments.Logo,
	}
	if err := s.store.SaveEvent(c.UserContext(), event); nil != err {
		return s.fail(c, err)
	}
	return c.JSON(event)
}

// GET /events/:lockAddress
func (s *Server) getEvent(c *fiber.Ctx) error {
	address, err := addressParam(c, "lockAddress")
	if nil != err {
		return s.fail(c, err)
	}

	event, err := s.store.Event(c.UserContext(), address)
	if nil != err {
		return s.fail(c, err)
	}
	return c.JSON(event)
}
