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

const maximumNameLength = 255

// LockArguments - body of lock creation and rename
type LockArguments struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Owner   string `json:"owner"`
}

// LocksReply - the locks of an owner
type LocksReply struct {
	Locks []*models.Lock `json:"locks"`
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if "" == name || len(name) > maximumNameLength {
		return "", fault.InvalidLockName
	}
	return name, nil
}

// POST /lock - signed by the owner
func (s *Server) createLock(c *fiber.Ctx) error {
	var arguments LockArguments
	if err := decodeBody(c, &arguments); nil != err {
		return s.fail(c, err)
	}

	address, err := util.ChecksumAddress(arguments.Address)
	if nil != err {
		return s.fail(c, err)
	}
	owner, err := util.ChecksumAddress(arguments.Owner)
	if nil != err {
		return s.fail(c, err)
	}
	name, err := validName(arguments.Name)
	if nil != err {
		return s.fail(c, err)
	}

	if err := authorise(c, owner); nil != err {
		return s.fail(c, err)
	}

	lock := &models.Lock{
		Address: address,
		Name:    name,
		Owner:   owner,
	}
	if err := s.store.CreateLock(c.UserContext(), lock); nil != err {
		return s.fail(c, err)
	}

	s.log.Infof("created lock: %s  owner: %s", address, owner)
	return c.JSON(lock)
}

// GET /lock/:address
func (s *Server) getLock(c *fiber.Ctx) error {
	address, err := addressParam(c, "address")
	if nil != err {
		return s.fail(c, err)
	}

	lock, err := s.store.Lock(c.UserContext(), address)
	if nil != err {
		return s.fail(c, err)
	}
	return c.JSON(lock)
}

// PUT /lock/:address - signed by the stored owner
func (s *Server) renameLock(c *fiber.Ctx) error {
	address, err := addressParam(c, "address")
	if nil != err {
		return s.fail(c, err)
	}

	var arguments LockArguments
	if err := decodeBody(c, &arguments); nil != err {
		return s.fail(c, err)
	}
	name, err := validName(arguments.Name)
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

	if err := s.store.RenameLock(c.UserContext(), address, name); nil != err {
		return s.fail(c, err)
	}
	lock.Name = name

	return c.JSON(lock)
}

// GET /:owner/locks
func (s *Server) getLocksByOwner(c *fiber.Ctx) error {
	owner, err := addressParam(c, "owner")
	if nil != err {
		return s.fail(c, err)
	}

	locks, err := s.store.LocksByOwner(c.UserContext(), owner)
	if nil != err {
		return s.fail(c, err)
	}
	return c.JSON(LocksReply{Locks: locks})
}
