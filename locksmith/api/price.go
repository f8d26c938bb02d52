// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package api

import (
	"github.com/gofiber/fiber/v2"
)

// GET /price/:lockAddress
func (s *Server) getPrice(c *fiber.Ctx) error {
	address, err := addressParam(c, "lockAddress")
	if nil != err {
		return s.fail(c, err)
	}

	price, err := s.pricer.Price(c.UserContext(), address)
	if nil != err {
		return s.fail(c, err)
	}
	return c.JSON(price)
}
