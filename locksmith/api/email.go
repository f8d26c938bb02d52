// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/unlock-protocol/unlockd/fault"
)

// EmailArguments - body of an email relay request
type EmailArguments struct {
	Recipient string                 `json:"recipient"`
	Params    map[string]interface{} `json:"params"`
}

// EmailReply - result of an email relay request
type EmailReply struct {
	Sent bool `json:"sent"`
}

// POST /api/email/:template
func (s *Server) sendEmail(c *fiber.Ctx) error {
	var arguments EmailArguments
	if err := decodeBody(c, &arguments); nil != err {
		return s.fail(c, err)
	}

	if nil == s.mailer {
		return s.fail(c, fault.EmailNotDelivered)
	}

	if err := s.mailer.Send(c.UserContext(), c.Params("template"), arguments.Recipient, arguments.Params); nil != err {
		return s.fail(c, err)
	}
	return c.JSON(EmailReply{Sent: true})
}
