// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package api

import (
	"regexp"

	"github.com/gofiber/fiber/v2"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/locksmith/models"
	"github.com/unlock-protocol/unlockd/util"
)

var transactionHash = regexp.MustCompile("^0x[0-9a-fA-F]{64}$")

// TransactionsReply - the transactions of a sender
type TransactionsReply struct {
	Transactions []*models.Transaction `json:"transactions"`
}

// POST /transaction
func (s *Server) saveTransaction(c *fiber.Ctx) error {
	var transaction models.Transaction
	if err := decodeBody(c, &transaction); nil != err {
		return s.fail(c, err)
	}

	if !transactionHash.MatchString(transaction.Hash) {
		return s.fail(c, fault.InvalidTransactionHash)
	}

	var err error
	transaction.Sender, err = util.ChecksumAddress(transaction.Sender)
	if nil != err {
		return s.fail(c, err)
	}
	transaction.Recipient, err = util.ChecksumAddress(transaction.Recipient)
	if nil != err {
		return s.fail(c, err)
	}
	if "" != transaction.For {
		transaction.For, err = util.ChecksumAddress(transaction.For)
		if nil != err {
			return s.fail(c, err)
		}
	}

	if err := s.store.SaveTransaction(c.UserContext(), &transaction); nil != err {
		return s.fail(c, err)
	}
	return c.JSON(transaction)
}

// GET /transactions?sender=&recipient[]=
func (s *Server) getTransactions(c *fiber.Ctx) error {
	sender, err := util.ChecksumAddress(c.Query("sender"))
	if nil != err {
		return s.fail(c, err)
	}

	args := c.Context().QueryArgs()
	values := append(args.PeekMulti("recipient[]"), args.PeekMulti("recipient")...)
	recipients := make([]string, 0, len(values))
	for _, v := range values {
		recipient, err := util.ChecksumAddress(string(v))
		if nil != err {
			return s.fail(c, err)
		}
		recipients = append(recipients, recipient)
	}

	transactions, err := s.store.Transactions(c.UserContext(), sender, recipients)
	if nil != err {
		return s.fail(c, err)
	}
	return c.JSON(TransactionsReply{Transactions: transactions})
}
