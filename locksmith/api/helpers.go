// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package api

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/locksmith/signature"
	"github.com/unlock-protocol/unlockd/rpc/ratelimit"
	"github.com/unlock-protocol/unlockd/util"
)

// error codes in the response body
const (
	codeConflict     = "conflict"
	codeInvalid      = "invalid_request"
	codeNotFound     = "not_found"
	codeProcessing   = "processing_error"
	codeRateLimit    = "rate_limited"
	codeUnauthorised = "unauthorised"
)

// ApiError - the body of every failed request
type ApiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func craftApiError(code string, message string) ApiError {
	return ApiError{
		Code:    code,
		Message: message,
	}
}

// respond to an error with the status of its fault class
func (s *Server) fail(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := codeProcessing
	message := "internal processing error"

	switch {
	case fault.IsErrInvalid(err):
		status, code, message = http.StatusBadRequest, codeInvalid, err.Error()
	case fault.IsErrUnauthorised(err):
		status, code, message = http.StatusUnauthorized, codeUnauthorised, err.Error()
	case fault.IsErrNotFound(err):
		status, code, message = http.StatusNotFound, codeNotFound, err.Error()
	case fault.IsErrExists(err):
		status, code, message = http.StatusConflict, codeConflict, err.Error()
	case fault.RateLimiting == err:
		status, code, message = http.StatusTooManyRequests, codeRateLimit, err.Error()
	case fault.PriceUnavailable == err || fault.EmailNotDelivered == err:
		status, message = http.StatusBadGateway, err.Error()
	default:
		s.log.Errorf("%s %s  error: %s", c.Method(), c.Path(), err)
	}

	return c.Status(status).JSON(craftApiError(code, message))
}

// errors escaping a handler, including unknown routes
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		code := codeProcessing
		switch e.Code {
		case http.StatusNotFound:
			code = codeNotFound
		case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
			code = codeInvalid
		}
		return c.Status(e.Code).JSON(craftApiError(code, e.Message))
	}
	return s.fail(c, err)
}

func (s *Server) limit(c *fiber.Ctx) error {
	if err := ratelimit.Limit(s.limiter); nil != err {
		return s.fail(c, err)
	}
	return c.Next()
}

func (s *Server) allowOrigin(c *fiber.Ctx) error {
	if "" != s.cors {
		c.Set(fiber.HeaderAccessControlAllowOrigin, s.cors)
		c.Set(fiber.HeaderAccessControlAllowHeaders, "Authorization, Content-Type")
		c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, PUT, DELETE, OPTIONS")
	}
	return c.Next()
}

func (s *Server) preflight(c *fiber.Ctx) error {
	return c.SendStatus(http.StatusNoContent)
}

// decode the request body, any failure is a client error
func decodeBody(c *fiber.Ctx, v interface{}) error {
	if err := json.Unmarshal(c.Body(), v); nil != err {
		return fault.InvalidJSON
	}
	return nil
}

// a checksummed address from a route parameter
func addressParam(c *fiber.Ctx, name string) (string, error) {
	return util.ChecksumAddress(c.Params(name))
}

// the request body must be signed by the expected address
func authorise(c *fiber.Ctx, expected string) error {
	return signature.Verify(c.Body(), c.Get(fiber.HeaderAuthorization), expected)
}

// the address that signed the request body
func signer(c *fiber.Ctx) (string, error) {
	return signature.Recover(c.Body(), c.Get(fiber.HeaderAuthorization))
}
