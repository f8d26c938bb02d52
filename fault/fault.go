// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type UnauthorisedError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised           = ProcessError("already initialised")
	CacheDataMalformed           = ProcessError("cached data is malformed")
	CertificateFileAlreadyExists = ExistsError("certificate file already exists")
	CheckoutConfigNotFound       = NotFoundError("checkout config not found")
	DatabaseIsNotSet             = ProcessError("database is not set")
	EmailNotDelivered            = ProcessError("email could not be delivered")
	EventNotFound                = NotFoundError("event not found")
	InvalidAccount               = InvalidError("invalid account")
	InvalidAddress               = InvalidError("invalid address")
	InvalidAmount                = InvalidError("invalid amount")
	InvalidConfiguration         = InvalidError("invalid configuration")
	InvalidCount                 = InvalidError("invalid count")
	InvalidEmail                 = InvalidError("invalid email address")
	InvalidIPAddress             = InvalidError("invalid IP address")
	InvalidJSON                  = InvalidError("invalid JSON")
	InvalidKeyID                 = InvalidError("invalid key id")
	InvalidLockName              = InvalidError("invalid lock name")
	InvalidMessage               = InvalidError("invalid message")
	InvalidParameters            = InvalidError("invalid parameters")
	InvalidPortNumber            = InvalidError("invalid port number")
	InvalidPrivateKey            = InvalidError("invalid private key")
	InvalidPrivateKeyFile        = InvalidError("invalid private key file")
	InvalidPublicKey             = InvalidError("invalid public key")
	InvalidPublicKeyFile         = InvalidError("invalid public key file")
	InvalidSessionID             = InvalidError("invalid session id")
	InvalidSignature             = InvalidError("invalid signature")
	InvalidTemplate              = InvalidError("invalid email template")
	InvalidTip                   = InvalidError("invalid extra tip")
	InvalidTransactionHash       = InvalidError("invalid transaction hash")
	InvalidUpdateType            = InvalidError("invalid update type")
	KeyFileAlreadyExists         = ExistsError("key file already exists")
	KeyMetadataNotFound          = NotFoundError("key metadata not found")
	LockAlreadyExists            = ExistsError("lock already exists")
	LockNotConfigured            = InvalidError("lock is not part of the paywall configuration")
	LockNotFound                 = NotFoundError("lock not found")
	LocksmithRequestFailed       = ProcessError("locksmith request failed")
	MissingAccount               = InvalidError("no account is available")
	MissingLocks                 = InvalidError("configuration has no locks")
	MissingParameters            = InvalidError("missing parameters")
	MissingSignature             = UnauthorisedError("missing signature")
	NoMailExchanger              = InvalidError("recipient domain has no mail exchanger")
	NotConfigured                = ProcessError("paywall is not configured")
	NotConnected                 = ProcessError("not connected")
	NotInitialised               = ProcessError("not initialised")
	PriceUnavailable             = ProcessError("price is unavailable")
	RateLimiting                 = ProcessError("rate limiting")
	SessionNotFound              = NotFoundError("session not found")
	SignatureMismatch            = UnauthorisedError("signature does not match owner")
	SnapshotNotFound             = NotFoundError("snapshot not found")
	TooManySessions              = ProcessError("too many sessions")
	TransactionAlreadyExists     = ExistsError("transaction already exists")
	UnauthorisedConfiguration    = UnauthorisedError("configuration update from an unauthorised origin")
	UnknownMessageType           = InvalidError("unknown message type")
	UserAlreadyExists            = ExistsError("user already exists")
	UserNotFound                 = NotFoundError("user not found")
	WrongRecoveryPhrase          = UnauthorisedError("recovery phrase does not match")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string       { return string(e) }
func (e InvalidError) Error() string      { return string(e) }
func (e NotFoundError) Error() string     { return string(e) }
func (e ProcessError) Error() string      { return string(e) }
func (e UnauthorisedError) Error() string { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool       { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool      { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool     { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool      { _, ok := e.(ProcessError); return ok }
func IsErrUnauthorised(e error) bool { _, ok := e.(UnauthorisedError); return ok }
