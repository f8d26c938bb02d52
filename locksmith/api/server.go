// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package api - the locksmith REST interface
package api

import (
	"context"
	"encoding/json"

	"github.com/bitmark-inc/logger"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/unlock-protocol/unlockd/locksmith/models"
)

const (
	appName                  = "locksmith"
	defaultRequestsPerSecond = 50
	defaultBurst             = 100
	maximumBodySize          = 1 << 20
)

// Configuration - the HTTP listener
type Configuration struct {
	Listen            string  `gluamapper:"listen" json:"listen"`
	CorsOrigin        string  `gluamapper:"cors_origin" json:"cors_origin"`
	RequestsPerSecond float64 `gluamapper:"requests_per_second" json:"requests_per_second"`
	Burst             int     `gluamapper:"burst" json:"burst"`
}

// Store - persistent records
type Store interface {
	CreateLock(ctx context.Context, lock *models.Lock) error
	Lock(ctx context.Context, address string) (*models.Lock, error)
	LocksByOwner(ctx context.Context, owner string) ([]*models.Lock, error)
	RenameLock(ctx context.Context, address string, name string) error

	CreateUser(ctx context.Context, user *models.User) error
	User(ctx context.Context, emailAddress string) (*models.User, error)
	UpdatePrivateKey(ctx context.Context, emailAddress string, key []byte) error

	SaveEvent(ctx context.Context, event *models.Event) error
	Event(ctx context.Context, lockAddress string) (*models.Event, error)

	SaveLockMetadata(ctx context.Context, address string, data models.Metadata) error
	LockMetadata(ctx context.Context, address string) (models.Metadata, error)
	SaveUserMetadata(ctx context.Context, address string, owner string, data models.Metadata) error
	UserMetadata(ctx context.Context, address string, owner string) (models.Metadata, error)

	SaveTransaction(ctx context.Context, transaction *models.Transaction) error
	Transactions(ctx context.Context, sender string, recipients []string) ([]*models.Transaction, error)

	SaveCheckoutConfig(ctx context.Context, config *models.CheckoutConfig) error
	CheckoutConfig(ctx context.Context, id string) (*models.CheckoutConfig, error)
	CheckoutConfigsByOwner(ctx context.Context, owner string) ([]*models.CheckoutConfig, error)
	DeleteCheckoutConfig(ctx context.Context, id string, owner string) error
}

// Pricer - key prices in dollars
type Pricer interface {
	Price(ctx context.Context, address string) (*models.Price, error)
}

// Mailer - templated email delivery
type Mailer interface {
	Send(ctx context.Context, template string, recipient string, params map[string]interface{}) error
}

// KeyReader - key expirations from the chain
type KeyReader interface {
	KeyExpiration(ctx context.Context, lock string, owner string) (int64, error)
}

// Server - the locksmith HTTP server
type Server struct {
	log     *logger.L
	store   Store
	pricer  Pricer
	mailer  Mailer
	keys    KeyReader
	limiter *rate.Limiter
	cors    string
	listen  string
	app     *fiber.App
}

// New - create the server and register all routes
func New(configuration Configuration, store Store, pricer Pricer, mailer Mailer, keys KeyReader) *Server {
	perSecond := configuration.RequestsPerSecond
	if perSecond <= 0 {
		perSecond = defaultRequestsPerSecond
	}
	burst := configuration.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	s := &Server{
		log:     logger.New("api"),
		store:   store,
		pricer:  pricer,
		mailer:  mailer,
		keys:    keys,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		cors:    configuration.CorsOrigin,
		listen:  configuration.Listen,
	}

	app := fiber.New(fiber.Config{
		AppName:               appName,
		EnableIPValidation:    true,
		DisableStartupMessage: true,
		BodyLimit:             maximumBodySize,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          s.errorHandler,
	})

	app.Use(s.limit)
	app.Use(s.allowOrigin)
	app.Options("/*", s.preflight)

	app.Get("/health", s.health)

	// locks
	app.Post("/lock", s.createLock)
	app.Get("/lock/:address", s.getLock)
	app.Put("/lock/:address", s.renameLock)
	app.Get("/:owner/locks", s.getLocksByOwner)

	// users
	app.Post("/users", s.createUser)
	app.Get("/users/:email/privatekey", s.getPrivateKey)
	app.Post("/users/:email/recoveryphrase", s.verifyRecoveryPhrase)
	app.Put("/users/:email/passwordEncryptedPrivateKey", s.updatePrivateKey)

	// events
	app.Post("/events", s.saveEvent)
	app.Get("/events/:lockAddress", s.getEvent)

	// pricing
	app.Get("/price/:lockAddress", s.getPrice)

	// metadata
	app.Put("/api/key/:address", s.saveLockMetadata)
	app.Put("/api/key/:address/user/:owner", s.saveUserMetadata)
	app.Get("/api/key/:address/:keyId", s.getKeyMetadata)

	// email
	app.Post("/api/email/:template", s.sendEmail)

	// transactions
	app.Post("/transaction", s.saveTransaction)
	app.Get("/transactions", s.getTransactions)

	// checkout configs
	app.Post("/checkout/configs", s.saveCheckoutConfig)
	app.Get("/checkout/configs", s.getCheckoutConfigs)
	app.Get("/checkout/configs/:id", s.getCheckoutConfig)
	app.Delete("/checkout/configs/:id", s.deleteCheckoutConfig)

	s.app = app
	return s
}

// App - the underlying fiber application
func (s *Server) App() *fiber.App {
	return s.app
}

// Run - serve until the shutdown channel is closed
//
// matches background.Process so the server can be started alongside
// other background processes
func (s *Server) Run(args interface{}, shutdown <-chan struct{}) {
	s.log.Infof("starting on: %s", s.listen)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := s.app.Listen(s.listen); nil != err {
			s.log.Criticalf("listen: %s  error: %s", s.listen, err)
		}
	}()

	select {
	case <-shutdown:
	case <-done:
		return
	}

	s.log.Info("shutting down…")
	if err := s.app.Shutdown(); nil != err {
		s.log.Errorf("shutdown error: %s", err)
	}
	<-done
	s.log.Info("stopped")
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "OK"})
}
