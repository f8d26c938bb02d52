// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate

import (
	"crypto/tls"
	"os"
	"time"

	"github.com/bitmark-inc/certgen"
	"github.com/bitmark-inc/logger"

	"github.com/unlock-protocol/unlockd/fault"
	"github.com/unlock-protocol/unlockd/util"
)

// validity of a generated certificate
const validity = 10 * 365 * 24 * time.Hour

// Get - verify a PEM certificate and key pair and return the TLS
// configuration and certificate fingerprint
func Get(log *logger.L, name, certificate, key string) (*tls.Config, util.FingerprintBytes, error) {
	var fin util.FingerprintBytes

	keyPair, err := tls.X509KeyPair([]byte(certificate), []byte(key))
	if err != nil {
		log.Errorf("%s failed to load keypair: %v", name, err)
		return nil, fin, err
	}

	tlsConfiguration := &tls.Config{
		Certificates: []tls.Certificate{
			keyPair,
		},
	}

	fin = util.Fingerprint(keyPair.Certificate[0])

	return tlsConfiguration, fin, nil
}

// Load - read the certificate and key files then Get
func Load(log *logger.L, name, certificateFileName, keyFileName string) (*tls.Config, util.FingerprintBytes, error) {
	certificate, err := os.ReadFile(certificateFileName)
	if nil != err {
		log.Errorf("%s certificate: %q  error: %s", name, certificateFileName, err)
		return nil, util.FingerprintBytes{}, err
	}
	key, err := os.ReadFile(keyFileName)
	if nil != err {
		log.Errorf("%s private key: %q  error: %s", name, keyFileName, err)
		return nil, util.FingerprintBytes{}, err
	}
	return Get(log, name, string(certificate), string(key))
}

// Generate - create a self-signed certificate and key file pair
//
// existing files are never overwritten
func Generate(name string, certificateFileName string, privateKeyFileName string, override bool, extraHosts []string) error {

	if util.EnsureFileExists(certificateFileName) {
		return fault.CertificateFileAlreadyExists
	}

	if util.EnsureFileExists(privateKeyFileName) {
		return fault.KeyFileAlreadyExists
	}

	org := "unlockd self signed cert for: " + name
	validUntil := time.Now().Add(validity)
	cert, key, err := certgen.NewTLSCertPair(org, validUntil, override, extraHosts)
	if err != nil {
		return err
	}

	if err = os.WriteFile(certificateFileName, cert, 0666); err != nil {
		return err
	}

	if err = os.WriteFile(privateKeyFileName, key, 0600); err != nil {
		os.Remove(certificateFileName)
		return err
	}

	return nil
}
