/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package kdf derives rijndael keys from passphrases with PBKDF2.
package kdf

import (
	"crypto/sha256"
	"hash"
	"strings"

	"github.com/hyperledger/fabric-blockcipher/bccsp/rijndael"
	"github.com/hyperledger/fabric-blockcipher/common/flogging"
	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/sha3"
)

var logger = flogging.MustGetLogger("blockcipher.kdf")

const (
	// DefaultIterations follows the current OWASP guidance for
	// PBKDF2-HMAC-SHA256.
	DefaultIterations = 600000

	// MinSaltSize is the shortest salt accepted.
	MinSaltSize = 8
)

// Opts holds the derivation parameters.
type Opts struct {
	Passphrase []byte
	Salt       []byte
	Iterations int
	// HashFamily is "SHA2" or "SHA3". Empty means SHA2.
	HashFamily string
}

func hashFunction(family string) (func() hash.Hash, error) {
	switch strings.ToUpper(family) {
	case "", "SHA2":
		return sha256.New, nil
	case "SHA3":
		return sha3.New256, nil
	default:
		return nil, errors.Errorf("hash family not supported [%s]", family)
	}
}

// DeriveKey returns a rijndael.KeySize key derived from opts.
func DeriveKey(opts Opts) ([]byte, error) {
	if len(opts.Passphrase) == 0 {
		return nil, errors.New("passphrase must not be empty")
	}
	if len(opts.Salt) < MinSaltSize {
		return nil, errors.Errorf("salt must be at least %d bytes, got %d", MinSaltSize, len(opts.Salt))
	}
	iterations := opts.Iterations
	if iterations == 0 {
		iterations = DefaultIterations
	}
	if iterations < 0 {
		return nil, errors.Errorf("iterations must be positive, got %d", iterations)
	}
	h, err := hashFunction(opts.HashFamily)
	if err != nil {
		return nil, err
	}

	logger.Debugf("deriving key with %d PBKDF2 iterations", iterations)
	return pbkdf2.Key(opts.Passphrase, opts.Salt, iterations, rijndael.KeySize, h), nil
}
