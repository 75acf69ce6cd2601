/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operations

import (
	"bytes"
	"context"

	"github.com/hyperledger/fabric-blockcipher/bccsp/rijndael"
	"github.com/pkg/errors"
)

var (
	selfTestKey        = []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f}
	selfTestPlaintext  = []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	selfTestCiphertext = []byte{0x69, 0xc4, 0xe0, 0xd8, 0x6a, 0x7b, 0x04, 0x30, 0xd8, 0xcd, 0xb7, 0x80, 0x70, 0xb4, 0xc5, 0x5a}
)

// SelfTest is a health checker that runs the FIPS-197 example vector
// through the cipher in both directions.
type SelfTest struct {
	// Encrypt and Decrypt default to the rijndael package functions.
	Encrypt func(block, key []byte) ([]byte, error)
	Decrypt func(block, key []byte) ([]byte, error)
}

func (s *SelfTest) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encrypt, decrypt := s.Encrypt, s.Decrypt
	if encrypt == nil {
		encrypt = rijndael.Encrypt
	}
	if decrypt == nil {
		decrypt = rijndael.Decrypt
	}

	ct, err := encrypt(selfTestPlaintext, selfTestKey)
	if err != nil {
		return errors.WithMessage(err, "self-test encryption failed")
	}
	if !bytes.Equal(ct, selfTestCiphertext) {
		return errors.Errorf("self-test encryption mismatch: got %x", ct)
	}

	pt, err := decrypt(ct, selfTestKey)
	if err != nil {
		return errors.WithMessage(err, "self-test decryption failed")
	}
	if !bytes.Equal(pt, selfTestPlaintext) {
		return errors.Errorf("self-test decryption mismatch: got %x", pt)
	}
	return nil
}
