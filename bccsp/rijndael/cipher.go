/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package rijndael is a table-driven, from-scratch implementation of the
// AES-128 block transformation: the S-box and GF(2^8) arithmetic, the
// four round transformations and their inverses, the Rijndael key
// schedule, and single-block encryption and decryption.
//
// The implementation favours a literal reading of FIPS-197 over speed and
// makes no attempt at constant-time execution.
package rijndael

import (
	"crypto/cipher"

	"github.com/pkg/errors"
)

const (
	// BlockSize is the AES block size in bytes.
	BlockSize = 16
	// KeySize is the only supported key size in bytes (AES-128).
	KeySize = 16
)

// ErrInvalidBlockLength is returned by the single-block helpers when the
// input is not exactly one block.
var ErrInvalidBlockLength = errors.New("invalid block length")

func errBlockLength(n int) error {
	return errors.WithMessagef(ErrInvalidBlockLength, "block must be %d bytes, got %d", BlockSize, n)
}

// Block is a single 16-byte cipher block.
type Block [BlockSize]byte

// Cipher is an AES-128 instance bound to one expanded key. It is safe for
// concurrent use since the schedule is never modified after construction.
type Cipher struct {
	schedule Schedule
}

var _ cipher.Block = (*Cipher)(nil)

// NewCipher expands key and returns a Cipher. The key must be 16 bytes.
func NewCipher(key []byte) (*Cipher, error) {
	ks, err := ExpandKey(key)
	if err != nil {
		return nil, err
	}
	return &Cipher{schedule: ks}, nil
}

// NewCipherFromSchedule returns a Cipher using a precomputed schedule.
func NewCipherFromSchedule(ks Schedule) *Cipher {
	return &Cipher{schedule: ks}
}

// Schedule returns a copy of the round keys.
func (c *Cipher) Schedule() Schedule {
	return c.schedule
}

// BlockSize returns the cipher's block size.
func (c *Cipher) BlockSize() int { return BlockSize }

// Encrypt encrypts the first block in src into dst. Dst and src may overlap
// entirely.
func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("rijndael: input not full block")
	}
	if len(dst) < BlockSize {
		panic("rijndael: output not full block")
	}
	c.encrypt(NewState(src)).put(dst)
}

// Decrypt decrypts the first block in src into dst. Dst and src may overlap
// entirely.
func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("rijndael: input not full block")
	}
	if len(dst) < BlockSize {
		panic("rijndael: output not full block")
	}
	c.decrypt(NewState(src)).put(dst)
}

// EncryptBlock returns the encryption of b.
func (c *Cipher) EncryptBlock(b Block) Block {
	var out Block
	c.encrypt(NewState(b[:])).put(out[:])
	return out
}

// DecryptBlock returns the decryption of b.
func (c *Cipher) DecryptBlock(b Block) Block {
	var out Block
	c.decrypt(NewState(b[:])).put(out[:])
	return out
}

func (c *Cipher) encrypt(s State) State {
	ks := &c.schedule

	s = s.AddRoundKey(ks[0])
	for round := 1; round < Rounds; round++ {
		s = s.SubBytes().ShiftRows().MixColumns().AddRoundKey(ks[round])
	}
	return s.SubBytes().ShiftRows().AddRoundKey(ks[Rounds])
}

func (c *Cipher) decrypt(s State) State {
	ks := &c.schedule

	s = s.AddRoundKey(ks[Rounds])
	for round := Rounds - 1; round > 0; round-- {
		s = s.InvShiftRows().InvSubBytes().AddRoundKey(ks[round]).InvMixColumns()
	}
	return s.InvShiftRows().InvSubBytes().AddRoundKey(ks[0])
}

// Encrypt encrypts a single 16-byte block under key.
func Encrypt(block, key []byte) ([]byte, error) {
	c, err := NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(block) != BlockSize {
		return nil, errBlockLength(len(block))
	}
	out := make([]byte, BlockSize)
	c.Encrypt(out, block)
	return out, nil
}

// Decrypt decrypts a single 16-byte block under key.
func Decrypt(block, key []byte) ([]byte, error) {
	c, err := NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(block) != BlockSize {
		return nil, errBlockLength(len(block))
	}
	out := make([]byte, BlockSize)
	c.Decrypt(out, block)
	return out, nil
}
