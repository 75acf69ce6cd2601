/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package modes

import (
	"github.com/hyperledger/fabric-blockcipher/bccsp/rijndael"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidIVLength is returned when CBC, CFB or OFB is configured
	// without a 16 byte IV.
	ErrInvalidIVLength = errors.New("invalid IV length")

	// ErrInvalidSegmentSize is returned when a CFB segment size falls
	// outside [1, 16].
	ErrInvalidSegmentSize = errors.New("invalid segment size")

	// ErrUnknownMode is returned for a mode selector other than ECB, CFB,
	// CBC or OFB.
	ErrUnknownMode = errors.New("unknown mode of operation")

	// ErrUnknownDirection is returned for a direction other than Encrypt or
	// Decrypt.
	ErrUnknownDirection = errors.New("unknown direction")
)

// Config is the complete parameter set for one run of a mode. IV is ignored
// by ECB and SegmentSize is ignored by everything but CFB.
type Config struct {
	Mode        Mode
	Direction   Direction
	Key         []byte
	IV          []byte
	SegmentSize int
	Input       []byte
}

// Validate checks the configuration. The key length is checked first; it
// wraps rijndael.ErrInvalidKeyLength when the key is not 16 bytes.
func (c *Config) Validate() error {
	if len(c.Key) != rijndael.KeySize {
		return errors.WithMessagef(rijndael.ErrInvalidKeyLength, "key must be %d bytes, got %d", rijndael.KeySize, len(c.Key))
	}
	if !c.Mode.Valid() {
		return errors.WithMessagef(ErrUnknownMode, "selector %d", int(c.Mode))
	}
	if !c.Direction.Valid() {
		return errors.WithMessagef(ErrUnknownDirection, "selector %d", int(c.Direction))
	}
	if c.Mode.UsesIV() && len(c.IV) != rijndael.BlockSize {
		return errors.WithMessagef(ErrInvalidIVLength, "%s requires a %d byte IV, got %d", c.Mode, rijndael.BlockSize, len(c.IV))
	}
	if c.Mode == CFB && (c.SegmentSize < 1 || c.SegmentSize > rijndael.BlockSize) {
		return errors.WithMessagef(ErrInvalidSegmentSize, "segment size must be between 1 and %d, got %d", rijndael.BlockSize, c.SegmentSize)
	}
	return nil
}

// unitSize is the number of input bytes consumed per step.
func (c *Config) unitSize() int {
	if c.Mode == CFB {
		return c.SegmentSize
	}
	return rijndael.BlockSize
}
