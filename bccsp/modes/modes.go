/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package modes drives the rijndael block cipher over whole messages in the
// ECB, CBC, CFB and OFB modes of operation.
//
// Every run processes a complete in-memory message and returns the complete
// output. Only whole units are processed: blocks for ECB, CBC and OFB, and
// segments for CFB. Trailing bytes that do not fill a unit are dropped
// rather than padded.
package modes

import (
	"github.com/hyperledger/fabric-blockcipher/bccsp/rijndael"
)

// result describes the work done by one run.
type result struct {
	output []byte
	// calls is the number of block cipher invocations.
	calls int
	// dropped is the number of trailing input bytes that were not consumed.
	dropped int
}

// Run validates cfg and executes the selected mode sequentially.
func Run(cfg Config) ([]byte, error) {
	res, err := execute(&cfg, 1)
	if err != nil {
		return nil, err
	}
	return res.output, nil
}

func execute(cfg *Config, workers int) (*result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c, err := rijndael.NewCipher(cfg.Key)
	if err != nil {
		return nil, err
	}

	var res *result
	switch cfg.Mode {
	case ECB:
		res = ecb(c, cfg.Direction, cfg.Input, workers)
	case CBC:
		res = cbc(c, cfg.Direction, cfg.IV, cfg.Input)
	case CFB:
		res = cfb(c, cfg.Direction, cfg.IV, cfg.SegmentSize, cfg.Input)
	case OFB:
		res = ofb(c, cfg.IV, cfg.Input)
	default:
		// unreachable after Validate
		return nil, ErrUnknownMode
	}

	res.dropped = len(cfg.Input) - len(cfg.Input)/cfg.unitSize()*cfg.unitSize()
	return res, nil
}

// ecb transforms every whole block independently. With more than one worker
// the blocks are spread over a bounded set of goroutines; each goroutine
// writes a disjoint range of the output.
func ecb(c *rijndael.Cipher, dir Direction, input []byte, workers int) *result {
	blocks := len(input) / rijndael.BlockSize
	out := make([]byte, blocks*rijndael.BlockSize)

	transform := c.Encrypt
	if dir == Decrypt {
		transform = c.Decrypt
	}

	span := func(from, to int) {
		for i := from; i < to; i++ {
			off := i * rijndael.BlockSize
			transform(out[off:off+rijndael.BlockSize], input[off:off+rijndael.BlockSize])
		}
	}

	if workers <= 1 || blocks <= ecbBatchBlocks {
		span(0, blocks)
		return &result{output: out, calls: blocks}
	}

	pool := newBlockPool(workers)
	for from := 0; from < blocks; from += ecbBatchBlocks {
		to := from + ecbBatchBlocks
		if to > blocks {
			to = blocks
		}
		from, to := from, to
		pool.Go(func() { span(from, to) })
	}
	pool.Wait()

	return &result{output: out, calls: blocks}
}

// cbc chains each block through the previous ciphertext block, starting
// from iv. On both directions the chain value becomes the ciphertext block.
func cbc(c *rijndael.Cipher, dir Direction, iv, input []byte) *result {
	blocks := len(input) / rijndael.BlockSize
	out := make([]byte, blocks*rijndael.BlockSize)

	var chain rijndael.Block
	copy(chain[:], iv)

	for i := 0; i < blocks; i++ {
		off := i * rijndael.BlockSize
		var in rijndael.Block
		copy(in[:], input[off:off+rijndael.BlockSize])

		var res rijndael.Block
		if dir == Encrypt {
			res = c.EncryptBlock(xorBlock(in, chain))
			chain = res
		} else {
			res = xorBlock(c.DecryptBlock(in), chain)
			chain = in
		}
		copy(out[off:], res[:])
	}

	return &result{output: out, calls: blocks}
}

// cfb runs cipher feedback with a segment of s bytes. The shift register
// starts at iv and, after each segment, shifts left by s and takes in the
// ciphertext segment: the output when encrypting, the input when
// decrypting.
func cfb(c *rijndael.Cipher, dir Direction, iv []byte, s int, input []byte) *result {
	segments := len(input) / s
	out := make([]byte, segments*s)

	var register rijndael.Block
	copy(register[:], iv)

	for i := 0; i < segments; i++ {
		off := i * s
		in := input[off : off+s]
		seg := out[off : off+s]

		keystream := c.EncryptBlock(register)
		for j := 0; j < s; j++ {
			seg[j] = in[j] ^ keystream[j]
		}

		feedback := seg
		if dir == Decrypt {
			feedback = in
		}
		copy(register[:], register[s:])
		copy(register[rijndael.BlockSize-s:], feedback)
	}

	return &result{output: out, calls: segments}
}

// ofb encrypts the register repeatedly, starting from iv, and XORs each
// result into the next input block. Encryption and decryption are the same
// operation.
func ofb(c *rijndael.Cipher, iv, input []byte) *result {
	blocks := len(input) / rijndael.BlockSize
	out := make([]byte, blocks*rijndael.BlockSize)

	var register rijndael.Block
	copy(register[:], iv)

	for i := 0; i < blocks; i++ {
		off := i * rijndael.BlockSize
		register = c.EncryptBlock(register)
		for j := 0; j < rijndael.BlockSize; j++ {
			out[off+j] = input[off+j] ^ register[j]
		}
	}

	return &result{output: out, calls: blocks}
}

func xorBlock(a, b rijndael.Block) rijndael.Block {
	for i := range a {
		a[i] ^= b[i]
	}
	return a
}
