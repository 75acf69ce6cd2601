/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package rijndael

import "github.com/pkg/errors"

// Rounds is the number of AES-128 rounds.
const Rounds = 10

// rcon holds the round constants XORed into the first byte of each new
// round key.
var rcon = [Rounds]byte{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1b, 0x36}

// ErrInvalidKeyLength is returned when a key is not exactly KeySize bytes.
var ErrInvalidKeyLength = errors.New("invalid key length")

// Schedule is the expanded AES-128 key: Rounds+1 round keys, where entry 0
// is the cipher key itself.
type Schedule [Rounds + 1]State

// ExpandKey derives the round key schedule for a 16 byte key.
func ExpandKey(key []byte) (Schedule, error) {
	var ks Schedule
	if len(key) != KeySize {
		return ks, errors.WithMessagef(ErrInvalidKeyLength, "key must be %d bytes, got %d", KeySize, len(key))
	}

	ks[0] = NewState(key)
	for r := 1; r <= Rounds; r++ {
		ks[r] = nextRoundKey(ks[r-1], rcon[r-1])
	}
	return ks, nil
}

func nextRoundKey(prev State, rc byte) State {
	var next State

	// RotWord then SubWord on the last column of the previous key.
	last := prev.column(3)
	for row := 0; row < 4; row++ {
		next[row][0] = sbox[last[(row+1)%4]] ^ prev[row][0]
	}
	next[0][0] ^= rc

	for col := 1; col < 4; col++ {
		for row := 0; row < 4; row++ {
			next[row][col] = next[row][col-1] ^ prev[row][col]
		}
	}
	return next
}
