/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package rijndael

// State is the 4x4 byte matrix a block is reshaped into during round
// processing, indexed as [row][col]. Every transformation is a value method
// returning a new State; the receiver is never modified.
type State [4][4]byte

// NewState reshapes a 16-byte block column-major: byte i lands at row i%4,
// column i/4. It panics if block is shorter than BlockSize.
func NewState(block []byte) State {
	_ = block[BlockSize-1]
	var s State
	for i := 0; i < BlockSize; i++ {
		s[i%4][i/4] = block[i]
	}
	return s
}

// Bytes flattens the state back into a 16-byte block, reading column-major.
func (s State) Bytes() []byte {
	out := make([]byte, BlockSize)
	s.put(out)
	return out
}

func (s State) put(dst []byte) {
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			dst[col*4+row] = s[row][col]
		}
	}
}

// AddRoundKey XORs every cell with the matching cell of k.
func (s State) AddRoundKey(k State) State {
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			s[row][col] ^= k[row][col]
		}
	}
	return s
}

// SubBytes runs every cell through the S-box.
func (s State) SubBytes() State {
	return s.substitute(&sbox)
}

// InvSubBytes runs every cell through the inverse S-box.
func (s State) InvSubBytes() State {
	return s.substitute(&invSbox)
}

func (s State) substitute(table *[256]byte) State {
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			s[row][col] = table[s[row][col]]
		}
	}
	return s
}

// ShiftRows rotates row r left by r positions.
func (s State) ShiftRows() State {
	var out State
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row][col] = s[row][(col+row)%4]
		}
	}
	return out
}

// InvShiftRows rotates row r right by r positions.
func (s State) InvShiftRows() State {
	var out State
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row][col] = s[row][(col+4-row)%4]
		}
	}
	return out
}

// MixColumns multiplies each column by the fixed mix matrix.
func (s State) MixColumns() State {
	return s.mix(&mixMatrix)
}

// InvMixColumns multiplies each column by the inverse mix matrix.
func (s State) InvMixColumns() State {
	return s.mix(&invMixMatrix)
}

func (s State) mix(m *[4][4]byte) State {
	var out State
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out[row][col] = Mul(m[row][0], s[0][col]) ^
				Mul(m[row][1], s[1][col]) ^
				Mul(m[row][2], s[2][col]) ^
				Mul(m[row][3], s[3][col])
		}
	}
	return out
}

func (s State) column(col int) [4]byte {
	return [4]byte{s[0][col], s[1][col], s[2][col], s[3][col]}
}
