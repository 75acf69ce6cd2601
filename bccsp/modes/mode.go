/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package modes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Mode selects a mode of operation. The numeric values match the selector
// accepted on the console and in configuration files.
type Mode int

const (
	ECB Mode = iota
	CFB
	CBC
	OFB
)

var modeNames = map[Mode]string{
	ECB: "ECB",
	CFB: "CFB",
	CBC: "CBC",
	OFB: "OFB",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Valid reports whether m is one of the four supported modes.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// UsesIV reports whether the mode requires an initialization vector.
func (m Mode) UsesIV() bool {
	return m != ECB
}

// ParseMode accepts a mode name (case-insensitive) or its numeric selector.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		m := Mode(n)
		if !m.Valid() {
			return 0, errors.WithMessagef(ErrUnknownMode, "selector %d", n)
		}
		return m, nil
	}
	for m, name := range modeNames {
		if strings.EqualFold(name, s) {
			return m, nil
		}
	}
	return 0, errors.WithMessagef(ErrUnknownMode, "%q", s)
}

// Direction selects encryption or decryption.
type Direction int

const (
	Encrypt Direction = iota
	Decrypt
)

func (d Direction) String() string {
	switch d {
	case Encrypt:
		return "encrypt"
	case Decrypt:
		return "decrypt"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Valid reports whether d is Encrypt or Decrypt.
func (d Direction) Valid() bool {
	return d == Encrypt || d == Decrypt
}

// ParseDirection accepts "encrypt"/"decrypt" (or "enc"/"dec") and the
// console selectors 0 and 1.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "enc", "encrypt", "encrypting":
		return Encrypt, nil
	case "1", "dec", "decrypt", "decrypting":
		return Decrypt, nil
	default:
		return 0, errors.WithMessagef(ErrUnknownDirection, "%q", s)
	}
}
