/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package hexcodec converts between byte slices and the space separated hex
// notation used for keys, IVs and messages on the console.
package hexcodec

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidHex is returned when a string contains a non hex digit or a
// token with an odd number of digits.
var ErrInvalidHex = errors.New("invalid hex")

// Parse decodes whitespace separated hex tokens. Each token holds one or
// more whole bytes, so "00 11 aa", "0011aa" and "0011 aa" all decode to the
// same three bytes. Empty input decodes to an empty slice.
func Parse(s string) ([]byte, error) {
	fields := strings.Fields(s)
	out := make([]byte, 0, len(s)/2)
	for i, field := range fields {
		if len(field)%2 != 0 {
			return nil, errors.WithMessagef(ErrInvalidHex, "token %d %q has an odd number of digits", i, field)
		}
		b, err := hex.DecodeString(field)
		if err != nil {
			return nil, errors.WithMessagef(ErrInvalidHex, "token %d %q", i, field)
		}
		out = append(out, b...)
	}
	return out, nil
}

// Format renders b as two digit upper case hex pairs separated by single
// spaces.
func Format(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strings.ToUpper(hex.EncodeToString([]byte{c})))
	}
	return sb.String()
}
