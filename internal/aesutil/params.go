/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package aesutil implements the console front end of the aesutil tool: the
// six line parameter format, the rendering of results, and running the
// parameters through a modes.Runner.
package aesutil

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hyperledger/fabric-blockcipher/bccsp/modes"
	"github.com/hyperledger/fabric-blockcipher/bccsp/rijndael"
	"github.com/hyperledger/fabric-blockcipher/common/flogging"
	"github.com/hyperledger/fabric-blockcipher/internal/hexcodec"
	"github.com/pkg/errors"
)

var logger = flogging.MustGetLogger("aesutil")

// Prompt is printed before the parameters are read interactively.
const Prompt = "Enter the direction, mode and segment size selectors, then the input, key and IV as hex, one per line:"

// Params holds one set of console parameters.
type Params struct {
	Direction   modes.Direction
	Mode        modes.Mode
	SegmentSize int
	Input       []byte
	Key         []byte
	IV          []byte
}

// Config converts the parameters into a modes configuration.
func (p *Params) Config() modes.Config {
	return modes.Config{
		Mode:        p.Mode,
		Direction:   p.Direction,
		Key:         p.Key,
		IV:          p.IV,
		SegmentSize: p.SegmentSize,
		Input:       p.Input,
	}
}

// ReadParams reads the six line parameter format:
//
//	<direction: 0 encrypt, anything else decrypt>
//	<mode: 0 ECB, 1 CFB, 2 CBC, 3 OFB>
//	<segment size: 1-16, 0 when not applicable>
//	<input hex>
//	<key hex>
//	<iv hex, may be empty or missing for ECB>
//
// The three selectors are whitespace separated integers and may share
// lines. A mode selector outside 0-3 selects ECB.
func ReadParams(r io.Reader) (*Params, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var selectors []int
	for len(selectors) < 3 {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, errors.Wrap(err, "reading selectors")
			}
			return nil, errors.Errorf("expected 3 selectors, got %d", len(selectors))
		}
		for _, field := range strings.Fields(scanner.Text()) {
			if len(selectors) == 3 {
				return nil, errors.Errorf("unexpected token %q after selectors", field)
			}
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, errors.Errorf("selector %q is not an integer", field)
			}
			selectors = append(selectors, n)
		}
	}

	p := &Params{
		Direction:   modes.Encrypt,
		Mode:        modes.Mode(selectors[1]),
		SegmentSize: selectors[2],
	}
	if selectors[0] != 0 {
		p.Direction = modes.Decrypt
	}
	if !p.Mode.Valid() {
		logger.Debugf("mode selector %d is unknown, using ECB", selectors[1])
		p.Mode = modes.ECB
	}

	lines := []struct {
		name     string
		dst      *[]byte
		optional bool
	}{
		{name: "input", dst: &p.Input},
		{name: "key", dst: &p.Key},
		{name: "iv", dst: &p.IV, optional: true},
	}
	for _, line := range lines {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, errors.Wrapf(err, "reading %s", line.name)
			}
			if line.optional {
				break
			}
			return nil, errors.Errorf("missing %s line", line.name)
		}
		b, err := hexcodec.Parse(scanner.Text())
		if err != nil {
			return nil, errors.WithMessagef(err, "parsing %s", line.name)
		}
		*line.dst = b
	}
	if len(p.IV) == 0 {
		p.IV = nil
	}

	return p, nil
}

// WriteResult prints out the way the console tool always has: a title line
// naming the direction and mode, then the output as hex pairs.
func WriteResult(w io.Writer, p *Params, out []byte) error {
	verb := "encrypting"
	if p.Direction == modes.Decrypt {
		verb = "decrypting"
	}
	_, err := fmt.Fprintf(w, "Output for %s (%s):\n%s\n", verb, p.Mode, hexcodec.Format(out))
	return err
}

// Execute runs p through runner and warns when trailing input was dropped.
func Execute(runner *modes.Runner, p *Params) ([]byte, error) {
	out, err := runner.Run(p.Config())
	if err != nil {
		return nil, errors.WithMessagef(err, "%s %s failed", p.Mode, p.Direction)
	}
	if consumed := consumedBytes(p); consumed < len(p.Input) {
		logger.Warnf("ignored the final %d of %d input bytes; %s processes whole units only", len(p.Input)-consumed, len(p.Input), p.Mode)
	}
	return out, nil
}

func consumedBytes(p *Params) int {
	unit := rijndael.BlockSize
	if p.Mode == modes.CFB {
		unit = p.SegmentSize
	}
	return len(p.Input) / unit * unit
}
