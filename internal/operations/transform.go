/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operations

import (
	"encoding/json"
	"net/http"

	"github.com/hyperledger/fabric-blockcipher/bccsp/modes"
	"github.com/hyperledger/fabric-blockcipher/common/flogging"
	"github.com/hyperledger/fabric-blockcipher/internal/hexcodec"
	"github.com/pkg/errors"
)

const maxTransformRequestBytes = 4 << 20

// TransformRequest is the body of POST /v1/transform. Key, IV and Input are
// hex strings. Mode defaults to ECB and Direction to encrypt.
type TransformRequest struct {
	Mode        string `json:"mode"`
	Direction   string `json:"direction"`
	SegmentSize int    `json:"segmentSize"`
	Key         string `json:"key"`
	IV          string `json:"iv"`
	Input       string `json:"input"`
}

type TransformResponse struct {
	Output string `json:"output"`
}

// TransformHandler runs a complete message through a modes.Runner.
type TransformHandler struct {
	Runner *modes.Runner
	Logger *flogging.FabricLogger
}

func (h *TransformHandler) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	var tr TransformRequest
	decoder := json.NewDecoder(http.MaxBytesReader(resp, req.Body, maxTransformRequestBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&tr); err != nil {
		sendResponse(h.Logger, resp, http.StatusBadRequest, errors.WithMessage(err, "invalid request body"))
		return
	}

	cfg, err := tr.config()
	if err != nil {
		sendResponse(h.Logger, resp, http.StatusBadRequest, err)
		return
	}

	out, err := h.Runner.Run(cfg)
	if err != nil {
		sendResponse(h.Logger, resp, http.StatusBadRequest, err)
		return
	}

	sendResponse(h.Logger, resp, http.StatusOK, &TransformResponse{Output: hexcodec.Format(out)})
}

func (tr *TransformRequest) config() (modes.Config, error) {
	cfg := modes.Config{Mode: modes.ECB, Direction: modes.Encrypt, SegmentSize: tr.SegmentSize}

	var err error
	if tr.Mode != "" {
		if cfg.Mode, err = modes.ParseMode(tr.Mode); err != nil {
			return modes.Config{}, err
		}
	}
	if tr.Direction != "" {
		if cfg.Direction, err = modes.ParseDirection(tr.Direction); err != nil {
			return modes.Config{}, err
		}
	}

	fields := []struct {
		name string
		in   string
		dst  *[]byte
	}{
		{name: "key", in: tr.Key, dst: &cfg.Key},
		{name: "iv", in: tr.IV, dst: &cfg.IV},
		{name: "input", in: tr.Input, dst: &cfg.Input},
	}
	for _, f := range fields {
		b, err := hexcodec.Parse(f.in)
		if err != nil {
			return modes.Config{}, errors.WithMessage(err, f.name)
		}
		*f.dst = b
	}

	return cfg, nil
}
