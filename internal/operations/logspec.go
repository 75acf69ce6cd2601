/*
Copyright IBM Corp All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operations

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hyperledger/fabric-blockcipher/common/flogging"
)

// Logging is the part of the logging system the spec handler drives.
type Logging interface {
	ActivateSpec(spec string) error
	Spec() string
}

type LogSpec struct {
	Spec string `json:"spec,omitempty"`
}

// SpecHandler reports the active logging spec on GET and replaces it on PUT.
type SpecHandler struct {
	Logging Logging
	Logger  *flogging.FabricLogger
}

func (h *SpecHandler) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodPut:
		var logSpec LogSpec
		decoder := json.NewDecoder(req.Body)
		if err := decoder.Decode(&logSpec); err != nil {
			sendResponse(h.Logger, resp, http.StatusBadRequest, err)
			return
		}
		req.Body.Close()

		if err := h.Logging.ActivateSpec(logSpec.Spec); err != nil {
			sendResponse(h.Logger, resp, http.StatusBadRequest, err)
			return
		}
		if h.Logger != nil {
			h.Logger.Infof("Logging spec changed to %s", logSpec.Spec)
		}
		resp.WriteHeader(http.StatusNoContent)

	case http.MethodGet:
		sendResponse(h.Logger, resp, http.StatusOK, &LogSpec{Spec: h.Logging.Spec()})

	default:
		err := fmt.Errorf("invalid request method: %s", req.Method)
		sendResponse(h.Logger, resp, http.StatusBadRequest, err)
	}
}
