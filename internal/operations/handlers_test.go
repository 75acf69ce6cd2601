/*
Copyright IBM Corp All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operations_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/hyperledger/fabric-blockcipher/internal/operations"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeLogging struct {
	spec      string
	activated []string
	err       error
}

func (f *fakeLogging) ActivateSpec(spec string) error {
	f.activated = append(f.activated, spec)
	if f.err != nil {
		return f.err
	}
	f.spec = spec
	return nil
}

func (f *fakeLogging) Spec() string { return f.spec }

var _ = Describe("Version", func() {
	It("returns 200 if the method is GET", func() {
		resp := httptest.NewRecorder()

		versionInfoHandler := &operations.VersionInfoHandler{VersionInfo: &operations.VersionInfo{Version: "latest"}}
		versionInfoHandler.ServeHTTP(resp, &http.Request{Method: http.MethodGet})
		Expect(resp.Result().StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Result().Header.Get("Content-Type")).To(Equal("application/json"))
		Expect(resp.Body).To(MatchJSON(`{"Version": "latest"}`))
	})

	It("returns 400 when an unsupported method is used", func() {
		resp := httptest.NewRecorder()

		versionInfoHandler := &operations.VersionInfoHandler{}
		versionInfoHandler.ServeHTTP(resp, &http.Request{Method: http.MethodPut})
		Expect(resp.Result().StatusCode).To(Equal(http.StatusBadRequest))
		Expect(resp.Body).To(MatchJSON(`{"Error": "invalid request method: PUT"}`))
	})
})

var _ = Describe("SpecHandler", func() {
	var (
		logging *fakeLogging
		handler *operations.SpecHandler
	)

	BeforeEach(func() {
		logging = &fakeLogging{spec: "info"}
		handler = &operations.SpecHandler{Logging: logging}
	})

	It("returns the active spec", func() {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/logspec", nil))
		Expect(resp.Code).To(Equal(http.StatusOK))
		Expect(resp.Body).To(MatchJSON(`{"spec": "info"}`))
	})

	It("activates a new spec", func() {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/logspec", strings.NewReader(`{"spec": "blockcipher.modes=debug"}`)))
		Expect(resp.Code).To(Equal(http.StatusNoContent))
		Expect(logging.activated).To(Equal([]string{"blockcipher.modes=debug"}))
	})

	It("rejects a bad payload", func() {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/logspec", strings.NewReader(`goo`)))
		Expect(resp.Code).To(Equal(http.StatusBadRequest))
		Expect(logging.activated).To(BeEmpty())
	})

	It("returns activation errors", func() {
		logging.err = errors.New("bad spec")
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/logspec", strings.NewReader(`{"spec": "x=y=z"}`)))
		Expect(resp.Code).To(Equal(http.StatusBadRequest))
		Expect(resp.Body).To(MatchJSON(`{"Error": "bad spec"}`))
	})

	It("rejects other methods", func() {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/logspec", nil))
		Expect(resp.Code).To(Equal(http.StatusBadRequest))
		Expect(resp.Body).To(MatchJSON(`{"Error": "invalid request method: DELETE"}`))
	})
})

var _ = Describe("SelfTest", func() {
	It("passes with the real cipher", func() {
		Expect((&operations.SelfTest{}).HealthCheck(context.Background())).To(Succeed())
	})

	It("fails when the context is done", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect((&operations.SelfTest{}).HealthCheck(ctx)).To(MatchError(context.Canceled))
	})

	It("fails on a wrong ciphertext", func() {
		st := &operations.SelfTest{
			Encrypt: func(block, key []byte) ([]byte, error) { return make([]byte, 16), nil },
		}
		Expect(st.HealthCheck(context.Background())).To(MatchError("self-test encryption mismatch: got 00000000000000000000000000000000"))
	})

	It("fails on a decryption error", func() {
		st := &operations.SelfTest{
			Decrypt: func(block, key []byte) ([]byte, error) { return nil, errors.New("boom") },
		}
		Expect(st.HealthCheck(context.Background())).To(MatchError("self-test decryption failed: boom"))
	})

	It("marks the service unavailable through healthz", func() {
		system := operations.NewSystem(operations.Options{ListenAddress: "127.0.0.1:0"})
		Expect(system.RegisterChecker("broken", &operations.SelfTest{
			Encrypt: func(block, key []byte) ([]byte, error) { return nil, errors.New("no cipher") },
		})).To(Succeed())

		resp := httptest.NewRecorder()
		system.Handler().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		Expect(resp.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(resp.Body.String()).To(ContainSubstring(`"component":"broken"`))
		Expect(resp.Body.String()).To(ContainSubstring("self-test encryption failed: no cipher"))
	})
})
