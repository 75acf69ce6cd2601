/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package modes_test

import (
	"bytes"
	"crypto/rand"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/hyperledger/fabric-blockcipher/bccsp/modes"
	"github.com/hyperledger/fabric-blockcipher/common/flogging"
	"github.com/hyperledger/fabric-blockcipher/common/metrics/metricsfakes"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Runner", func() {
	var (
		provider  *metricsfakes.Provider
		fakeClock *fakeclock.FakeClock
		logBuf    *bytes.Buffer
		runner    *modes.Runner
		key, iv   []byte
	)

	BeforeEach(func() {
		provider = metricsfakes.NewProvider()
		fakeClock = fakeclock.NewFakeClock(time.Unix(1760000000, 0))
		logBuf = &bytes.Buffer{}

		logging, err := flogging.New(flogging.Config{LogSpec: "debug", Format: "%{level} %{message}", Writer: logBuf})
		Expect(err).NotTo(HaveOccurred())

		runner = modes.NewRunner(modes.RunnerOptions{
			Workers:         4,
			MetricsProvider: provider,
			Clock:           fakeClock,
			Logger:          logging.Logger("blockcipher.modes"),
		})

		key = unhex("2b7e151628aed2a6abf7158809cf4f3c")
		iv = unhex("000102030405060708090a0b0c0d0e0f")
	})

	It("registers its meters", func() {
		Expect(provider.Counters).To(HaveKey("runs"))
		Expect(provider.Counters).To(HaveKey("blocks"))
		Expect(provider.Counters).To(HaveKey("truncated_bytes"))
		Expect(provider.Histograms).To(HaveKey("run_duration"))
	})

	It("returns the same output as Run", func() {
		msg := make([]byte, 100)
		_, err := rand.Read(msg)
		Expect(err).NotTo(HaveOccurred())

		for _, mode := range []modes.Mode{modes.ECB, modes.CBC, modes.CFB, modes.OFB} {
			cfg := modes.Config{Mode: mode, Key: key, IV: iv, SegmentSize: 4, Input: msg}
			expected, err := modes.Run(cfg)
			Expect(err).NotTo(HaveOccurred())

			out, err := runner.Run(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(expected), mode.String())
		}
	})

	It("spreads large ECB messages across workers without changing the output", func() {
		msg := make([]byte, 16*1000+7)
		_, err := rand.Read(msg)
		Expect(err).NotTo(HaveOccurred())

		for _, dir := range []modes.Direction{modes.Encrypt, modes.Decrypt} {
			cfg := modes.Config{Mode: modes.ECB, Direction: dir, Key: key, Input: msg}
			expected, err := modes.Run(cfg)
			Expect(err).NotTo(HaveOccurred())

			out, err := runner.Run(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveLen(16 * 1000))
			Expect(out).To(Equal(expected))
		}
	})

	It("records successful runs", func() {
		_, err := runner.Run(modes.Config{Mode: modes.CFB, Key: key, IV: iv, SegmentSize: 1, Input: make([]byte, 18)})
		Expect(err).NotTo(HaveOccurred())

		Expect(provider.Counters["runs"].Total("mode", "CFB", "direction", "encrypt", "status", "success")).To(Equal(1.0))
		Expect(provider.Counters["blocks"].Total("mode", "CFB", "direction", "encrypt")).To(Equal(18.0))
		Expect(provider.Counters["truncated_bytes"].AddCallCount()).To(Equal(0))

		h := provider.Histograms["run_duration"]
		Expect(h.ObserveCallCount()).To(Equal(1))
		value, labels := h.ObserveArgsForCall(0)
		Expect(value).To(Equal(0.0))
		Expect(labels).To(Equal([]string{"mode", "CFB", "direction", "encrypt"}))
	})

	It("records and logs truncated input", func() {
		out, err := runner.Run(modes.Config{Mode: modes.CBC, Direction: modes.Decrypt, Key: key, IV: iv, Input: make([]byte, 40)})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(32))

		Expect(provider.Counters["blocks"].Total("mode", "CBC", "direction", "decrypt")).To(Equal(2.0))
		Expect(provider.Counters["truncated_bytes"].Total("mode", "CBC", "direction", "decrypt")).To(Equal(8.0))
		Expect(logBuf.String()).To(ContainSubstring("DEBUG CBC decrypt dropped 8 trailing bytes"))
	})

	It("records failed runs", func() {
		out, err := runner.Run(modes.Config{Mode: modes.OFB, Key: key, Input: make([]byte, 16)})
		Expect(err).To(MatchError(modes.ErrInvalidIVLength))
		Expect(out).To(BeNil())

		Expect(provider.Counters["runs"].Total("mode", "OFB", "direction", "encrypt", "status", "failure")).To(Equal(1.0))
		Expect(provider.Counters["blocks"].AddCallCount()).To(Equal(0))
		Expect(provider.Histograms["run_duration"].ObserveCallCount()).To(Equal(0))
		Expect(logBuf.String()).To(ContainSubstring("OFB encrypt run rejected"))
	})

	It("defaults its options", func() {
		r := modes.NewRunner(modes.RunnerOptions{})
		out, err := r.Run(modes.Config{Mode: modes.ECB, Key: key, Input: make([]byte, 16)})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(16))
	})
})
