/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statsd_test

import (
	"bytes"

	kitstatsd "github.com/go-kit/kit/metrics/statsd"
	"github.com/hyperledger/fabric-blockcipher/common/metrics"
	"github.com/hyperledger/fabric-blockcipher/common/metrics/statsd"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type nopLogger struct{}

func (nopLogger) Log(...interface{}) error { return nil }

var _ = Describe("Provider", func() {
	var (
		s        *kitstatsd.Statsd
		provider *statsd.Provider
		buf      *bytes.Buffer
	)

	BeforeEach(func() {
		s = kitstatsd.New("aesutil.", nopLogger{})
		provider = &statsd.Provider{Statsd: s}
		buf = &bytes.Buffer{}
	})

	flush := func() string {
		buf.Reset()
		_, err := s.WriteTo(buf)
		Expect(err).NotTo(HaveOccurred())
		return buf.String()
	}

	Describe("NewCounter", func() {
		It("writes counters without labels", func() {
			counter := provider.NewCounter(metrics.CounterOpts{
				Namespace: "blockcipher",
				Subsystem: "modes",
				Name:      "blocks",
			})
			counter.Add(2)
			counter.Add(3)

			Expect(flush()).To(Equal("aesutil.blockcipher.modes.blocks:5.000000|c\n"))
		})

		It("folds label values into the bucket name", func() {
			counter := provider.NewCounter(metrics.CounterOpts{
				Namespace:  "blockcipher",
				Subsystem:  "modes",
				Name:       "runs",
				LabelNames: []string{"mode", "direction", "status"},
			})
			counter.With("mode", "CFB", "direction", "decrypt", "status", "success").Add(1)

			Expect(flush()).To(Equal("aesutil.blockcipher.modes.runs.CFB.decrypt.success:1.000000|c\n"))
		})

		It("panics when labels are required but missing", func() {
			counter := provider.NewCounter(metrics.CounterOpts{Name: "runs", LabelNames: []string{"mode"}})
			Expect(func() { counter.Add(1) }).To(PanicWith("label values must be provided by calling With"))
		})
	})

	Describe("NewGauge", func() {
		It("keeps the last value", func() {
			gauge := provider.NewGauge(metrics.GaugeOpts{Namespace: "go", Name: "goroutine_count"})
			gauge.Set(4)
			gauge.Set(7)

			Expect(flush()).To(Equal("aesutil.go.goroutine_count:7.000000|g\n"))
		})

		It("uses the statsd format", func() {
			gauge := provider.NewGauge(metrics.GaugeOpts{
				Namespace:    "blockcipher",
				Name:         "version",
				LabelNames:   []string{"version"},
				StatsdFormat: "%{#fqname}",
			})
			gauge.With("version", "1.0.0").Set(1)

			Expect(flush()).To(Equal("aesutil.blockcipher.version:1.000000|g\n"))
		})

		It("panics when labels are required but missing", func() {
			gauge := provider.NewGauge(metrics.GaugeOpts{Name: "version", LabelNames: []string{"version"}})
			Expect(func() { gauge.Set(1) }).To(PanicWith("label values must be provided by calling With"))
			Expect(func() { gauge.Add(1) }).To(PanicWith("label values must be provided by calling With"))
		})
	})

	Describe("NewHistogram", func() {
		It("writes every observation as a timing", func() {
			histogram := provider.NewHistogram(metrics.HistogramOpts{
				Namespace:  "blockcipher",
				Subsystem:  "modes",
				Name:       "run_duration",
				LabelNames: []string{"mode", "direction"},
			})
			h := histogram.With("mode", "ECB", "direction", "encrypt")
			h.Observe(0.5)
			h.Observe(1.5)

			Expect(flush()).To(Equal(
				"aesutil.blockcipher.modes.run_duration.ECB.encrypt:0.500000|ms\n" +
					"aesutil.blockcipher.modes.run_duration.ECB.encrypt:1.500000|ms\n",
			))
		})

		It("panics when labels are required but missing", func() {
			histogram := provider.NewHistogram(metrics.HistogramOpts{Name: "run_duration", LabelNames: []string{"mode"}})
			Expect(func() { histogram.Observe(1) }).To(PanicWith("label values must be provided by calling With"))
		})
	})
})
