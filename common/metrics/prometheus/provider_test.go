/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package prometheus_test

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/hyperledger/fabric-blockcipher/common/metrics"
	"github.com/hyperledger/fabric-blockcipher/common/metrics/prometheus"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ = Describe("Provider", func() {
	var (
		registry *prom.Registry
		provider *prometheus.Provider
		server   *httptest.Server
	)

	BeforeEach(func() {
		registry = prom.NewRegistry()
		provider = &prometheus.Provider{Registerer: registry}
		server = httptest.NewServer(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	})

	AfterEach(func() {
		server.Close()
	})

	scrape := func() string {
		resp, err := http.Get(server.URL)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		return string(body)
	}

	It("exposes counters with labels", func() {
		counter := provider.NewCounter(metrics.CounterOpts{
			Namespace:  "blockcipher",
			Subsystem:  "modes",
			Name:       "blocks",
			Help:       "blocks processed",
			LabelNames: []string{"mode", "direction"},
		})
		counter.With("mode", "CBC", "direction", "encrypt").Add(4)
		counter.With("mode", "CBC", "direction", "encrypt").Add(1)

		body := scrape()
		Expect(body).To(ContainSubstring("# HELP blockcipher_modes_blocks blocks processed"))
		Expect(body).To(ContainSubstring(`blockcipher_modes_blocks{direction="encrypt",mode="CBC"} 5`))
	})

	It("exposes gauges", func() {
		gauge := provider.NewGauge(metrics.GaugeOpts{Namespace: "blockcipher", Name: "version", LabelNames: []string{"version"}})
		gauge.With("version", "1.0.0").Set(1)

		Expect(scrape()).To(ContainSubstring(`blockcipher_version{version="1.0.0"} 1`))
	})

	It("exposes histograms with the requested buckets", func() {
		histogram := provider.NewHistogram(metrics.HistogramOpts{
			Namespace:  "blockcipher",
			Subsystem:  "modes",
			Name:       "run_duration",
			LabelNames: []string{"mode"},
			Buckets:    []float64{0.5, 1},
		})
		histogram.With("mode", "OFB").Observe(0.75)

		body := scrape()
		Expect(body).To(ContainSubstring(`blockcipher_modes_run_duration_bucket{mode="OFB",le="0.5"} 0`))
		Expect(body).To(ContainSubstring(`blockcipher_modes_run_duration_bucket{mode="OFB",le="1"} 1`))
		Expect(body).To(ContainSubstring(`blockcipher_modes_run_duration_count{mode="OFB"} 1`))
	})

	It("panics when a metric is registered twice", func() {
		opts := metrics.CounterOpts{Name: "runs"}
		provider.NewCounter(opts)
		Expect(func() { provider.NewCounter(opts) }).To(Panic())
	})
})
