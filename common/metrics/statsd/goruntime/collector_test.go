/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package goruntime_test

import (
	"runtime"
	"time"

	"github.com/hyperledger/fabric-blockcipher/common/metrics/metricsfakes"
	"github.com/hyperledger/fabric-blockcipher/common/metrics/statsd/goruntime"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Collector", func() {
	var (
		provider  *metricsfakes.Provider
		collector *goruntime.Collector
	)

	BeforeEach(func() {
		provider = metricsfakes.NewProvider()
		collector = goruntime.NewCollector(provider)
	})

	It("creates one gauge per statistic", func() {
		Expect(provider.Gauges).To(HaveLen(9))
		Expect(collector.GoRoutines).To(BeIdenticalTo(provider.Gauges["goroutine_count"]))
		Expect(collector.NumGC).To(BeIdenticalTo(provider.Gauges["completed_count"]))
	})

	It("acquires runtime statistics", func() {
		stats := goruntime.CollectStats()
		Expect(stats.GoRoutines).To(BeNumerically(">", 0))
		Expect(stats.MemStats.HeapAlloc).To(BeNumerically(">", 0))
	})

	It("publishes statistics", func() {
		stats := goruntime.Stats{GoRoutines: 3}
		stats.MemStats = runtime.MemStats{HeapAlloc: 1024, NumGC: 9, PauseTotalNs: 77}

		collector.Publish(stats)

		Expect(provider.Gauges["goroutine_count"].Value()).To(Equal(3.0))
		Expect(provider.Gauges["heap_alloc_bytes"].Value()).To(Equal(1024.0))
		Expect(provider.Gauges["completed_count"].Value()).To(Equal(9.0))
		Expect(provider.Gauges["pause_total_ns"].Value()).To(Equal(77.0))
	})

	It("collects and publishes on every tick", func() {
		ticks := make(chan time.Time)
		done := make(chan struct{})
		go func() {
			collector.CollectAndPublish(ticks)
			close(done)
		}()

		ticks <- time.Now()
		close(ticks)
		Eventually(done).Should(BeClosed())
		Expect(provider.Gauges["goroutine_count"].Value()).To(BeNumerically(">", 0))
	})
})
