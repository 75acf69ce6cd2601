/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package goruntime publishes Go runtime statistics through a metrics
// provider. The prometheus provider has its own collectors; this package
// serves providers that only push, such as statsd.
package goruntime

import (
	"runtime"
	"time"

	"github.com/hyperledger/fabric-blockcipher/common/metrics"
)

type Collector struct {
	GoRoutines   metrics.Gauge
	HeapAlloc    metrics.Gauge
	TotalAlloc   metrics.Gauge
	HeapObjects  metrics.Gauge
	Mallocs      metrics.Gauge
	Frees        metrics.Gauge
	NextGC       metrics.Gauge
	PauseTotalNs metrics.Gauge
	NumGC        metrics.Gauge
}

func NewCollector(p metrics.Provider) *Collector {
	return &Collector{
		GoRoutines:   p.NewGauge(goRoutinesGaugeOpts),
		HeapAlloc:    p.NewGauge(heapAllocGaugeOpts),
		TotalAlloc:   p.NewGauge(totalAllocGaugeOpts),
		HeapObjects:  p.NewGauge(heapObjectsGaugeOpts),
		Mallocs:      p.NewGauge(mallocsGaugeOpts),
		Frees:        p.NewGauge(freesGaugeOpts),
		NextGC:       p.NewGauge(nextGCGaugeOpts),
		PauseTotalNs: p.NewGauge(pauseTotalNsGaugeOpts),
		NumGC:        p.NewGauge(numGCGaugeOpts),
	}
}

// CollectAndPublish publishes a fresh set of statistics on every tick until
// ticks is closed.
func (c *Collector) CollectAndPublish(ticks <-chan time.Time) {
	for range ticks {
		c.Publish(CollectStats())
	}
}

func (c *Collector) Publish(stats Stats) {
	c.GoRoutines.Set(float64(stats.GoRoutines))
	c.HeapAlloc.Set(float64(stats.MemStats.HeapAlloc))
	c.TotalAlloc.Set(float64(stats.MemStats.TotalAlloc))
	c.HeapObjects.Set(float64(stats.MemStats.HeapObjects))
	c.Mallocs.Set(float64(stats.MemStats.Mallocs))
	c.Frees.Set(float64(stats.MemStats.Frees))
	c.NextGC.Set(float64(stats.MemStats.NextGC))
	c.PauseTotalNs.Set(float64(stats.MemStats.PauseTotalNs))
	c.NumGC.Set(float64(stats.MemStats.NumGC))
}

type Stats struct {
	GoRoutines int
	MemStats   runtime.MemStats
}

func CollectStats() Stats {
	stats := Stats{GoRoutines: runtime.NumGoroutine()}
	runtime.ReadMemStats(&stats.MemStats)
	return stats
}
