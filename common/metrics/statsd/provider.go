/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statsd

import (
	"github.com/go-kit/kit/metrics/statsd"
	"github.com/hyperledger/fabric-blockcipher/common/metrics"
	"github.com/hyperledger/fabric-blockcipher/common/metrics/internal/namer"
)

// Provider creates meters backed by a go-kit statsd client. Label values are
// folded into the bucket name, so meters declared with labels must be
// resolved with With before they are updated.
type Provider struct {
	Statsd *statsd.Statsd
}

func (p *Provider) NewCounter(o metrics.CounterOpts) metrics.Counter {
	c := &Counter{
		statsd: p.Statsd,
		namer:  namer.NewCounterNamer(o),
	}
	if len(o.LabelNames) == 0 {
		c.Counter = p.Statsd.NewCounter(c.namer.Format(), 1)
	}
	return c
}

func (p *Provider) NewGauge(o metrics.GaugeOpts) metrics.Gauge {
	g := &Gauge{
		statsd: p.Statsd,
		namer:  namer.NewGaugeNamer(o),
	}
	if len(o.LabelNames) == 0 {
		g.Gauge = p.Statsd.NewGauge(g.namer.Format())
	}
	return g
}

// NewHistogram maps histograms onto statsd timings; bucket boundaries are
// left to the statsd server.
func (p *Provider) NewHistogram(o metrics.HistogramOpts) metrics.Histogram {
	h := &Histogram{
		statsd: p.Statsd,
		namer:  namer.NewHistogramNamer(o),
	}
	if len(o.LabelNames) == 0 {
		h.Timing = p.Statsd.NewTiming(h.namer.Format(), 1)
	}
	return h
}

type Counter struct {
	Counter *statsd.Counter
	namer   *namer.Namer
	statsd  *statsd.Statsd
}

func (c *Counter) Add(delta float64) {
	if c.Counter == nil {
		panic("label values must be provided by calling With")
	}
	c.Counter.Add(delta)
}

func (c *Counter) With(labelValues ...string) metrics.Counter {
	return &Counter{Counter: c.statsd.NewCounter(c.namer.Format(labelValues...), 1)}
}

type Gauge struct {
	Gauge  *statsd.Gauge
	namer  *namer.Namer
	statsd *statsd.Statsd
}

func (g *Gauge) Add(delta float64) {
	if g.Gauge == nil {
		panic("label values must be provided by calling With")
	}
	g.Gauge.Add(delta)
}

func (g *Gauge) Set(value float64) {
	if g.Gauge == nil {
		panic("label values must be provided by calling With")
	}
	g.Gauge.Set(value)
}

func (g *Gauge) With(labelValues ...string) metrics.Gauge {
	return &Gauge{Gauge: g.statsd.NewGauge(g.namer.Format(labelValues...))}
}

type Histogram struct {
	Timing *statsd.Timing
	namer  *namer.Namer
	statsd *statsd.Statsd
}

func (h *Histogram) Observe(value float64) {
	if h.Timing == nil {
		panic("label values must be provided by calling With")
	}
	h.Timing.Observe(value)
}

func (h *Histogram) With(labelValues ...string) metrics.Histogram {
	return &Histogram{Timing: h.statsd.NewTiming(h.namer.Format(labelValues...), 1)}
}
