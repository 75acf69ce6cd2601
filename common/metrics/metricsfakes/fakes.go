/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package metricsfakes holds recording meters for tests. Meters returned
// from With record into their parent, keyed by the label values supplied.
package metricsfakes

import (
	"strings"
	"sync"

	"github.com/hyperledger/fabric-blockcipher/common/metrics"
)

type Counter struct {
	mutex      sync.Mutex
	withArgs   [][]string
	addArgs    []float64
	labelTotal map[string]float64
}

func (fake *Counter) With(labelValues ...string) metrics.Counter {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	fake.withArgs = append(fake.withArgs, append([]string(nil), labelValues...))
	return &labeledCounter{parent: fake, labels: append([]string(nil), labelValues...)}
}

func (fake *Counter) Add(delta float64) {
	fake.record(nil, delta)
}

func (fake *Counter) record(labels []string, delta float64) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	if fake.labelTotal == nil {
		fake.labelTotal = map[string]float64{}
	}
	fake.addArgs = append(fake.addArgs, delta)
	fake.labelTotal[key(labels)] += delta
}

func (fake *Counter) WithCallCount() int {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return len(fake.withArgs)
}

func (fake *Counter) WithArgsForCall(i int) []string {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return fake.withArgs[i]
}

func (fake *Counter) AddCallCount() int {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return len(fake.addArgs)
}

func (fake *Counter) AddArgsForCall(i int) float64 {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return fake.addArgs[i]
}

// Total returns the sum of all Add calls made with the given label values.
func (fake *Counter) Total(labelValues ...string) float64 {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return fake.labelTotal[key(labelValues)]
}

type labeledCounter struct {
	parent *Counter
	labels []string
}

func (l *labeledCounter) With(labelValues ...string) metrics.Counter {
	return &labeledCounter{parent: l.parent, labels: append(append([]string(nil), l.labels...), labelValues...)}
}

func (l *labeledCounter) Add(delta float64) { l.parent.record(l.labels, delta) }

type Histogram struct {
	mutex        sync.Mutex
	withArgs     [][]string
	observeArgs  []float64
	observeLabel [][]string
}

func (fake *Histogram) With(labelValues ...string) metrics.Histogram {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	fake.withArgs = append(fake.withArgs, append([]string(nil), labelValues...))
	return &labeledHistogram{parent: fake, labels: append([]string(nil), labelValues...)}
}

func (fake *Histogram) Observe(value float64) {
	fake.record(nil, value)
}

func (fake *Histogram) record(labels []string, value float64) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	fake.observeArgs = append(fake.observeArgs, value)
	fake.observeLabel = append(fake.observeLabel, labels)
}

func (fake *Histogram) ObserveCallCount() int {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return len(fake.observeArgs)
}

// ObserveArgsForCall returns the observed value and the label values it was
// recorded with.
func (fake *Histogram) ObserveArgsForCall(i int) (float64, []string) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return fake.observeArgs[i], fake.observeLabel[i]
}

type labeledHistogram struct {
	parent *Histogram
	labels []string
}

func (l *labeledHistogram) With(labelValues ...string) metrics.Histogram {
	return &labeledHistogram{parent: l.parent, labels: append(append([]string(nil), l.labels...), labelValues...)}
}

func (l *labeledHistogram) Observe(value float64) { l.parent.record(l.labels, value) }

type Gauge struct {
	mutex sync.Mutex
	value float64
}

func (fake *Gauge) With(...string) metrics.Gauge { return fake }

func (fake *Gauge) Add(delta float64) {
	fake.mutex.Lock()
	fake.value += delta
	fake.mutex.Unlock()
}

func (fake *Gauge) Set(value float64) {
	fake.mutex.Lock()
	fake.value = value
	fake.mutex.Unlock()
}

func (fake *Gauge) Value() float64 {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return fake.value
}

// Provider hands out fakes keyed by metric name so tests can look them up
// after the code under test has created them.
type Provider struct {
	mutex      sync.Mutex
	Counters   map[string]*Counter
	Gauges     map[string]*Gauge
	Histograms map[string]*Histogram
}

func NewProvider() *Provider {
	return &Provider{
		Counters:   map[string]*Counter{},
		Gauges:     map[string]*Gauge{},
		Histograms: map[string]*Histogram{},
	}
}

func (p *Provider) NewCounter(o metrics.CounterOpts) metrics.Counter {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	c := &Counter{}
	p.Counters[o.Name] = c
	return c
}

func (p *Provider) NewGauge(o metrics.GaugeOpts) metrics.Gauge {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	g := &Gauge{}
	p.Gauges[o.Name] = g
	return g
}

func (p *Provider) NewHistogram(o metrics.HistogramOpts) metrics.Histogram {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	h := &Histogram{}
	p.Histograms[o.Name] = h
	return h
}

func key(labels []string) string { return strings.Join(labels, "|") }
