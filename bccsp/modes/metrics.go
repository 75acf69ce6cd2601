/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package modes

import "github.com/hyperledger/fabric-blockcipher/common/metrics"

var (
	runsCounterOpts = metrics.CounterOpts{
		Namespace:  "blockcipher",
		Subsystem:  "modes",
		Name:       "runs",
		Help:       "The number of mode runs, by outcome.",
		LabelNames: []string{"mode", "direction", "status"},
	}

	blocksCounterOpts = metrics.CounterOpts{
		Namespace:  "blockcipher",
		Subsystem:  "modes",
		Name:       "blocks",
		Help:       "The number of block cipher invocations.",
		LabelNames: []string{"mode", "direction"},
	}

	truncatedBytesCounterOpts = metrics.CounterOpts{
		Namespace:  "blockcipher",
		Subsystem:  "modes",
		Name:       "truncated_bytes",
		Help:       "The number of trailing input bytes dropped because they did not fill a unit.",
		LabelNames: []string{"mode", "direction"},
	}

	runDurationHistogramOpts = metrics.HistogramOpts{
		Namespace:  "blockcipher",
		Subsystem:  "modes",
		Name:       "run_duration",
		Help:       "The time taken to run a mode over a message, in seconds.",
		LabelNames: []string{"mode", "direction"},
		Buckets:    []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}
)

// Metrics holds the meters updated by a Runner.
type Metrics struct {
	Runs           metrics.Counter
	Blocks         metrics.Counter
	TruncatedBytes metrics.Counter
	RunDuration    metrics.Histogram
}

func NewMetrics(p metrics.Provider) *Metrics {
	return &Metrics{
		Runs:           p.NewCounter(runsCounterOpts),
		Blocks:         p.NewCounter(blocksCounterOpts),
		TruncatedBytes: p.NewCounter(truncatedBytesCounterOpts),
		RunDuration:    p.NewHistogram(runDurationHistogramOpts),
	}
}
