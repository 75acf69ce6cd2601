/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package modes

import (
	"code.cloudfoundry.org/clock"
	"github.com/hyperledger/fabric-blockcipher/common/flogging"
	"github.com/hyperledger/fabric-blockcipher/common/metrics"
	"github.com/hyperledger/fabric-blockcipher/common/metrics/disabled"
)

var logger = flogging.MustGetLogger("blockcipher.modes")

// RunnerOptions configures a Runner. Zero values select one worker, the
// disabled metrics provider, the wall clock and the package logger.
type RunnerOptions struct {
	// Workers bounds the goroutines used for ECB. Chained modes always run
	// on the calling goroutine.
	Workers         int
	MetricsProvider metrics.Provider
	Clock           clock.Clock
	Logger          *flogging.FabricLogger
}

// A Runner executes mode configurations and records what it did.
type Runner struct {
	workers int
	metrics *Metrics
	clock   clock.Clock
	logger  *flogging.FabricLogger
}

func NewRunner(opts RunnerOptions) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.MetricsProvider == nil {
		opts.MetricsProvider = &disabled.Provider{}
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}

	return &Runner{
		workers: opts.Workers,
		metrics: NewMetrics(opts.MetricsProvider),
		clock:   opts.Clock,
		logger:  opts.Logger,
	}
}

// Run validates cfg, executes it and returns the output. The output is the
// same as the package level Run regardless of the worker count.
func (r *Runner) Run(cfg Config) ([]byte, error) {
	start := r.clock.Now()
	mode, dir := cfg.Mode.String(), cfg.Direction.String()

	res, err := execute(&cfg, r.workers)
	if err != nil {
		r.metrics.Runs.With("mode", mode, "direction", dir, "status", "failure").Add(1)
		r.logger.Debugf("%s %s run rejected: %s", mode, dir, err)
		return nil, err
	}

	r.metrics.Runs.With("mode", mode, "direction", dir, "status", "success").Add(1)
	r.metrics.Blocks.With("mode", mode, "direction", dir).Add(float64(res.calls))
	if res.dropped > 0 {
		r.metrics.TruncatedBytes.With("mode", mode, "direction", dir).Add(float64(res.dropped))
		r.logger.Debugf("%s %s dropped %d trailing bytes", mode, dir, res.dropped)
	}
	r.metrics.RunDuration.With("mode", mode, "direction", dir).Observe(r.clock.Since(start).Seconds())

	r.logger.Debugw("run complete", "mode", mode, "direction", dir, "input", len(cfg.Input), "output", len(res.output), "calls", res.calls)
	return res.output, nil
}
