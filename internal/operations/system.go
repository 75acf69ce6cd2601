/*
Copyright IBM Corp All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package operations serves the aesutil operations endpoint: a transform
// API backed by a modes.Runner, plus metrics, logging spec, health and
// version handlers.
package operations

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	kitstatsd "github.com/go-kit/kit/metrics/statsd"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/hyperledger/fabric-blockcipher/bccsp/modes"
	"github.com/hyperledger/fabric-blockcipher/common/flogging"
	"github.com/hyperledger/fabric-blockcipher/common/metadata"
	"github.com/hyperledger/fabric-blockcipher/common/metrics"
	"github.com/hyperledger/fabric-blockcipher/common/metrics/disabled"
	"github.com/hyperledger/fabric-blockcipher/common/metrics/prometheus"
	"github.com/hyperledger/fabric-blockcipher/common/metrics/statsd"
	"github.com/hyperledger/fabric-blockcipher/common/metrics/statsd/goruntime"
	"github.com/hyperledger/fabric-lib-go/healthz"
	"github.com/pkg/errors"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsOptions struct {
	// Provider is "prometheus", "statsd" or "disabled".
	Provider string
	Statsd   Statsd
}

type Statsd struct {
	Network       string
	Address       string
	WriteInterval time.Duration
	Prefix        string
}

type Options struct {
	ListenAddress   string
	ShutdownTimeout time.Duration
	Metrics         MetricsOptions
	// Workers bounds the goroutines used by ECB transforms.
	Workers int
	Logger  *flogging.FabricLogger
	Version string
}

type System struct {
	metrics.Provider

	logger        *flogging.FabricLogger
	options       Options
	router        *mux.Router
	healthHandler *healthz.HealthHandler
	registry      *prom.Registry
	versionGauge  metrics.Gauge
	runner        *modes.Runner

	statsd          *kitstatsd.Statsd
	collectorTicker *time.Ticker
	sendTicker      *time.Ticker
	stopStatsd      context.CancelFunc

	mutex    sync.Mutex
	server   *http.Server
	listener net.Listener
}

func NewSystem(o Options) *System {
	logger := o.Logger
	if logger == nil {
		logger = flogging.MustGetLogger("blockcipher.operations")
	}
	if o.Version == "" {
		o.Version = metadata.Version
	}
	if o.ShutdownTimeout == 0 {
		o.ShutdownTimeout = 10 * time.Second
	}

	system := &System{
		logger:  logger,
		options: o,
		router:  mux.NewRouter(),
	}

	system.initializeMetricsProvider()
	system.initializeHealthCheckHandler()
	system.initializeLoggingHandler()
	system.initializeVersionInfoHandler()
	system.initializeTransformHandler()

	return system
}

// Runner returns the runner used by the transform endpoint.
func (s *System) Runner() *modes.Runner {
	return s.runner
}

func (s *System) RegisterChecker(component string, checker healthz.HealthChecker) error {
	return s.healthHandler.RegisterChecker(component, checker)
}

// Handler returns the complete routing tree, wrapped in panic recovery.
func (s *System) Handler() http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(&recoveryLogger{logger: s.logger}),
		handlers.PrintRecoveryStack(true),
	)(s.router)
}

func (s *System) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.listener != nil {
		return errors.New("operations system already started")
	}

	listener, err := net.Listen("tcp", s.options.ListenAddress)
	if err != nil {
		return err
	}

	if err := s.startMetricTickers(); err != nil {
		listener.Close()
		return err
	}
	s.versionGauge.With("version", s.options.Version).Set(1)

	s.listener = listener
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.serve(s.server, listener)
	s.logger.Infof("Operations endpoint listening on %s", listener.Addr())

	return nil
}

func (s *System) serve(server *http.Server, listener net.Listener) {
	if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
		s.logger.Errorf("Operations endpoint stopped: %s", err)
	}
}

func (s *System) Stop() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.server == nil {
		return nil
	}

	if s.stopStatsd != nil {
		s.stopStatsd()
		s.collectorTicker.Stop()
		s.sendTicker.Stop()
		s.stopStatsd = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.server = nil
	s.listener = nil
	return err
}

// Addr returns the address the server is listening on, or the configured
// listen address before Start.
func (s *System) Addr() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.options.ListenAddress
}

func (s *System) initializeMetricsProvider() {
	providerType := s.options.Metrics.Provider
	switch providerType {
	case "prometheus":
		s.registry = prom.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		s.Provider = &prometheus.Provider{Registerer: s.registry}
		s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	case "statsd":
		prefix := s.options.Metrics.Statsd.Prefix
		if prefix != "" && !strings.HasSuffix(prefix, ".") {
			prefix = prefix + "."
		}
		s.statsd = kitstatsd.New(prefix, s)
		s.Provider = &statsd.Provider{Statsd: s.statsd}

	default:
		if providerType != "disabled" && providerType != "" {
			s.logger.Warnf("Unknown provider type: %s; metrics disabled", providerType)
		}
		s.Provider = &disabled.Provider{}
	}

	s.versionGauge = s.Provider.NewGauge(versionGaugeOpts)
	s.runner = modes.NewRunner(modes.RunnerOptions{
		Workers:         s.options.Workers,
		MetricsProvider: s.Provider,
	})
}

// startMetricTickers begins pushing statsd metrics and runtime statistics.
// It is a no-op for the other providers.
func (s *System) startMetricTickers() error {
	if s.statsd == nil {
		return nil
	}

	opts := s.options.Metrics.Statsd
	if opts.WriteInterval <= 0 {
		return errors.Errorf("invalid statsd write interval %s", opts.WriteInterval)
	}

	if opts.Network == "udp" || opts.Network == "tcp" {
		if _, _, err := net.SplitHostPort(opts.Address); err != nil {
			return errors.Wrapf(err, "invalid statsd address %q", opts.Address)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopStatsd = cancel
	s.collectorTicker = time.NewTicker(opts.WriteInterval / 2)
	s.sendTicker = time.NewTicker(opts.WriteInterval)

	go goruntime.NewCollector(s.Provider).CollectAndPublish(s.collectorTicker.C)
	go s.statsd.SendLoop(ctx, s.sendTicker.C, opts.Network, opts.Address)

	s.logger.Infof("Sending statsd metrics to %s://%s every %s", opts.Network, opts.Address, opts.WriteInterval)
	return nil
}

// Log lets the system act as the go-kit logger of the statsd client.
func (s *System) Log(keyvals ...interface{}) error {
	s.logger.Warn(keyvals...)
	return nil
}

func (s *System) initializeHealthCheckHandler() {
	s.healthHandler = healthz.NewHealthHandler()
	s.router.Handle("/healthz", s.healthHandler)
	if err := s.healthHandler.RegisterChecker("rijndael", &SelfTest{}); err != nil {
		s.logger.Panicf("Failed to register self-test: %s", err)
	}
}

func (s *System) initializeLoggingHandler() {
	s.router.Handle("/logspec", &SpecHandler{Logging: flogging.Global, Logger: s.logger}).Methods(http.MethodGet, http.MethodPut)
}

func (s *System) initializeVersionInfoHandler() {
	versionInfo := &VersionInfoHandler{
		Logger: s.logger,
		VersionInfo: &VersionInfo{
			Program:   metadata.ProgramName,
			CommitSHA: metadata.CommitSHA,
			Version:   s.options.Version,
		},
	}
	s.router.Handle("/version", versionInfo)
}

func (s *System) initializeTransformHandler() {
	transform := &TransformHandler{Runner: s.runner, Logger: s.logger}
	s.router.Handle("/v1/transform", handlers.ContentTypeHandler(transform, "application/json")).Methods(http.MethodPost)
}

type recoveryLogger struct {
	logger *flogging.FabricLogger
}

func (r *recoveryLogger) Println(args ...interface{}) {
	r.logger.Error(args...)
}
