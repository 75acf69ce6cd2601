/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package config loads the aesutil configuration from aesutil.yaml and
// AESUTIL_ prefixed environment variables.
package config

import (
	"time"

	"github.com/hyperledger/fabric-blockcipher/bccsp/modes"
	"github.com/hyperledger/fabric-blockcipher/internal/hexcodec"
	"github.com/pkg/errors"
)

// Prefix is the configuration file stem and environment variable prefix.
const Prefix = "aesutil"

// TopLevel directly corresponds to the aesutil.yaml file.
type TopLevel struct {
	Logging    Logging
	Cipher     Cipher
	Operations Operations
}

// Logging configures the flogging system.
type Logging struct {
	Spec   string
	Format string
}

// Cipher describes a single run. Key, IV and Input are hex strings; each
// may instead be given as {File: path}. Quote hex values in YAML so that
// all digit values are not read as numbers.
type Cipher struct {
	Mode        string
	Direction   string
	SegmentSize int
	Key         string
	IV          string
	Input       string
	Workers     int
}

// Operations configures the operations HTTP server.
type Operations struct {
	ListenAddress   string
	ShutdownTimeout time.Duration
	Metrics         Metrics
}

// Metrics selects the metrics provider: "disabled", "prometheus" or
// "statsd".
type Metrics struct {
	Provider string
	Statsd   Statsd
}

// Statsd configures where statsd metrics are pushed.
type Statsd struct {
	Network       string
	Address       string
	WriteInterval time.Duration
	Prefix        string
}

// Defaults carries the default configuration values.
var Defaults = TopLevel{
	Logging: Logging{
		Spec: "INFO",
	},
	Cipher: Cipher{
		Mode:      modes.ECB.String(),
		Direction: modes.Encrypt.String(),
		Workers:   1,
	},
	Operations: Operations{
		ListenAddress:   "127.0.0.1:9443",
		ShutdownTimeout: 10 * time.Second,
		Metrics: Metrics{
			Provider: "disabled",
			Statsd: Statsd{
				Network:       "udp",
				Address:       "127.0.0.1:8125",
				WriteInterval: 10 * time.Second,
			},
		},
	},
}

// Load reads file, or the first aesutil.yaml on the config path when file
// is empty, applies environment overrides, fills in defaults and validates
// the result.
func Load(file string) (*TopLevel, error) {
	p := NewParser(Prefix)
	if file != "" {
		p.SetConfigFile(file)
	}
	if err := p.ReadInConfig(); err != nil {
		return nil, errors.WithMessage(err, "failed to read configuration")
	}

	var uconf TopLevel
	if err := p.EnhancedExactUnmarshal(&uconf); err != nil {
		return nil, errors.WithMessage(err, "failed to decode configuration")
	}

	uconf.completeInitialization()
	if err := uconf.validate(); err != nil {
		return nil, err
	}

	return &uconf, nil
}

func (c *TopLevel) completeInitialization() {
	for {
		switch {
		case c.Logging.Spec == "":
			logger.Debugf("Logging.Spec unset, setting to %s", Defaults.Logging.Spec)
			c.Logging.Spec = Defaults.Logging.Spec
		case c.Cipher.Mode == "":
			logger.Debugf("Cipher.Mode unset, setting to %s", Defaults.Cipher.Mode)
			c.Cipher.Mode = Defaults.Cipher.Mode
		case c.Cipher.Direction == "":
			logger.Debugf("Cipher.Direction unset, setting to %s", Defaults.Cipher.Direction)
			c.Cipher.Direction = Defaults.Cipher.Direction
		case c.Cipher.Workers == 0:
			logger.Debugf("Cipher.Workers unset, setting to %d", Defaults.Cipher.Workers)
			c.Cipher.Workers = Defaults.Cipher.Workers
		case c.Operations.ListenAddress == "":
			logger.Debugf("Operations.ListenAddress unset, setting to %s", Defaults.Operations.ListenAddress)
			c.Operations.ListenAddress = Defaults.Operations.ListenAddress
		case c.Operations.ShutdownTimeout == 0:
			logger.Debugf("Operations.ShutdownTimeout unset, setting to %s", Defaults.Operations.ShutdownTimeout)
			c.Operations.ShutdownTimeout = Defaults.Operations.ShutdownTimeout
		case c.Operations.Metrics.Provider == "":
			logger.Debugf("Operations.Metrics.Provider unset, setting to %s", Defaults.Operations.Metrics.Provider)
			c.Operations.Metrics.Provider = Defaults.Operations.Metrics.Provider
		case c.Operations.Metrics.Statsd.Network == "":
			logger.Debugf("Operations.Metrics.Statsd.Network unset, setting to %s", Defaults.Operations.Metrics.Statsd.Network)
			c.Operations.Metrics.Statsd.Network = Defaults.Operations.Metrics.Statsd.Network
		case c.Operations.Metrics.Statsd.Address == "":
			logger.Debugf("Operations.Metrics.Statsd.Address unset, setting to %s", Defaults.Operations.Metrics.Statsd.Address)
			c.Operations.Metrics.Statsd.Address = Defaults.Operations.Metrics.Statsd.Address
		case c.Operations.Metrics.Statsd.WriteInterval == 0:
			logger.Debugf("Operations.Metrics.Statsd.WriteInterval unset, setting to %s", Defaults.Operations.Metrics.Statsd.WriteInterval)
			c.Operations.Metrics.Statsd.WriteInterval = Defaults.Operations.Metrics.Statsd.WriteInterval
		default:
			return
		}
	}
}

func (c *TopLevel) validate() error {
	if c.Cipher.Workers < 0 {
		return errors.Errorf("Cipher.Workers must not be negative, got %d", c.Cipher.Workers)
	}
	switch c.Operations.Metrics.Provider {
	case "disabled", "prometheus", "statsd":
	default:
		return errors.Errorf("unknown metrics provider %q", c.Operations.Metrics.Provider)
	}
	return nil
}

// ModesConfig parses the cipher settings into a modes configuration. The
// result has not been validated against the mode.
func (c *Cipher) ModesConfig() (modes.Config, error) {
	mode, err := modes.ParseMode(c.Mode)
	if err != nil {
		return modes.Config{}, errors.WithMessage(err, "Cipher.Mode")
	}
	dir, err := modes.ParseDirection(c.Direction)
	if err != nil {
		return modes.Config{}, errors.WithMessage(err, "Cipher.Direction")
	}

	cfg := modes.Config{Mode: mode, Direction: dir, SegmentSize: c.SegmentSize}
	fields := []struct {
		name string
		in   string
		dst  *[]byte
	}{
		{name: "Cipher.Key", in: c.Key, dst: &cfg.Key},
		{name: "Cipher.IV", in: c.IV, dst: &cfg.IV},
		{name: "Cipher.Input", in: c.Input, dst: &cfg.Input},
	}
	for _, f := range fields {
		b, err := hexcodec.Parse(f.in)
		if err != nil {
			return modes.Config{}, errors.WithMessage(err, f.name)
		}
		*f.dst = b
	}

	return cfg, nil
}
