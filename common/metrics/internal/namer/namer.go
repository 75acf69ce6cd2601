/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package namer builds statsd bucket names from metric options and label
// values.
package namer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hyperledger/fabric-blockcipher/common/metrics"
)

var (
	referenceRegexp = regexp.MustCompile(`%{([#?[:alnum:]_]+)}`)
	// statsd reserves '.', '|' and ':'; whitespace is never valid.
	labelValueRegexp = regexp.MustCompile(`[.|:\s]`)
)

// Namer renders the bucket name of a single metric.
type Namer struct {
	namespace  string
	subsystem  string
	name       string
	format     string
	labelNames []string
}

func NewCounterNamer(o metrics.CounterOpts) *Namer {
	return newNamer(o.Namespace, o.Subsystem, o.Name, o.StatsdFormat, o.LabelNames)
}

func NewGaugeNamer(o metrics.GaugeOpts) *Namer {
	return newNamer(o.Namespace, o.Subsystem, o.Name, o.StatsdFormat, o.LabelNames)
}

func NewHistogramNamer(o metrics.HistogramOpts) *Namer {
	return newNamer(o.Namespace, o.Subsystem, o.Name, o.StatsdFormat, o.LabelNames)
}

func newNamer(namespace, subsystem, name, format string, labelNames []string) *Namer {
	if format == "" {
		refs := []string{"%{#fqname}"}
		for _, l := range labelNames {
			refs = append(refs, "%{"+l+"}")
		}
		format = strings.Join(refs, ".")
	}
	return &Namer{
		namespace:  namespace,
		subsystem:  subsystem,
		name:       name,
		format:     format,
		labelNames: labelNames,
	}
}

// FullyQualifiedName joins the non-empty name components with dots.
func (n *Namer) FullyQualifiedName() string {
	var parts []string
	for _, p := range []string{n.namespace, n.subsystem, n.name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

// Format renders the bucket name for the given label name/value pairs. It
// panics on a label that was not declared or on a reference to a label that
// has no value.
func (n *Namer) Format(labelValues ...string) string {
	labels := n.labels(labelValues)

	return referenceRegexp.ReplaceAllStringFunc(n.format, func(ref string) string {
		key := ref[2 : len(ref)-1]
		switch key {
		case "#namespace":
			return n.namespace
		case "#subsystem":
			return n.subsystem
		case "#name":
			return n.name
		case "#fqname":
			return n.FullyQualifiedName()
		}
		value, ok := labels[key]
		if !ok {
			panic(fmt.Sprintf("invalid label in name format: %s", key))
		}
		return labelValueRegexp.ReplaceAllString(value, "_")
	})
}

// labels pairs up name/value arguments. A trailing name without a value
// maps to "unknown".
func (n *Namer) labels(labelValues []string) map[string]string {
	labels := map[string]string{}
	for i := 0; i < len(labelValues); i += 2 {
		key := labelValues[i]
		if !n.declared(key) {
			panic("invalid label name: " + key)
		}
		value := "unknown"
		if i+1 < len(labelValues) {
			value = labelValues[i+1]
		}
		labels[key] = value
	}
	return labels
}

func (n *Namer) declared(label string) bool {
	for _, l := range n.labelNames {
		if l == label {
			return true
		}
	}
	return false
}
