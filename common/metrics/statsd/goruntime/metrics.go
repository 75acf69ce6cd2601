/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package goruntime

import "github.com/hyperledger/fabric-blockcipher/common/metrics"

var (
	goRoutinesGaugeOpts = metrics.GaugeOpts{
		Namespace: "go",
		Name:      "goroutine_count",
		Help:      "Current number of goroutines.",
	}
	heapAllocGaugeOpts = metrics.GaugeOpts{
		Namespace: "go",
		Subsystem: "mem",
		Name:      "heap_alloc_bytes",
		Help:      "Bytes of allocated heap objects.",
	}
	totalAllocGaugeOpts = metrics.GaugeOpts{
		Namespace: "go",
		Subsystem: "mem",
		Name:      "heap_total_alloc_bytes",
		Help:      "Cumulative bytes allocated for heap objects.",
	}
	heapObjectsGaugeOpts = metrics.GaugeOpts{
		Namespace: "go",
		Subsystem: "mem",
		Name:      "heap_objects",
		Help:      "Number of allocated heap objects.",
	}
	mallocsGaugeOpts = metrics.GaugeOpts{
		Namespace: "go",
		Subsystem: "mem",
		Name:      "heap_malloc_count",
		Help:      "Cumulative count of heap objects allocated.",
	}
	freesGaugeOpts = metrics.GaugeOpts{
		Namespace: "go",
		Subsystem: "mem",
		Name:      "heap_free_count",
		Help:      "Cumulative count of heap objects freed.",
	}
	nextGCGaugeOpts = metrics.GaugeOpts{
		Namespace: "go",
		Subsystem: "gc",
		Name:      "next_bytes",
		Help:      "Target heap size of the next GC cycle.",
	}
	pauseTotalNsGaugeOpts = metrics.GaugeOpts{
		Namespace: "go",
		Subsystem: "gc",
		Name:      "pause_total_ns",
		Help:      "Cumulative nanoseconds spent in GC stop-the-world pauses.",
	}
	numGCGaugeOpts = metrics.GaugeOpts{
		Namespace: "go",
		Subsystem: "gc",
		Name:      "completed_count",
		Help:      "Number of completed GC cycles.",
	}
)
