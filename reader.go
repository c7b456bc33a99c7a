// Package main drives an AVC audit session: it attaches the kernel probes,
// pumps raw decision records through the capture core, and prints the
// usage report when monitoring stops.
//
// The platform-independent interfaces below keep the session driver
// compilable on non-Linux systems and let tests substitute event sources.
package main

import "time"

// PerfReader is a platform-agnostic interface for reading raw decision
// records. On Linux it is backed by eBPF's perf buffer.
type PerfReader interface {
	// Read returns the next record, blocking until one arrives or the
	// deadline set via SetDeadline passes.
	Read() (Record, error)
	// SetDeadline bounds the next Read; an expired deadline makes Read
	// return os.ErrDeadlineExceeded.
	SetDeadline(t time.Time)
	// Close cleans up any resources
	Close() error
}

// Record represents one raw monitoring record. It mirrors the essential
// fields from eBPF's perf.Record but remains platform-independent.
type Record struct {
	// RawSample contains the raw event data
	RawSample []byte
	// LostSamples indicates how many samples were dropped by the kernel
	LostSamples uint64
}
