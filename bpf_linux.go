//go:build linux
// +build linux

// This file contains the Linux-specific eBPF implementation of the AVC
// capture source. It provides the concrete implementation of the
// platform-agnostic interfaces defined in reader.go.

package main

//go:generate go run github.com/cilium/ebpf/cmd/bpf2go -cc clang avcprobe bpf/avc.c -- -I./bpf -D__TARGET_ARCH_x86

import (
	"fmt"
	"os"
	"time"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/link"
	"github.com/cilium/ebpf/perf"
	"github.com/cilium/ebpf/rlimit"

	"github.com/secaudit/avc-audit/avc"
)

// perfReaderWrapper adapts the eBPF perf.Reader to our platform-agnostic
// PerfReader interface.
type perfReaderWrapper struct {
	*perf.Reader
}

func (w *perfReaderWrapper) Read() (Record, error) {
	record, err := w.Reader.Read()
	if err != nil {
		return Record{}, err
	}
	return Record{
		RawSample:   record.RawSample,
		LostSamples: record.LostSamples,
	}, nil
}

func (w *perfReaderWrapper) SetDeadline(t time.Time) {
	w.Reader.SetDeadline(t)
}

// pidMapMirror implements avc.FilterMirror over the BPF target_pids map so
// the probes drop out-of-scope events in the kernel.
type pidMapMirror struct {
	m *ebpf.Map
}

func (p *pidMapMirror) AddPid(pid uint32) error {
	var one uint8 = 1
	return p.m.Put(pid, one)
}

var objs avcprobeObjects

// InitBPF loads the AVC probe programs and attaches them to the kernel.
// It returns:
// - A PerfReader for reading raw decision records
// - A FilterMirror for pushing target PIDs into the kernel-side filter
// - A cleanup function to detach hooks and free resources
// - Any error that occurred during initialization
//
// Individual hook attach failures are non-fatal: kernels may inline or
// omit specific functions. Only attaching nothing at all is an error.
func InitBPF() (PerfReader, avc.FilterMirror, func(), error) {
	// Remove rlimit
	if err := rlimit.RemoveMemlock(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to remove rlimit: %v", err)
	}

	// Load pre-compiled BPF program
	if err := loadAvcprobeObjects(&objs, nil); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load BPF objects: %v", err)
	}

	// Create perf reader
	reader, err := perf.NewReader(objs.Events, os.Getpagesize()*256)
	if err != nil {
		objs.Close()
		return nil, nil, nil, fmt.Errorf("failed to create perf reader: %v", err)
	}

	var cleanupFuncs []func()
	cleanupFuncs = append(cleanupFuncs, func() {
		reader.Close()
		objs.Close()
	})

	cleanup := func() {
		// Execute cleanup functions in reverse order
		for i := len(cleanupFuncs) - 1; i >= 0; i-- {
			cleanupFuncs[i]()
		}
	}

	hooks := []struct {
		symbol string
		prog   *ebpf.Program
		ret    bool
	}{
		{"avc_has_perm", objs.TraceAvcHasPermEntry, false},
		{"avc_has_perm", objs.TraceAvcHasPermReturn, true},
		{"selinux_file_open", objs.TraceFileOpen, false},
		{"selinux_mmap_file", objs.TraceMmapFile, false},
		{"selinux_inode_getattr", objs.TraceInodeGetattr, false},
	}

	attached := 0
	for _, hook := range hooks {
		var kp link.Link
		var err error
		if hook.ret {
			kp, err = link.Kretprobe(hook.symbol, hook.prog, nil)
		} else {
			kp, err = link.Kprobe(hook.symbol, hook.prog, nil)
		}
		if err != nil {
			// Some kernels inline these; continue with the reduced hook set.
			fmt.Printf("Note: optional probe on %s not available: %v\n", hook.symbol, err)
			continue
		}
		kpClose := kp
		cleanupFuncs = append(cleanupFuncs, func() { kpClose.Close() })
		fmt.Printf("Attached probe to %s\n", hook.symbol)
		attached++
	}

	if attached == 0 {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to attach to any kernel hooks")
	}

	return &perfReaderWrapper{reader}, &pidMapMirror{objs.TargetPids}, cleanup, nil
}
