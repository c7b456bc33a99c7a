// Package avc implements the capture-and-correlation core: it turns raw
// AVC decision records from the kernel probes into canonical permission
// events, pairs the asynchronous entry/exit records of avc_has_perm, and
// accumulates events and statistics for the session.
package avc

import (
	"bytes"

	"github.com/secaudit/avc-audit/selinux"
)

// WireEvent mirrors struct avc_event emitted by the BPF programs over the
// perf buffer. The struct is packed on the C side; field order and widths
// must not change or the binary.Read parse in the session loop breaks.
//
// Producer conventions for avc_has_perm, whose outcome arrives out of band:
//   - entry records carry Decided == decidedPending and the thread ID in
//     the Allowed field
//   - exit records carry Requested == 0, the thread ID in Allowed, and the
//     outcome in Decided (1 granted, 0 denied)
//
// Fast-path records (FromCache == 1) are complete granted captures from the
// selinux_file_open, selinux_mmap_file, and selinux_inode_getattr probes.
type WireEvent struct {
	Pid       uint32
	Ssid      uint32
	Tsid      uint32
	Tclass    uint16
	Requested uint32
	Allowed   uint32
	Decided   uint32
	Comm      [16]byte
	Timestamp uint64
	IsVFSMask uint8
	FromCache uint8
}

const (
	decidedPending = 0xFFFFFFFF
	decidedGranted = 1
)

// HookKind identifies which kernel probe produced a record.
type HookKind int

const (
	// HookAVCCheck is the avc_has_perm kprobe/kretprobe pair (slow path).
	HookAVCCheck HookKind = iota
	// HookFileOpen is the selinux_file_open kprobe.
	HookFileOpen
	// HookMmapFile is the selinux_mmap_file kprobe.
	HookMmapFile
	// HookInodeGetattr is the selinux_inode_getattr kprobe.
	HookInodeGetattr
)

// RawRecord is one decision record after wire classification, the tagged
// variant consumed by the correlator and the normalizer.
type RawRecord struct {
	Hook      HookKind
	Pid       uint32
	Tid       uint32
	Comm      string
	Ssid      uint32
	Tsid      uint32
	Class     uint16
	Requested uint32
	IsVFSMask bool
	FastPath  bool
	Pending   bool // slow-path entry: outcome not known yet
	Granted   bool
	Timestamp uint64
}

// PermissionEvent is the canonical shape every hook's records normalize to.
// Immutable once constructed; owned by the aggregator's event log.
type PermissionEvent struct {
	Pid         uint32
	Comm        string
	Class       string
	Permissions []string
	Ssid        uint32
	Tsid        uint32
	FastPath    bool
	Timestamp   uint64
}

// ClassifyWire maps a wire event onto a tagged RawRecord. The hook kind of
// fast-path records is derived from the requested bits: the open bit marks
// file_open, a bare getattr bit marks inode_getattr, anything else is mmap.
func ClassifyWire(w *WireEvent) RawRecord {
	r := RawRecord{
		Pid:       w.Pid,
		Comm:      string(bytes.TrimRight(w.Comm[:], "\x00")),
		Ssid:      w.Ssid,
		Tsid:      w.Tsid,
		Class:     w.Tclass,
		Timestamp: w.Timestamp,
		IsVFSMask: w.IsVFSMask != 0,
		FastPath:  w.FromCache != 0,
	}

	if r.FastPath {
		r.Requested = w.Requested
		r.Granted = true
		switch {
		case w.Requested&selinux.PermOpen != 0:
			r.Hook = HookFileOpen
		case w.Requested == selinux.PermGetattr:
			r.Hook = HookInodeGetattr
		default:
			r.Hook = HookMmapFile
		}
		return r
	}

	r.Hook = HookAVCCheck
	r.Tid = w.Allowed
	if w.Decided == decidedPending {
		r.Pending = true
		r.Requested = w.Requested
	} else {
		r.Granted = w.Decided == decidedGranted
	}
	return r
}

// filesystemClass reports whether a class ID falls in the file-family range
// the capture is scoped to (file through fifo_file).
func filesystemClass(class uint16) bool {
	return class >= selinux.ClassFile && class <= selinux.ClassFifoFile
}
