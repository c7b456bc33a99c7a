package avc

import (
	"github.com/secaudit/avc-audit/selinux"
)

// Normalizer converts raw decision records into canonical permission events.
// One dispatch covers all hook shapes; adding a probe means adding one case.
type Normalizer struct {
	dec *selinux.Decoder
}

// NewNormalizer creates a normalizer backed by the given decode cache.
func NewNormalizer(dec *selinux.Decoder) *Normalizer {
	return &Normalizer{dec: dec}
}

// Normalize applies the per-hook decode rule. ok is false when the record
// produces no event: denied or unresolved slow-path checks, slow-path
// checks outside the filesystem class range, and mmap records with no
// protection bits requested.
func (n *Normalizer) Normalize(r RawRecord) (PermissionEvent, bool) {
	switch r.Hook {
	case HookAVCCheck:
		if r.Pending || !r.Granted {
			return PermissionEvent{}, false
		}
		if !filesystemClass(r.Class) {
			return PermissionEvent{}, false
		}
	case HookMmapFile:
		// The probe suppresses zero-bit mappings already; guard here too so
		// normalization never fabricates an event from nothing.
		if r.Requested == 0 {
			return PermissionEvent{}, false
		}
		r.Class = selinux.ClassFile
	case HookFileOpen, HookInodeGetattr:
		r.Class = selinux.ClassFile
	}

	return PermissionEvent{
		Pid:         r.Pid,
		Comm:        r.Comm,
		Class:       selinux.ClassName(r.Class),
		Permissions: n.dec.Decode(r.Requested, r.Class, r.IsVFSMask),
		Ssid:        r.Ssid,
		Tsid:        r.Tsid,
		FastPath:    r.FastPath,
		Timestamp:   r.Timestamp,
	}, true
}
