package avc

import (
	"log"

	"github.com/secaudit/avc-audit/metrics"
)

// FilterMirror pushes pid-filter additions into the instrumentation source's
// own filter, so the fast-path probes can scope events in the kernel without
// a per-event round trip. On Linux this is the BPF target_pids map.
type FilterMirror interface {
	AddPid(pid uint32) error
}

// PidFilter is the set of process IDs in scope for the current session.
// PIDs are only ever added; the set grows monotonically until teardown.
type PidFilter struct {
	mirror    FilterMirror
	pids      map[uint32]struct{}
	warnEmpty bool
}

// NewPidFilter creates an empty filter backed by the given mirror.
func NewPidFilter(mirror FilterMirror) *PidFilter {
	return &PidFilter{
		mirror:    mirror,
		pids:      make(map[uint32]struct{}),
		warnEmpty: true,
	}
}

// Contains reports whether a pid is in scope.
func (f *PidFilter) Contains(pid uint32) bool {
	_, ok := f.pids[pid]
	return ok
}

// Len returns the current filter size.
func (f *PidFilter) Len() int {
	return len(f.pids)
}

// AddAll adds every pid not already tracked, pushing each into the mirror,
// and returns the pids actually added. A mirror push failure keeps the pid
// in the local set so the userspace filter still matches it.
func (f *PidFilter) AddAll(pids []uint32) []uint32 {
	var added []uint32
	for _, pid := range pids {
		if _, ok := f.pids[pid]; ok {
			continue
		}
		f.pids[pid] = struct{}{}
		if err := f.mirror.AddPid(pid); err != nil {
			log.Printf("Warning: failed to push PID %d into kernel filter: %v", pid, err)
		}
		added = append(added, pid)
	}
	metrics.FilterSize.Set(float64(len(f.pids)))
	return added
}

// WarnIfEmpty returns true at most once per empty period: it fires on the
// first call while the filter is empty, stays quiet until the filter has
// been non-empty again, then re-arms.
func (f *PidFilter) WarnIfEmpty() bool {
	if len(f.pids) == 0 {
		if f.warnEmpty {
			f.warnEmpty = false
			return true
		}
		return false
	}
	f.warnEmpty = true
	return false
}
