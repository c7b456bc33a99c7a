package avc

import "time"

type pendingKey struct {
	pid uint32
	tid uint32
}

type pendingCheck struct {
	entry  RawRecord
	stored time.Time
}

// Correlator pairs the entry and exit records of avc_has_perm. At most one
// check is in flight per thread, so the pending table holds one entry per
// (pid, tid) key and a new entry overwrites any stale one for that key.
//
// With maxAge == 0 entries whose exit never fires stay pending for the whole
// session, matching the kernel-side table this replaces. A positive maxAge
// lets Sweep bound that growth.
type Correlator struct {
	pending map[pendingKey]pendingCheck
	maxAge  time.Duration
}

// NewCorrelator creates a correlator. maxAge of zero disables eviction.
func NewCorrelator(maxAge time.Duration) *Correlator {
	return &Correlator{
		pending: make(map[pendingKey]pendingCheck),
		maxAge:  maxAge,
	}
}

// Observe feeds one slow-path record through the entry/exit state machine.
// Entry records are stored and produce nothing. An exit record resolves the
// pending entry for its key, returning the merged record with the outcome
// filled in; an exit with no pending entry is discarded.
func (c *Correlator) Observe(r RawRecord) (RawRecord, bool) {
	key := pendingKey{pid: r.Pid, tid: r.Tid}

	if r.Pending {
		c.pending[key] = pendingCheck{entry: r, stored: time.Now()}
		return RawRecord{}, false
	}

	pc, ok := c.pending[key]
	if !ok {
		return RawRecord{}, false
	}
	delete(c.pending, key)

	merged := pc.entry
	merged.Pending = false
	merged.Granted = r.Granted
	return merged, true
}

// Sweep evicts pending entries older than maxAge and returns how many it
// dropped. A no-op when eviction is disabled.
func (c *Correlator) Sweep(now time.Time) int {
	if c.maxAge <= 0 {
		return 0
	}
	dropped := 0
	for key, pc := range c.pending {
		if now.Sub(pc.stored) > c.maxAge {
			delete(c.pending, key)
			dropped++
		}
	}
	return dropped
}

// PendingCount returns the number of unresolved entries.
func (c *Correlator) PendingCount() int {
	return len(c.pending)
}
