package selinux

import (
	lru "github.com/hashicorp/golang-lru"
)

type decodeKey struct {
	bits  uint32
	class uint16
	vfs   bool
}

// Decoder memoizes bitmask decodes with LRU eviction. The same handful of
// masks repeats for every event a workload produces, so the cache turns the
// per-event decode into a map lookup.
type Decoder struct {
	cache *lru.Cache
}

// NewDecoder creates a size-constrained decoder cache.
func NewDecoder(size int) (*Decoder, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Decoder{cache: cache}, nil
}

// Decode returns the permission names for a mask. Callers must treat the
// returned slice as read-only; it is shared across cache hits.
func (d *Decoder) Decode(bits uint32, class uint16, vfs bool) []string {
	key := decodeKey{bits: bits, class: class, vfs: vfs}
	if cached, found := d.cache.Get(key); found {
		return cached.([]string)
	}

	var perms []string
	if vfs {
		perms = DecodeVFS(bits, class)
	} else {
		perms = DecodeNative(bits, class)
	}

	d.cache.Add(key, perms)
	return perms
}
