package avc

import (
	"reflect"
	"testing"

	"github.com/secaudit/avc-audit/selinux"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	dec, err := selinux.NewDecoder(64)
	if err != nil {
		t.Fatal(err)
	}
	return NewNormalizer(dec)
}

func TestNormalize_GrantedSlowPath(t *testing.T) {
	n := newTestNormalizer(t)
	ev, ok := n.Normalize(RawRecord{
		Hook:      HookAVCCheck,
		Pid:       100,
		Comm:      "my_app",
		Class:     selinux.ClassDir,
		Requested: 0x00020000, // search on the dir table
		Granted:   true,
	})
	if !ok {
		t.Fatal("granted slow-path record must produce an event")
	}
	if ev.Class != "dir" {
		t.Errorf("Class = %q, want dir", ev.Class)
	}
	if !reflect.DeepEqual(ev.Permissions, []string{"search"}) {
		t.Errorf("Permissions = %v, want [search]", ev.Permissions)
	}
	if ev.FastPath {
		t.Error("avc_has_perm events are slow path")
	}
}

func TestNormalize_DeniedAndPendingSuppressed(t *testing.T) {
	n := newTestNormalizer(t)
	if _, ok := n.Normalize(RawRecord{Hook: HookAVCCheck, Class: selinux.ClassFile, Requested: selinux.PermRead}); ok {
		t.Error("denied check must not produce an event")
	}
	if _, ok := n.Normalize(RawRecord{Hook: HookAVCCheck, Class: selinux.ClassFile, Requested: selinux.PermRead, Pending: true}); ok {
		t.Error("unresolved entry must not produce an event")
	}
}

func TestNormalize_ClassRangeGate(t *testing.T) {
	n := newTestNormalizer(t)
	// tclass 2 (process) is outside the file-family range 6..13.
	if _, ok := n.Normalize(RawRecord{Hook: HookAVCCheck, Class: 2, Requested: selinux.PermRead, Granted: true}); ok {
		t.Error("non-filesystem class must be filtered on the slow path")
	}
	// sock_file (12) is inside the range.
	if _, ok := n.Normalize(RawRecord{Hook: HookAVCCheck, Class: 12, Requested: selinux.PermRead, Granted: true}); !ok {
		t.Error("sock_file class must pass the range filter")
	}
}

func TestNormalize_MmapZeroBitsSuppressed(t *testing.T) {
	n := newTestNormalizer(t)
	if _, ok := n.Normalize(RawRecord{Hook: HookMmapFile, FastPath: true, Granted: true}); ok {
		t.Error("mmap with no protection bits must be suppressed")
	}
}

func TestNormalize_FastPathFixesFileClass(t *testing.T) {
	n := newTestNormalizer(t)
	ev, ok := n.Normalize(RawRecord{
		Hook:      HookFileOpen,
		Class:     selinux.ClassFile,
		Requested: selinux.PermOpen | selinux.PermRead,
		FastPath:  true,
		Granted:   true,
	})
	if !ok {
		t.Fatal("file_open record must produce an event")
	}
	if ev.Class != "file" {
		t.Errorf("Class = %q, want file", ev.Class)
	}
	if !reflect.DeepEqual(ev.Permissions, []string{"read", "open"}) {
		t.Errorf("Permissions = %v, want [read open]", ev.Permissions)
	}
	if !ev.FastPath {
		t.Error("file_open events are fast path")
	}
}

func TestNormalize_NeverEmptyPermissionSet(t *testing.T) {
	n := newTestNormalizer(t)
	ev, ok := n.Normalize(RawRecord{
		Hook:      HookAVCCheck,
		Class:     selinux.ClassFile,
		Requested: 0x80000000, // no table entry
		Granted:   true,
	})
	if !ok {
		t.Fatal("record with unknown bits still produces an event")
	}
	if len(ev.Permissions) == 0 {
		t.Fatal("permission set must never be empty")
	}
	if ev.Permissions[0] != "perm_0x80000000" {
		t.Errorf("Permissions = %v, want synthetic token", ev.Permissions)
	}
}
