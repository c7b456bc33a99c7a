package avc

import (
	"encoding/binary"
	"testing"

	"github.com/secaudit/avc-audit/selinux"
)

func TestWireEventLayout(t *testing.T) {
	// The packed C struct is 52 bytes; binary.Read depends on the Go struct
	// matching it field for field.
	if size := binary.Size(WireEvent{}); size != 52 {
		t.Fatalf("WireEvent size = %d, want 52", size)
	}
}

func TestClassifyWire_FastPathHookKinds(t *testing.T) {
	tests := []struct {
		name      string
		requested uint32
		want      HookKind
	}{
		{"open bit means file_open", selinux.PermOpen | selinux.PermRead, HookFileOpen},
		{"bare getattr means inode_getattr", selinux.PermGetattr, HookInodeGetattr},
		{"anything else means mmap", selinux.PermRead | selinux.PermExecute, HookMmapFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &WireEvent{
				Pid:       100,
				Tclass:    6,
				Requested: tt.requested,
				Allowed:   tt.requested,
				FromCache: 1,
			}
			r := ClassifyWire(w)
			if r.Hook != tt.want {
				t.Errorf("Hook = %v, want %v", r.Hook, tt.want)
			}
			if !r.FastPath || !r.Granted {
				t.Errorf("fast-path record must be granted: %+v", r)
			}
		})
	}
}

func TestClassifyWire_SlowPathEntry(t *testing.T) {
	w := &WireEvent{
		Pid:       100,
		Tclass:    6,
		Requested: selinux.PermRead,
		Allowed:   4242, // thread ID by producer convention
		Decided:   decidedPending,
	}
	r := ClassifyWire(w)
	if r.Hook != HookAVCCheck {
		t.Errorf("Hook = %v, want HookAVCCheck", r.Hook)
	}
	if !r.Pending {
		t.Error("entry record must be pending")
	}
	if r.Tid != 4242 {
		t.Errorf("Tid = %d, want 4242", r.Tid)
	}
	if r.Requested != selinux.PermRead {
		t.Errorf("Requested = %#x, want read bit", r.Requested)
	}
}

func TestClassifyWire_SlowPathExit(t *testing.T) {
	granted := ClassifyWire(&WireEvent{Pid: 100, Allowed: 4242, Decided: 1})
	if granted.Pending || !granted.Granted {
		t.Errorf("granted exit: %+v", granted)
	}
	denied := ClassifyWire(&WireEvent{Pid: 100, Allowed: 4242, Decided: 0})
	if denied.Pending || denied.Granted {
		t.Errorf("denied exit: %+v", denied)
	}
}

func TestClassifyWire_CommTrimmed(t *testing.T) {
	w := &WireEvent{FromCache: 1, Requested: selinux.PermGetattr}
	copy(w.Comm[:], "my_app")
	if r := ClassifyWire(w); r.Comm != "my_app" {
		t.Errorf("Comm = %q, want my_app", r.Comm)
	}
}
