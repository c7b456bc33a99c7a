// Package selinux maps kernel security class IDs and permission bitmasks
// to the names used in policy rules. It covers the native SELinux access
// vector encoding for the file and dir classes and the Linux VFS MAY_*
// mask encoding used by the inode/file permission hooks.
package selinux

import "fmt"

// Well-known kernel class IDs.
const (
	ClassFile     uint16 = 6
	ClassDir      uint16 = 7
	ClassFifoFile uint16 = 13
)

// Native access vector bits shared by the file and dir classes.
const (
	PermRead    uint32 = 0x00000002
	PermWrite   uint32 = 0x00000004
	PermGetattr uint32 = 0x00000010
	PermExecute uint32 = 0x00002000
	PermOpen    uint32 = 0x00020000
)

// VFS MAY_* bits as passed to the inode/file permission hooks.
const (
	MayExec   uint32 = 0x00000001
	MayWrite  uint32 = 0x00000002
	MayRead   uint32 = 0x00000004
	MayAppend uint32 = 0x00000008
	MayOpen   uint32 = 0x00000010
	MayChdir  uint32 = 0x00000020
)

var classNames = map[uint16]string{
	1:  "security",
	2:  "process",
	3:  "system",
	4:  "capability",
	5:  "filesystem",
	6:  "file",
	7:  "dir",
	8:  "fd",
	9:  "lnk_file",
	10: "chr_file",
	11: "blk_file",
	12: "sock_file",
	13: "fifo_file",
	14: "socket",
	15: "tcp_socket",
	16: "udp_socket",
	17: "rawip_socket",
	18: "node",
	19: "netif",
	20: "netlink_socket",
	21: "packet_socket",
	22: "key_socket",
	23: "unix_stream_socket",
	24: "unix_dgram_socket",
}

var filePerms = map[uint32]string{
	0x00000001: "ioctl",
	0x00000002: "read",
	0x00000004: "write",
	0x00000008: "create",
	0x00000010: "getattr",
	0x00000020: "setattr",
	0x00000040: "lock",
	0x00000080: "relabelfrom",
	0x00000100: "relabelto",
	0x00000200: "append",
	0x00000400: "unlink",
	0x00000800: "link",
	0x00001000: "rename",
	0x00002000: "execute",
	0x00004000: "quotaon",
	0x00008000: "mounton",
	0x00010000: "audit_access",
	0x00020000: "open",
	0x00040000: "execmod",
}

var dirPerms = map[uint32]string{
	0x00000001: "ioctl",
	0x00000002: "read",
	0x00000004: "write",
	0x00000008: "create",
	0x00000010: "getattr",
	0x00000020: "setattr",
	0x00000040: "lock",
	0x00000080: "relabelfrom",
	0x00000100: "relabelto",
	0x00000200: "append",
	0x00000400: "unlink",
	0x00000800: "link",
	0x00001000: "rename",
	0x00002000: "execute",
	0x00004000: "add_name",
	0x00008000: "remove_name",
	0x00010000: "reparent",
	0x00020000: "search",
	0x00040000: "rmdir",
	0x00080000: "open",
}

// vfsCombos holds exact-match entries for VFS masks, including recognized
// OR-combinations. An exact match is returned as-is, with no augmentation.
var vfsCombos = map[uint32][]string{
	MayExec:            {"execute"},
	MayWrite:           {"write"},
	MayRead:            {"read"},
	MayAppend:          {"append"},
	MayOpen:            {"open"},
	MayChdir:           {"chdir"},
	MayRead | MayWrite: {"read", "write"},
}

// ClassName returns the policy name for a kernel class ID. Unknown IDs
// render as class_<id> rather than failing.
func ClassName(class uint16) string {
	if name, ok := classNames[class]; ok {
		return name
	}
	return fmt.Sprintf("class_%d", class)
}

// DecodeNative decodes a native SELinux access vector into permission names.
// Classes other than file and dir fall back to the file table; that can
// mis-decode socket-family classes and is kept as documented behavior.
// The result is never empty: an unmatched mask yields a perm_0x<hex> token.
func DecodeNative(bits uint32, class uint16) []string {
	table := filePerms
	if class == ClassDir {
		table = dirPerms
	}

	var perms []string
	for bit := uint32(1); bit != 0; bit <<= 1 {
		if bits&bit == 0 {
			continue
		}
		if name, ok := table[bit]; ok {
			perms = append(perms, name)
		}
	}

	if len(perms) == 0 {
		return []string{fmt.Sprintf("perm_0x%x", bits)}
	}
	return perms
}

// DecodeVFS decodes a Linux VFS MAY_* mask into permission names. Exact
// matches against the combination table win and are returned untouched.
// Otherwise the mask is decomposed bit by bit, and for the file class a
// read or write result additionally picks up getattr, since the metadata
// check always rides along with data access on that path.
func DecodeVFS(bits uint32, class uint16) []string {
	if perms, ok := vfsCombos[bits]; ok {
		return perms
	}

	var perms []string
	if bits&MayExec != 0 {
		perms = append(perms, "execute")
	}
	if bits&MayWrite != 0 {
		perms = append(perms, "write")
	}
	if bits&MayRead != 0 {
		perms = append(perms, "read")
	}
	if bits&MayAppend != 0 {
		perms = append(perms, "append")
	}
	if bits&MayOpen != 0 {
		perms = append(perms, "open")
	}

	if class == ClassFile && len(perms) > 0 {
		if contains(perms, "read") || contains(perms, "write") {
			if !contains(perms, "getattr") {
				perms = append(perms, "getattr")
			}
		}
	}

	if len(perms) == 0 {
		return []string{fmt.Sprintf("vfs_mask_0x%x", bits)}
	}
	return perms
}

func contains(perms []string, name string) bool {
	for _, p := range perms {
		if p == name {
			return true
		}
	}
	return false
}
