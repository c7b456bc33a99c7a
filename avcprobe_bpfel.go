// Code generated by bpf2go; DO NOT EDIT.
//go:build 386 || amd64 || arm || arm64 || loong64 || mips64le || mipsle || ppc64le || riscv64

package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/cilium/ebpf"
)

// loadAvcprobe returns the embedded CollectionSpec for avcprobe.
func loadAvcprobe() (*ebpf.CollectionSpec, error) {
	reader := bytes.NewReader(_AvcprobeBytes)
	spec, err := ebpf.LoadCollectionSpecFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("can't load avcprobe: %w", err)
	}

	return spec, err
}

// loadAvcprobeObjects loads avcprobe and converts it into a struct.
//
// The following types are suitable as obj argument:
//
//	*avcprobeObjects
//	*avcprobePrograms
//	*avcprobeMaps
//
// See ebpf.CollectionSpec.LoadAndAssign documentation for details.
func loadAvcprobeObjects(obj interface{}, opts *ebpf.CollectionOptions) error {
	spec, err := loadAvcprobe()
	if err != nil {
		return err
	}

	return spec.LoadAndAssign(obj, opts)
}

// avcprobeSpecs contains maps and programs before they are loaded into the kernel.
//
// It can be passed ebpf.CollectionSpec.Assign.
type avcprobeSpecs struct {
	avcprobeProgramSpecs
	avcprobeMapSpecs
}

// avcprobeSpecs contains programs before they are loaded into the kernel.
//
// It can be passed ebpf.CollectionSpec.Assign.
type avcprobeProgramSpecs struct {
	TraceAvcHasPermEntry  *ebpf.ProgramSpec `ebpf:"trace_avc_has_perm_entry"`
	TraceAvcHasPermReturn *ebpf.ProgramSpec `ebpf:"trace_avc_has_perm_return"`
	TraceFileOpen         *ebpf.ProgramSpec `ebpf:"trace_file_open"`
	TraceInodeGetattr     *ebpf.ProgramSpec `ebpf:"trace_inode_getattr"`
	TraceMmapFile         *ebpf.ProgramSpec `ebpf:"trace_mmap_file"`
}

// avcprobeMapSpecs contains maps before they are loaded into the kernel.
//
// It can be passed ebpf.CollectionSpec.Assign.
type avcprobeMapSpecs struct {
	Events     *ebpf.MapSpec `ebpf:"events"`
	TargetPids *ebpf.MapSpec `ebpf:"target_pids"`
}

// avcprobeObjects contains all objects after they have been loaded into the kernel.
//
// It can be passed to loadAvcprobeObjects or ebpf.CollectionSpec.LoadAndAssign.
type avcprobeObjects struct {
	avcprobePrograms
	avcprobeMaps
}

func (o *avcprobeObjects) Close() error {
	return _AvcprobeClose(
		&o.avcprobePrograms,
		&o.avcprobeMaps,
	)
}

// avcprobeMaps contains all maps after they have been loaded into the kernel.
//
// It can be passed to loadAvcprobeObjects or ebpf.CollectionSpec.LoadAndAssign.
type avcprobeMaps struct {
	Events     *ebpf.Map `ebpf:"events"`
	TargetPids *ebpf.Map `ebpf:"target_pids"`
}

func (m *avcprobeMaps) Close() error {
	return _AvcprobeClose(
		m.Events,
		m.TargetPids,
	)
}

// avcprobePrograms contains all programs after they have been loaded into the kernel.
//
// It can be passed to loadAvcprobeObjects or ebpf.CollectionSpec.LoadAndAssign.
type avcprobePrograms struct {
	TraceAvcHasPermEntry  *ebpf.Program `ebpf:"trace_avc_has_perm_entry"`
	TraceAvcHasPermReturn *ebpf.Program `ebpf:"trace_avc_has_perm_return"`
	TraceFileOpen         *ebpf.Program `ebpf:"trace_file_open"`
	TraceInodeGetattr     *ebpf.Program `ebpf:"trace_inode_getattr"`
	TraceMmapFile         *ebpf.Program `ebpf:"trace_mmap_file"`
}

func (p *avcprobePrograms) Close() error {
	return _AvcprobeClose(
		p.TraceAvcHasPermEntry,
		p.TraceAvcHasPermReturn,
		p.TraceFileOpen,
		p.TraceInodeGetattr,
		p.TraceMmapFile,
	)
}

func _AvcprobeClose(closers ...io.Closer) error {
	for _, closer := range closers {
		if err := closer.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Do not access this directly.
//
//go:embed avcprobe_bpfel.o
var _AvcprobeBytes []byte
