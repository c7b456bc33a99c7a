//go:build darwin
// +build darwin

// This file provides a stub implementation for MacOS so the tool builds
// for development there. Capture itself needs the Linux kernel probes.

package main

import (
	"fmt"

	"github.com/secaudit/avc-audit/avc"
)

// InitBPF provides a stub implementation for MacOS.
func InitBPF() (PerfReader, avc.FilterMirror, func(), error) {
	return nil, nil, nil, fmt.Errorf("AVC monitoring requires Linux kernel probes")
}
