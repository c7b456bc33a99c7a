package main

import (
	"os/exec"
	"strconv"
	"strings"
)

// pidsForContext returns the PIDs of every process currently running with
// the given SELinux context, scraped from ps -eZ. Malformed lines are
// skipped; an unusable ps leaves the filter to grow on a later rescan.
func pidsForContext(context string) []uint32 {
	out, err := exec.Command("ps", "-eZ").Output()
	if err != nil {
		return nil
	}
	return parsePidLines(string(out), context)
}

func parsePidLines(out, context string) []uint32 {
	var pids []uint32
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, context) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		pid, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			continue
		}
		pids = append(pids, uint32(pid))
	}
	return pids
}
