package policy

import (
	"fmt"
	"os/exec"
)

// Extract runs sesearch against the active policy and returns the allow
// rules for the given source context. A missing or failing sesearch is
// fatal to the session; without rules there is nothing to audit.
func Extract(context string) ([]Rule, error) {
	out, err := exec.Command("sesearch", "--allow", "-s", context).Output()
	if err != nil {
		return nil, fmt.Errorf("running sesearch: %w (is setools-console installed?)", err)
	}
	return ParseOutput(string(out), context), nil
}
