// Package policy extracts allow rules from the active SELinux policy,
// correlates them against captured permission events, and classifies each
// rule by how much of it the workload actually exercised.
package policy

import (
	"regexp"
	"strings"
)

// Rule is one allow rule extracted from the policy.
type Rule struct {
	Source      string
	Target      string
	Class       string
	Permissions []string
	Raw         string
}

// Example: allow httpd_t httpd_log_t:file { read write };
var allowRe = regexp.MustCompile(`^allow\s+(\S+)\s+(\S+):(\S+)\s+\{\s*([^}]+?)\s*\};?`)

// ParseRule parses a single allow rule line. ok is false for lines that do
// not match the braced allow form; callers skip those silently. Duplicate
// permission names within a rule are dropped.
func ParseRule(line string) (Rule, bool) {
	m := allowRe.FindStringSubmatch(line)
	if m == nil {
		return Rule{}, false
	}

	seen := make(map[string]bool)
	var perms []string
	for _, p := range strings.Fields(m[4]) {
		if seen[p] {
			continue
		}
		seen[p] = true
		perms = append(perms, p)
	}

	return Rule{
		Source:      m[1],
		Target:      m[2],
		Class:       m[3],
		Permissions: perms,
		Raw:         line,
	}, true
}

// ParseOutput parses sesearch output, keeping lines that start with the
// allow keyword and mention the context.
func ParseOutput(out, context string) []Rule {
	var rules []Rule
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "allow") || !strings.Contains(line, context) {
			continue
		}
		if rule, ok := ParseRule(line); ok {
			rules = append(rules, rule)
		}
	}
	return rules
}

// TotalPermissions sums the permission counts over all rules.
func TotalPermissions(rules []Rule) int {
	total := 0
	for _, rule := range rules {
		total += len(rule.Permissions)
	}
	return total
}
