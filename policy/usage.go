package policy

import "github.com/secaudit/avc-audit/avc"

// UsageTuple marks one rule-permission pairing as observed in use.
type UsageTuple struct {
	Source     string
	Target     string
	Class      string
	Permission string
}

// BuildUsage correlates captured events against the rule set. The capture
// layer does not resolve which rule authorized a decision, so attribution
// is syntactic: every rule whose class matches the event and whose
// permission set contains the observed permission is marked used, with the
// rule's own source and target labels. A permission observed once can
// therefore mark several rules used even if only one authorized it; that
// precision ceiling is inherent to this matching, not a defect.
func BuildUsage(events []avc.PermissionEvent, rules []Rule) map[UsageTuple]struct{} {
	used := make(map[UsageTuple]struct{})
	for _, ev := range events {
		for _, perm := range ev.Permissions {
			for _, rule := range rules {
				if rule.Class != ev.Class {
					continue
				}
				if !hasPermission(rule, perm) {
					continue
				}
				used[UsageTuple{
					Source:     rule.Source,
					Target:     rule.Target,
					Class:      rule.Class,
					Permission: perm,
				}] = struct{}{}
			}
		}
	}
	return used
}

func hasPermission(rule Rule, perm string) bool {
	for _, p := range rule.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
