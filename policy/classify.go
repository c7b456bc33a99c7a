package policy

import "sort"

// Category is a rule's usage classification.
type Category int

const (
	// FullyUsed: every permission the rule grants was observed.
	FullyUsed Category = iota
	// PartiallyUsed: some permissions observed, some never exercised.
	PartiallyUsed
	// CompletelyUnused: no permission of the rule was ever observed.
	CompletelyUnused
)

// RuleUsage is one rule's classification with its used/unused partition.
type RuleUsage struct {
	Rule     Rule
	Category Category
	Used     []string
	Unused   []string
}

// Report is the session's final analysis, a pure function of the rule set
// and the usage tuples; recomputing it from the same inputs yields the
// same output.
type Report struct {
	Context           string
	EventCount        int
	Rules             []RuleUsage
	TotalRules        int
	TotalPermissions  int
	UsedPermissions   int
	UnusedPermissions int
}

// Classify partitions every rule's permission set against the usage tuples.
// The three categories are an exact disjoint cover of the rule set.
func Classify(rules []Rule, used map[UsageTuple]struct{}) []RuleUsage {
	result := make([]RuleUsage, 0, len(rules))
	for _, rule := range rules {
		ru := RuleUsage{Rule: rule}
		for _, perm := range rule.Permissions {
			tuple := UsageTuple{
				Source:     rule.Source,
				Target:     rule.Target,
				Class:      rule.Class,
				Permission: perm,
			}
			if _, ok := used[tuple]; ok {
				ru.Used = append(ru.Used, perm)
			} else {
				ru.Unused = append(ru.Unused, perm)
			}
		}
		sort.Strings(ru.Used)
		sort.Strings(ru.Unused)

		switch {
		case len(ru.Used) == 0:
			ru.Category = CompletelyUnused
		case len(ru.Unused) == 0:
			ru.Category = FullyUsed
		default:
			ru.Category = PartiallyUsed
		}
		result = append(result, ru)
	}
	return result
}

// BuildReport assembles the final report from accumulated session state.
func BuildReport(context string, eventCount int, rules []Rule, used map[UsageTuple]struct{}) Report {
	total := TotalPermissions(rules)
	return Report{
		Context:           context,
		EventCount:        eventCount,
		Rules:             Classify(rules, used),
		TotalRules:        len(rules),
		TotalPermissions:  total,
		UsedPermissions:   len(used),
		UnusedPermissions: total - len(used),
	}
}

// UsedPercent returns the used share of all granted permissions. With no
// permissions at all there is nothing to divide by, so both percentages
// report zero and the reporter prints an explicit no-data line instead.
func (r Report) UsedPercent() float64 {
	if r.TotalPermissions == 0 {
		return 0
	}
	return 100 * float64(r.UsedPermissions) / float64(r.TotalPermissions)
}

// UnusedPercent returns the unused share of all granted permissions.
func (r Report) UnusedPercent() float64 {
	if r.TotalPermissions == 0 {
		return 0
	}
	return 100 * float64(r.UnusedPermissions) / float64(r.TotalPermissions)
}
