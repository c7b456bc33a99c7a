package policy

import (
	"fmt"
	"io"
	"strings"
)

const banner = "======================================================================"

// Print writes the operator-facing analysis report.
func Print(w io.Writer, rep Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "SELinux AVC Analysis Report")
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "Context:        %s\n", rep.Context)
	fmt.Fprintf(w, "AVC Events:     %d\n", rep.EventCount)
	fmt.Fprintf(w, "Total Rules:    %d\n", rep.TotalRules)
	fmt.Fprintln(w)

	if rep.EventCount == 0 {
		fmt.Fprintln(w, "No events captured. Make sure:")
		fmt.Fprintln(w, "   1. The application is running")
		fmt.Fprintln(w, "   2. The application is performing file operations")
		fmt.Fprintln(w, "   3. You have root privileges")
	}

	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "STATISTICS")
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "Total Rules:        %d\n", rep.TotalRules)
	fmt.Fprintf(w, "Total Permissions:  %d\n", rep.TotalPermissions)
	if rep.TotalPermissions == 0 {
		fmt.Fprintln(w, "No permission data to analyze (0 permissions granted by matching rules)")
	}
	fmt.Fprintf(w, "Used Permissions:   %d (%.1f%%)\n", rep.UsedPermissions, rep.UsedPercent())
	fmt.Fprintf(w, "Unused Permissions: %d (%.1f%%)\n", rep.UnusedPermissions, rep.UnusedPercent())

	var partial, unused, full []RuleUsage
	for _, ru := range rep.Rules {
		switch ru.Category {
		case PartiallyUsed:
			partial = append(partial, ru)
		case CompletelyUnused:
			unused = append(unused, ru)
		case FullyUsed:
			full = append(full, ru)
		}
	}

	if len(partial) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, banner)
		fmt.Fprintln(w, "PARTIALLY USED RULES (Some permissions excessive)")
		fmt.Fprintln(w, banner)
		for i, ru := range partial {
			fmt.Fprintf(w, "\n%2d. Rule: allow %s %s:%s\n", i+1, ru.Rule.Source, ru.Rule.Target, ru.Rule.Class)
			fmt.Fprintf(w, "    + Used:   { %s }\n", strings.Join(ru.Used, " "))
			fmt.Fprintf(w, "    - UNUSED: { %s }  <- REMOVE THESE\n", strings.Join(ru.Unused, " "))
		}
	}

	if len(unused) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, banner)
		fmt.Fprintln(w, "COMPLETELY UNUSED RULES (Remove entirely)")
		fmt.Fprintln(w, banner)
		fmt.Fprintln(w, "\nThe following rules were NEVER used:")
		fmt.Fprintln(w)
		for i, ru := range unused {
			fmt.Fprintf(w, "%2d. allow %s %s:%s { %s };\n",
				i+1, ru.Rule.Source, ru.Rule.Target, ru.Rule.Class, strings.Join(ru.Unused, " "))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "These permissions may be unnecessary and could be removed to reduce")
		fmt.Fprintln(w, "the attack surface.")
	}

	if len(full) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, banner)
		fmt.Fprintln(w, "FULLY USED RULES (All permissions needed)")
		fmt.Fprintln(w, banner)
		for i, ru := range full {
			fmt.Fprintf(w, "%2d. allow %s %s:%s { %s };\n",
				i+1, ru.Rule.Source, ru.Rule.Target, ru.Rule.Class, strings.Join(ru.Used, " "))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, banner)
}
