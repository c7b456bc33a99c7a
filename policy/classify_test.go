package policy

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/secaudit/avc-audit/avc"
)

func TestBuildUsage_SyntacticAttribution(t *testing.T) {
	// Two rules share class and permission; one observation marks both used.
	rules := []Rule{
		{Source: "a_t", Target: "b_t", Class: "file", Permissions: []string{"read"}},
		{Source: "a_t", Target: "c_t", Class: "file", Permissions: []string{"read", "write"}},
		{Source: "a_t", Target: "d_t", Class: "dir", Permissions: []string{"read"}},
	}
	events := []avc.PermissionEvent{
		{Class: "file", Permissions: []string{"read"}},
	}

	used := BuildUsage(events, rules)
	want := map[UsageTuple]struct{}{
		{Source: "a_t", Target: "b_t", Class: "file", Permission: "read"}: {},
		{Source: "a_t", Target: "c_t", Class: "file", Permission: "read"}: {},
	}
	if !reflect.DeepEqual(used, want) {
		t.Errorf("BuildUsage = %v, want %v", used, want)
	}
}

func TestClassify_DisjointCover(t *testing.T) {
	rules := []Rule{
		{Source: "a_t", Target: "b_t", Class: "file", Permissions: []string{"read", "open"}},
		{Source: "a_t", Target: "c_t", Class: "file", Permissions: []string{"write"}},
		{Source: "a_t", Target: "d_t", Class: "dir", Permissions: []string{"search", "read"}},
	}
	used := map[UsageTuple]struct{}{
		{Source: "a_t", Target: "b_t", Class: "file", Permission: "read"}:   {},
		{Source: "a_t", Target: "b_t", Class: "file", Permission: "open"}:   {},
		{Source: "a_t", Target: "d_t", Class: "dir", Permission: "search"}:  {},
	}

	result := Classify(rules, used)
	if len(result) != len(rules) {
		t.Fatalf("classified %d rules, want %d (exact cover)", len(result), len(rules))
	}

	counts := map[Category]int{}
	for _, ru := range result {
		counts[ru.Category]++
		if len(ru.Used)+len(ru.Unused) != len(ru.Rule.Permissions) {
			t.Errorf("rule %v: used+unused != permission count", ru.Rule)
		}
	}
	if counts[FullyUsed] != 1 || counts[CompletelyUnused] != 1 || counts[PartiallyUsed] != 1 {
		t.Errorf("category counts = %v, want one of each", counts)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	rules := []Rule{
		{Source: "a_t", Target: "b_t", Class: "file", Permissions: []string{"read", "write", "open"}},
	}
	used := map[UsageTuple]struct{}{
		{Source: "a_t", Target: "b_t", Class: "file", Permission: "open"}: {},
	}
	first := Classify(rules, used)
	second := Classify(rules, used)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Classify is not idempotent:\n%v\n%v", first, second)
	}
}

func TestReport_EndToEndScenario(t *testing.T) {
	rules := []Rule{
		{Source: "a_t", Target: "b_t", Class: "file", Permissions: []string{"read", "write", "open"}},
	}
	events := []avc.PermissionEvent{
		{Class: "file", Permissions: []string{"read", "open"}},
	}

	rep := BuildReport("a_t", len(events), rules, BuildUsage(events, rules))

	if rep.TotalPermissions != 3 || rep.UsedPermissions != 2 || rep.UnusedPermissions != 1 {
		t.Fatalf("counts = %d/%d/%d, want 3/2/1",
			rep.TotalPermissions, rep.UsedPermissions, rep.UnusedPermissions)
	}
	if math.Abs(rep.UsedPercent()-66.7) > 0.1 {
		t.Errorf("UsedPercent = %.2f, want ~66.7", rep.UsedPercent())
	}
	if math.Abs(rep.UnusedPercent()-33.3) > 0.1 {
		t.Errorf("UnusedPercent = %.2f, want ~33.3", rep.UnusedPercent())
	}

	if len(rep.Rules) != 1 || rep.Rules[0].Category != PartiallyUsed {
		t.Fatalf("rule classification = %+v, want partially used", rep.Rules)
	}
	if !reflect.DeepEqual(rep.Rules[0].Used, []string{"open", "read"}) {
		t.Errorf("Used = %v, want [open read]", rep.Rules[0].Used)
	}
	if !reflect.DeepEqual(rep.Rules[0].Unused, []string{"write"}) {
		t.Errorf("Unused = %v, want [write]", rep.Rules[0].Unused)
	}
}

func TestReport_NoData(t *testing.T) {
	rep := BuildReport("a_t", 0, nil, nil)
	if rep.UsedPercent() != 0 || rep.UnusedPercent() != 0 {
		t.Errorf("percentages = %.1f/%.1f with no rules, want 0/0",
			rep.UsedPercent(), rep.UnusedPercent())
	}

	var buf bytes.Buffer
	Print(&buf, rep)
	out := buf.String()
	if !strings.Contains(out, "No events captured") {
		t.Error("report missing the no-events notice")
	}
	if !strings.Contains(out, "No permission data to analyze") {
		t.Error("report missing the explicit no-data line")
	}
	if !strings.Contains(out, "Used Permissions:   0 (0.0%)") {
		t.Errorf("report renders percentages inconsistently:\n%s", out)
	}
}

func TestPrint_Sections(t *testing.T) {
	rules := []Rule{
		{Source: "a_t", Target: "b_t", Class: "file", Permissions: []string{"read", "write"}},
		{Source: "a_t", Target: "c_t", Class: "file", Permissions: []string{"getattr"}},
		{Source: "a_t", Target: "d_t", Class: "dir", Permissions: []string{"search"}},
	}
	events := []avc.PermissionEvent{
		{Class: "file", Permissions: []string{"read", "getattr"}},
	}
	rep := BuildReport("a_t", len(events), rules, BuildUsage(events, rules))

	var buf bytes.Buffer
	Print(&buf, rep)
	out := buf.String()

	for _, section := range []string{
		"PARTIALLY USED RULES",
		"COMPLETELY UNUSED RULES",
		"FULLY USED RULES",
		"- UNUSED: { write }",
		"allow a_t d_t:dir { search };",
	} {
		if !strings.Contains(out, section) {
			t.Errorf("report missing %q:\n%s", section, out)
		}
	}
}
