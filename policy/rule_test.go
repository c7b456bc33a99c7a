package policy

import (
	"reflect"
	"testing"
)

func TestParseRule(t *testing.T) {
	rule, ok := ParseRule("allow httpd_t httpd_log_t:file { read write append };")
	if !ok {
		t.Fatal("well-formed rule did not parse")
	}
	if rule.Source != "httpd_t" || rule.Target != "httpd_log_t" || rule.Class != "file" {
		t.Errorf("parsed %+v", rule)
	}
	if !reflect.DeepEqual(rule.Permissions, []string{"read", "write", "append"}) {
		t.Errorf("Permissions = %v", rule.Permissions)
	}
}

func TestParseRule_DeduplicatesPermissions(t *testing.T) {
	rule, ok := ParseRule("allow a_t b_t:file { read read write };")
	if !ok {
		t.Fatal("rule did not parse")
	}
	if !reflect.DeepEqual(rule.Permissions, []string{"read", "write"}) {
		t.Errorf("Permissions = %v, want deduplicated [read write]", rule.Permissions)
	}
}

func TestParseRule_Malformed(t *testing.T) {
	malformed := []string{
		"",
		"neverallow a_t b_t:file { read };",
		"allow a_t b_t:file read;", // unbraced single-permission form
		"allow a_t b_t file { read };",
		"# allow a_t b_t:file { read };",
	}
	for _, line := range malformed {
		if _, ok := ParseRule(line); ok {
			t.Errorf("ParseRule(%q) parsed, want skip", line)
		}
	}
}

func TestParseOutput(t *testing.T) {
	out := `Found 3 semantic av rules:
allow my_app_t var_log_t:file { read open };
allow other_t var_log_t:file { write };
   allow my_app_t tmp_t:dir { search };
garbage line
`
	rules := ParseOutput(out, "my_app_t")
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2 (context filter plus allow prefix)", len(rules))
	}
	if rules[0].Target != "var_log_t" || rules[1].Class != "dir" {
		t.Errorf("rules = %+v", rules)
	}
}

func TestTotalPermissions(t *testing.T) {
	rules := []Rule{
		{Permissions: []string{"read", "write"}},
		{Permissions: []string{"search"}},
	}
	if got := TotalPermissions(rules); got != 3 {
		t.Errorf("TotalPermissions = %d, want 3", got)
	}
}
