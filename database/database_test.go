package database

import (
	"testing"

	"github.com/secaudit/avc-audit/avc"
	"github.com/secaudit/avc-audit/policy"
)

func TestSessionRoundTrip(t *testing.T) {
	db, err := NewDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	sessionID, err := db.BeginSession("my_app_t")
	if err != nil {
		t.Fatal(err)
	}

	events := []avc.PermissionEvent{
		{Pid: 100, Comm: "my_app", Class: "file", Permissions: []string{"read", "open"}, FastPath: true, Timestamp: 1},
		{Pid: 100, Comm: "my_app", Class: "dir", Permissions: []string{"search"}, Timestamp: 2},
	}
	if err := db.InsertEvents(sessionID, events); err != nil {
		t.Fatal(err)
	}

	rules := []policy.Rule{
		{Source: "my_app_t", Target: "var_log_t", Class: "file", Permissions: []string{"read", "write", "open"}},
	}
	rep := policy.BuildReport("my_app_t", len(events), rules, policy.BuildUsage(events, rules))
	if err := db.InsertReport(sessionID, rep); err != nil {
		t.Fatal(err)
	}

	var eventCount int
	if err := db.db.QueryRow("SELECT event_count FROM sessions WHERE id = ?", sessionID).Scan(&eventCount); err != nil {
		t.Fatal(err)
	}
	if eventCount != 2 {
		t.Errorf("event_count = %d, want 2", eventCount)
	}

	var category, unused string
	err = db.db.QueryRow(
		"SELECT category, unused_perms FROM rule_usage WHERE session_id = ?", sessionID,
	).Scan(&category, &unused)
	if err != nil {
		t.Fatal(err)
	}
	if category != "partially_used" {
		t.Errorf("category = %q, want partially_used", category)
	}
	if unused != "write" {
		t.Errorf("unused_perms = %q, want write", unused)
	}
}
