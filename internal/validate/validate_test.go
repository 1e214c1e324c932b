//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package validate

import "testing"

func TestCheckPassed(t *testing.T) {
	if !(Check{Violations: 0}).Passed() {
		t.Error("check with zero violations should pass")
	}
	if (Check{Violations: 3}).Passed() {
		t.Error("check with violations should fail")
	}
}

func TestReportFailures(t *testing.T) {
	report := &Report{Checks: []Check{
		{Name: "a", Violations: 0},
		{Name: "b", Violations: 2},
		{Name: "c", Violations: 1},
	}}

	if got := report.Failures(); got != 2 {
		t.Errorf("Failures() = %d, want 2", got)
	}
	if report.Passed() {
		t.Error("report with failures should not pass")
	}

	empty := &Report{}
	if !empty.Passed() {
		t.Error("empty report should pass")
	}
}
