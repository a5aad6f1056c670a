package deps

import (
	"strings"
	"testing"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	results := CheckBinaries([]Requirement{
		{Name: "Nonexistent", Command: "glimpse-definitely-not-installed", Description: "test"},
	})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Available {
		t.Error("missing binary reported available")
	}
	if !strings.Contains(results[0].Detail, "not found") {
		t.Errorf("detail = %q", results[0].Detail)
	}
}

func TestCheckBinariesFindsShell(t *testing.T) {
	results := CheckBinaries([]Requirement{
		{Name: "Shell", Command: "sh", Description: "always present on test hosts"},
	})
	if len(results) != 1 || !results[0].Available {
		t.Fatalf("sh not found: %+v", results)
	}
	if results[0].Command == "sh" {
		t.Error("expected resolved path, got bare command")
	}
}

func TestCheckBinariesEmptyCommand(t *testing.T) {
	results := CheckBinaries([]Requirement{{Name: "Unset", Command: "  "}})
	if results[0].Available {
		t.Error("empty command reported available")
	}
	if results[0].Detail != "command not configured" {
		t.Errorf("detail = %q", results[0].Detail)
	}
}

func TestCheckBinariesPreservesOptionalFlag(t *testing.T) {
	results := CheckBinaries([]Requirement{
		{Name: "Opt", Command: "glimpse-missing-optional", Optional: true},
	})
	if !results[0].Optional {
		t.Error("optional flag lost")
	}
}
