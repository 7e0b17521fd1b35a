package testutil

import (
	"testing"
	"time"
)

func TestHooksRecorder_CapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("Workbook.Week.Create", "success", 10*time.Millisecond)
	h.IncConflict("Workbook.Week.Create")
	h.IncRetry("Workbook.Week.Create")

	if len(h.Operations) != 1 {
		t.Fatalf("expected 1 op event, got %d", len(h.Operations))
	}
	if h.Operations[0].Name != "Workbook.Week.Create" || h.Operations[0].Status != "success" {
		t.Fatalf("unexpected op event: %+v", h.Operations[0])
	}
	if len(h.Conflicts) != 1 || h.Conflicts[0] != "Workbook.Week.Create" {
		t.Fatalf("unexpected conflicts: %+v", h.Conflicts)
	}
	if len(h.Retries) != 1 || h.Retries[0] != "Workbook.Week.Create" {
		t.Fatalf("unexpected retries: %+v", h.Retries)
	}
}

func TestHooksRecorder_StatusesFiltersByName(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("Workbook.Week.Delete", "dry_run", time.Millisecond)
	h.ObserveOperation("Workbook.Week.Create", "success", time.Millisecond)
	h.ObserveOperation("Workbook.Week.Delete", "success", time.Millisecond)

	got := h.Statuses("Workbook.Week.Delete")
	if len(got) != 2 || got[0] != "dry_run" || got[1] != "success" {
		t.Fatalf("unexpected statuses: %+v", got)
	}
}
