package testutil

import (
	"errors"
	"testing"
	"time"

	"github.com/yungbote/materialhub-backend/internal/data/aggregates"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
)

func TestObserveRecordsStatusAndConflicts(t *testing.T) {
	h := &HooksRecorder{}
	start := time.Now()
	aggregates.Observe(h, "material.create", start, nil)
	aggregates.Observe(h, "material.create", start, apierr.StoreConflict("x", errors.New("dup")))
	aggregates.Observe(h, "material.create", start, apierr.NotFound("x", ""))

	got := h.Statuses("material.create")
	want := []string{"success", "store_conflict", "not_found"}
	if len(got) != len(want) {
		t.Fatalf("statuses: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("statuses[%d]: got=%q want=%q", i, got[i], want[i])
		}
	}
	if len(h.Conflicts) != 1 || h.Conflicts[0] != "material.create" {
		t.Fatalf("conflicts: %v", h.Conflicts)
	}
}
