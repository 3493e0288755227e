package certs

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestApproveIsMonotonic(t *testing.T) {
	c := &FinalCert{}
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	instructor := uuid.New()
	if !c.Approve(first, instructor) {
		t.Fatalf("first approval should report a transition")
	}
	if c.Approve(first.Add(time.Hour), uuid.New()) {
		t.Fatalf("second approval should be a no-op")
	}
	if !c.ApprovedAt.Equal(first) || *c.ApprovedByID != instructor {
		t.Fatalf("second approval must not overwrite the first: %v %v", c.ApprovedAt, c.ApprovedByID)
	}
}
