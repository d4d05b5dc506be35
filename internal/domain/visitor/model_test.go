package visitor_test

import (
	"testing"
	"time"

	"churchdesk/internal/domain/visitor"
)

// TestRecordFollowUp tests the status progression.
func TestRecordFollowUp(t *testing.T) {
	v := visitor.Visitor{Name: "Yaw", VisitDate: "2026-03-01", Status: visitor.StatusNew}
	if !v.AwaitingFollowUp() {
		t.Fatal("new visitor should await follow-up")
	}
	if err := v.RecordFollowUp(visitor.FollowUp{At: time.Now(), Note: ""}); err != visitor.ErrEmptyNote {
		t.Fatalf("empty note err = %v", err)
	}
	if err := v.RecordFollowUp(visitor.FollowUp{At: time.Now(), Note: "Called, will return"}); err != nil {
		t.Fatalf("RecordFollowUp: %v", err)
	}
	if v.Status != visitor.StatusContacted {
		t.Fatalf("status = %s, want Contacted", v.Status)
	}
	_ = v.RecordFollowUp(visitor.FollowUp{At: time.Now(), Note: "Visited home"})
	if v.Status != visitor.StatusFollowedUp {
		t.Fatalf("status = %s, want Followed Up", v.Status)
	}
	if err := v.MarkConverted("M010"); err != nil {
		t.Fatalf("MarkConverted: %v", err)
	}
	if err := v.RecordFollowUp(visitor.FollowUp{Note: "late"}); err != visitor.ErrAlreadyConverted {
		t.Fatalf("follow-up after conversion err = %v", err)
	}
	if err := v.MarkConverted("M011"); err != visitor.ErrAlreadyConverted {
		t.Fatalf("second conversion err = %v", err)
	}
}
