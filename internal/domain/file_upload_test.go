package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestFileStatusTransitions(t *testing.T) {
	cases := []struct {
		from    FileStatus
		to      FileStatus
		allowed bool
	}{
		{FileStatusPending, FileStatusProcessing, true},
		{FileStatusProcessing, FileStatusCompleted, true},
		{FileStatusProcessing, FileStatusFailed, true},
		{FileStatusPending, FileStatusCompleted, false},
		{FileStatusPending, FileStatusFailed, false},
		{FileStatusCompleted, FileStatusProcessing, false},
		{FileStatusCompleted, FileStatusFailed, false},
		{FileStatusFailed, FileStatusProcessing, false},
		{FileStatusFailed, FileStatusCompleted, false},
		{FileStatusProcessing, FileStatusPending, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Fatalf("%s -> %s: expected allowed=%v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestFileStatusTerminal(t *testing.T) {
	if FileStatusPending.IsTerminal() || FileStatusProcessing.IsTerminal() {
		t.Fatalf("pending/processing must not be terminal")
	}
	if !FileStatusCompleted.IsTerminal() || !FileStatusFailed.IsTerminal() {
		t.Fatalf("completed/failed must be terminal")
	}
}

func TestNewFileUploadStartsPending(t *testing.T) {
	upload := NewFileUpload("stored.xlsx", "contacts.xlsx", "application/vnd.ms-excel", 1024, "uploads/stored.xlsx", uuid.New())

	if upload.Status != FileStatusPending {
		t.Fatalf("expected pending, got %s", upload.Status)
	}
	if upload.ID == uuid.Nil {
		t.Fatalf("expected assigned id")
	}
	if upload.ResultSummary != nil || upload.ErrorMessage != nil {
		t.Fatalf("fresh upload must not carry summary or error")
	}
}

func TestContactRowHasData(t *testing.T) {
	empty := ContactRow{}
	if empty.HasData() {
		t.Fatalf("empty row must report no data")
	}

	phone := "0811"
	withPhone := ContactRow{Phone: &phone}
	if !withPhone.HasData() {
		t.Fatalf("row with phone must report data")
	}

	blank := ""
	withBlank := ContactRow{Name: &blank}
	if !withBlank.HasData() {
		t.Fatalf("explicitly blank value still counts as present")
	}
}
