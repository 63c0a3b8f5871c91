package domain

import "testing"

func TestItemCloneIsIndependent(t *testing.T) {
	product := "Petri Dishes"
	item := Item{
		ID:       "abc",
		FileName: "dishes.jpg",
		Status:   StatusDone,
		Fields:   &ExtractedFields{ProductName: &product},
	}

	clone := item.Clone()
	*clone.Fields.ProductName = "changed"
	clone.Fields.RefNumber = ptr("REF-1")

	if *item.Fields.ProductName != "Petri Dishes" {
		t.Fatalf("clone mutation leaked into original: %q", *item.Fields.ProductName)
	}
	if item.Fields.RefNumber != nil {
		t.Fatalf("clone field attach leaked into original")
	}
}

func TestCloneNilFields(t *testing.T) {
	item := Item{ID: "abc", Status: StatusQueued}
	clone := item.Clone()
	if clone.Fields != nil {
		t.Fatalf("expected nil fields to stay nil")
	}

	var f *ExtractedFields
	if f.Clone() != nil {
		t.Fatalf("nil receiver should clone to nil")
	}
}

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusQueued, false},
		{StatusLoading, false},
		{StatusDone, true},
		{StatusError, true},
	}
	for _, tc := range tests {
		if got := tc.status.Terminal(); got != tc.want {
			t.Fatalf("Terminal(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func ptr(s string) *string { return &s }
