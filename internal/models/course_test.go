package models

import "testing"

func TestPendingCodeRoundTrip(t *testing.T) {
	c := &Course{ZCode: "Z25001", Status: CourseStatusApproved}

	pending := c.PendingCode()
	if pending != "Z25001_pending" {
		t.Errorf("pending code: got %q, want %q", pending, "Z25001_pending")
	}
	if !IsPendingCode(pending) {
		t.Errorf("IsPendingCode(%q) = false, want true", pending)
	}
	if got := OriginalCode(pending); got != "Z25001" {
		t.Errorf("OriginalCode: got %q, want %q", got, "Z25001")
	}
}

func TestIsPendingCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"Z25001_pending", true},
		{"Z25001", false},
		{"_pending", false}, // bare suffix is not a derived code
		{"", false},
		{"Z25001_PENDING", false},
	}
	for _, tt := range tests {
		if got := IsPendingCode(tt.code); got != tt.want {
			t.Errorf("IsPendingCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestParentCodes(t *testing.T) {
	tests := []struct {
		name   string
		parent string
		want   []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  ", nil},
		{"single", "Z10001", []string{"Z10001"}},
		{"comma separated with spaces", "Z10001, Z10002,Z10003", []string{"Z10001", "Z10002", "Z10003"}},
		{"trailing comma", "Z10001,", []string{"Z10001"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Course{ParentCourse: tt.parent}
			got := c.ParentCodes()
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("code %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
