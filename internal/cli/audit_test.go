package cli

import (
	"testing"
	"time"
)

func TestParseTimeFlag(t *testing.T) {
	absolute, err := parseTimeFlag("2026-03-14T10:00:00Z")
	if err != nil {
		t.Fatalf("parseTimeFlag(RFC3339) error = %v", err)
	}
	want := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	if !absolute.Equal(want) {
		t.Errorf("parseTimeFlag(RFC3339) = %v, want %v", absolute, want)
	}

	relative, err := parseTimeFlag("24h")
	if err != nil {
		t.Fatalf("parseTimeFlag(duration) error = %v", err)
	}
	expected := time.Now().Add(-24 * time.Hour)
	if diff := relative.Sub(expected); diff < -time.Minute || diff > time.Minute {
		t.Errorf("parseTimeFlag(24h) = %v, want about %v", relative, expected)
	}

	if _, err := parseTimeFlag("not-a-time"); err == nil {
		t.Error("parseTimeFlag(junk) expected error")
	}
}
