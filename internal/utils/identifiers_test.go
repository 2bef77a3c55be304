package utils

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestNewTrackingID(t *testing.T) {
	pattern := regexp.MustCompile(`^APP-[0-9A-F]{10}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewTrackingID()
		if !pattern.MatchString(id) {
			t.Fatalf("Tracking ID %q does not match expected format", id)
		}
		if seen[id] {
			t.Fatalf("Tracking ID %q generated twice", id)
		}
		seen[id] = true
	}
}

func TestNewFormNo(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 45, 0, time.UTC)
	formNo := NewFormNo(now)

	if !strings.HasPrefix(formNo, "FORM-20260301093045-") {
		t.Errorf("Form number %q does not carry the creation timestamp", formNo)
	}

	pattern := regexp.MustCompile(`^FORM-\d{14}-[0-9A-F]{6}$`)
	if !pattern.MatchString(formNo) {
		t.Errorf("Form number %q does not match expected format", formNo)
	}
}

func TestNewTransactionID(t *testing.T) {
	for _, prefix := range []string{"APP", "ADM", "PAY"} {
		t.Run(prefix, func(t *testing.T) {
			id := NewTransactionID(prefix)
			pattern := regexp.MustCompile(`^` + prefix + `-[0-9A-F]{8}$`)
			if !pattern.MatchString(id) {
				t.Errorf("Transaction ID %q does not match expected format", id)
			}
		})
	}
}

func TestVerificationHash(t *testing.T) {
	appliedAt := time.Date(2026, 3, 1, 9, 30, 45, 0, time.UTC)

	first := VerificationHash("APP-ABCDEF1234", "user-1", 7, appliedAt)
	second := VerificationHash("APP-ABCDEF1234", "user-1", 7, appliedAt)

	if first != second {
		t.Errorf("Hash is not deterministic: %q vs %q", first, second)
	}
	if len(first) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(first))
	}

	// Any input change must change the digest.
	variants := []string{
		VerificationHash("APP-ABCDEF1235", "user-1", 7, appliedAt),
		VerificationHash("APP-ABCDEF1234", "user-2", 7, appliedAt),
		VerificationHash("APP-ABCDEF1234", "user-1", 8, appliedAt),
		VerificationHash("APP-ABCDEF1234", "user-1", 7, appliedAt.Add(time.Second)),
	}
	for i, v := range variants {
		if v == first {
			t.Errorf("Variant %d produced the same hash as the original", i)
		}
	}
}
