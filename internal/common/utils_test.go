package common

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerateUUID(t *testing.T) {
	// Generate multiple UUIDs
	uuid1 := GenerateUUID()
	uuid2 := GenerateUUID()

	if uuid1 == "" || uuid2 == "" {
		t.Fatal("Expected non-empty UUID")
	}

	// Should be different
	if uuid1 == uuid2 {
		t.Error("Expected different UUIDs")
	}

	// Should be valid UUID format
	if _, err := uuid.Parse(uuid1); err != nil {
		t.Errorf("Generated UUID is not valid: %v", err)
	}
}

func TestPreferencesErrorUnwrap(t *testing.T) {
	err := NewPreferencesError("load", ErrNoSnapshot)

	if err.Error() != "preferences load failed: no preferences snapshot to reset to" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err.Unwrap() != ErrNoSnapshot {
		t.Error("Expected Unwrap to return the wrapped error")
	}
}
