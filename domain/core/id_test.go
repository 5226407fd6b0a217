package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 1000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b {
		t.Errorf("Expected distinct run IDs, got %s twice", a)
	}
	if len(a.String()) != 36 {
		t.Errorf("Expected UUID-formatted run ID, got %q", a.String())
	}
}

func TestParseVariableKey(t *testing.T) {
	key, err := ParseVariableKey("  PRGLNGTH ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if key != VariableKey("prglngth") {
		t.Errorf("Expected 'prglngth', got '%s'", key)
	}

	if _, err := ParseVariableKey("   "); err == nil {
		t.Error("Expected error for blank key")
	}
}
