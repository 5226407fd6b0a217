package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// RunID identifies one report computation.
	RunID ID
	// VariableKey names a dataset column, e.g. "prglngth".
	VariableKey ID
)

func (id RunID) String() string       { return ID(id).String() }
func (id VariableKey) String() string { return ID(id).String() }

// NewRunID creates a fresh run identifier
func NewRunID() RunID {
	return RunID(NewID())
}

// ParseVariableKey parses a string into VariableKey. Column names are
// case-insensitive in the survey files, so keys are lower-cased.
func ParseVariableKey(s string) (VariableKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("variable key cannot be empty")
	}
	return VariableKey(strings.ToLower(s)), nil
}
