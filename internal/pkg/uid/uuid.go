// Package uid generates identifiers.
package uid

import "github.com/google/uuid"

// StringID produces unique string identifiers.
type StringID interface {
	Generate() string
}

// UUID generates time-ordered RFC 9562 UUIDs.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUIDv7, or a random UUIDv4 when the v7 source fails.
func (*UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}

// Static always returns the same ID. Tests use it to pin identifiers.
type Static string

// Generate returns s.
func (s Static) Generate() string { return string(s) }
