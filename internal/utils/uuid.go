package utils

import "github.com/google/uuid"

// UUIDGenerator issues time-ordered (version 7) identifiers for sync
// sessions, items and client devices.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

// Generate falls back to a random version 4 id when a v7 id cannot be built.
func (UUIDGenerator) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
