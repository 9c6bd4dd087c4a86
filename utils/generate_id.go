package utils

import "github.com/google/uuid"

// GenerateID returns a new opaque document id.
func GenerateID() string {
	return uuid.New().String()
}
