package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// ItemID represents a graded item identifier (e.g. "GDPR-001")
type ItemID string

// String returns the string representation
func (id ItemID) String() string {
	return string(id)
}

// Validate checks if the item ID is valid (non-empty)
func (id ItemID) Validate() error {
	if id == "" {
		return goerr.New("item ID cannot be empty")
	}
	return nil
}

// GroupID represents a group identifier (e.g. "gdpr", "privacy")
type GroupID string

// String returns the string representation
func (id GroupID) String() string {
	return string(id)
}

// Validate checks if the group ID is valid (non-empty)
func (id GroupID) Validate() error {
	if id == "" {
		return goerr.New("group ID cannot be empty")
	}
	return nil
}

// StatusHistoryID represents a status history identifier (UUID v7)
type StatusHistoryID string

// String returns the string representation of the status history ID
func (id StatusHistoryID) String() string {
	return string(id)
}

// NewStatusHistoryID generates a new UUID v7 status history ID.
// Falls back to a random v4 UUID when the v7 generator fails.
func NewStatusHistoryID() StatusHistoryID {
	id, err := uuid.NewV7()
	if err != nil {
		return StatusHistoryID(uuid.New().String())
	}
	return StatusHistoryID(id.String())
}

// SubscriptionID identifies a registered aggregate-change subscriber
type SubscriptionID string

// String returns the string representation
func (id SubscriptionID) String() string {
	return string(id)
}

// NewSubscriptionID creates a new SubscriptionID
func NewSubscriptionID() SubscriptionID {
	return SubscriptionID(uuid.New().String())
}
