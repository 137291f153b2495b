package entities

import (
	"time"

	"github.com/google/uuid"
)

// ListingEventType represents the type of listing event
type ListingEventType string

const (
	ListingEventCreated ListingEventType = "listing.created"
)

// ListingEvent notifies other instances that a collection changed
type ListingEvent struct {
	ID         string           `json:"id"`
	Type       ListingEventType `json:"type"`
	Collection Collection       `json:"collection"`
	ListingID  string           `json:"listing_id"`
	Timestamp  time.Time        `json:"timestamp"`
}

// NewListingEvent creates a new listing event
func NewListingEvent(eventType ListingEventType, collection Collection, listingID string) *ListingEvent {
	return &ListingEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Collection: collection,
		ListingID:  listingID,
		Timestamp:  time.Now().UTC(),
	}
}
