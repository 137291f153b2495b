package entities

import (
	"math"
	"time"
)

// Collection names one of the backend's record sets
type Collection string

const (
	CollectionMarketplace Collection = "marketplace_listings"
	CollectionPG          Collection = "pg_accommodations"
	CollectionCategories  Collection = "categories"
)

// ItemCondition is the wear level of a marketplace item
type ItemCondition string

const (
	ConditionNew     ItemCondition = "new"
	ConditionLikeNew ItemCondition = "like_new"
	ConditionGood    ItemCondition = "good"
	ConditionFair    ItemCondition = "fair"
	ConditionPoor    ItemCondition = "poor"
)

// Valid reports whether c is one of the known conditions
func (c ItemCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// MarketplaceStatus is the sale state of a marketplace item
type MarketplaceStatus string

const (
	MarketplaceStatusAvailable MarketplaceStatus = "available"
	MarketplaceStatusSold      MarketplaceStatus = "sold"
	MarketplaceStatusReserved  MarketplaceStatus = "reserved"
)

// Valid reports whether s is one of the known statuses
func (s MarketplaceStatus) Valid() bool {
	switch s {
	case MarketplaceStatusAvailable, MarketplaceStatusSold, MarketplaceStatusReserved:
		return true
	}
	return false
}

// RoomType is the occupancy of a PG room
type RoomType string

const (
	RoomTypeSingle RoomType = "single"
	RoomTypeDouble RoomType = "double"
	RoomTypeTriple RoomType = "triple"
	RoomTypeShared RoomType = "shared"
)

// Valid reports whether r is one of the known room types
func (r RoomType) Valid() bool {
	switch r {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeTriple, RoomTypeShared:
		return true
	}
	return false
}

// GenderPreference restricts who a PG accepts
type GenderPreference string

const (
	GenderMale   GenderPreference = "male"
	GenderFemale GenderPreference = "female"
	GenderAny    GenderPreference = "any"
)

// Valid reports whether g is one of the known preferences
func (g GenderPreference) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderAny:
		return true
	}
	return false
}

// PGStatus is the vacancy state of a PG accommodation
type PGStatus string

const (
	PGStatusAvailable PGStatus = "available"
	PGStatusOccupied  PGStatus = "occupied"
)

// Valid reports whether s is one of the known statuses
func (s PGStatus) Valid() bool {
	return s == PGStatusAvailable || s == PGStatusOccupied
}

// OwnerSummary is the slice of a profile joined onto listing rows
type OwnerSummary struct {
	FullName    string `json:"full_name"`
	CollegeName string `json:"college_name"`
}

// CategorySummary is the slice of a category joined onto marketplace rows
type CategorySummary struct {
	Name string `json:"name"`
}

// MarketplaceListing is an item offered for sale
type MarketplaceListing struct {
	ID          string            `json:"id" db:"id"`
	UserID      string            `json:"user_id" db:"user_id"`
	CategoryID  string            `json:"category_id" db:"category_id"`
	Title       string            `json:"title" db:"title"`
	Description string            `json:"description" db:"description"`
	Price       float64           `json:"price" db:"price"`
	Images      []string          `json:"images" db:"images"`
	Condition   ItemCondition     `json:"condition" db:"condition"`
	Status      MarketplaceStatus `json:"status" db:"status"`
	Location    *string           `json:"location" db:"location"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`

	// Joined at read time; nil when the referenced row is missing.
	Owner    *OwnerSummary    `json:"profiles,omitempty" db:"-"`
	Category *CategorySummary `json:"categories,omitempty" db:"-"`
}

// Location is a geographic position
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Valid reports whether both coordinates are finite and in range
func (l Location) Valid() bool {
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) {
		return false
	}
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// PGAccommodation is a paid-accommodation listing
type PGAccommodation struct {
	ID               string            `json:"id" db:"id"`
	UserID           string            `json:"user_id" db:"user_id"`
	Title            string            `json:"title" db:"title"`
	Description      string            `json:"description" db:"description"`
	Address          string            `json:"address" db:"address"`
	Latitude         float64           `json:"latitude" db:"latitude"`
	Longitude        float64           `json:"longitude" db:"longitude"`
	RentPerMonth     float64           `json:"rent_per_month" db:"rent_per_month"`
	Amenities        []string          `json:"amenities" db:"amenities"`
	RoomType         RoomType          `json:"room_type" db:"room_type"`
	Images           []string          `json:"images" db:"images"`
	ContactPhone     string            `json:"contact_phone" db:"contact_phone"`
	AvailableFrom    *string           `json:"available_from" db:"available_from"`
	GenderPreference *GenderPreference `json:"gender_preference" db:"gender_preference"`
	Status           PGStatus          `json:"status" db:"status"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" db:"updated_at"`

	Owner *OwnerSummary `json:"profiles,omitempty" db:"-"`
}

// Location returns the accommodation's position
func (p *PGAccommodation) Location() Location {
	return Location{Latitude: p.Latitude, Longitude: p.Longitude}
}

// EffectiveGender treats a missing preference as "any"
func (p *PGAccommodation) EffectiveGender() GenderPreference {
	if p.GenderPreference == nil || *p.GenderPreference == "" {
		return GenderAny
	}
	return *p.GenderPreference
}
