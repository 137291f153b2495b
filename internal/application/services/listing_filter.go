package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/zatekoja/campushub/internal/domain/entities"
)

// FilterAll is the categorical filter value that matches every listing
const FilterAll = "all"

// MarketplaceFilter holds the marketplace view's filter bar state
type MarketplaceFilter struct {
	SearchQuery string
	Category    string
}

// PGFilter holds the PG view's filter bar state. MaxRent stays raw text
// because it is whatever the user typed.
type PGFilter struct {
	SearchQuery      string
	RoomType         string
	GenderPreference string
	MaxRent          string
}

// FilterMarketplace returns the listings matching every active predicate of
// f, in their original order.
func FilterMarketplace(listings []*entities.MarketplaceListing, f MarketplaceFilter) []*entities.MarketplaceListing {
	query := strings.ToLower(f.SearchQuery)

	out := make([]*entities.MarketplaceListing, 0, len(listings))
	for _, l := range listings {
		if l == nil {
			continue
		}
		if !containsAny(query, l.Title, l.Description) {
			continue
		}
		if !matchesExact(f.Category, l.CategoryID) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// FilterPG returns the accommodations matching every active predicate of f,
// in their original order.
func FilterPG(listings []*entities.PGAccommodation, f PGFilter) []*entities.PGAccommodation {
	query := strings.ToLower(f.SearchQuery)
	maxRent, rentActive := ParseMaxRent(f.MaxRent)

	out := make([]*entities.PGAccommodation, 0, len(listings))
	for _, pg := range listings {
		if pg == nil {
			continue
		}
		if !containsAny(query, pg.Title, pg.Address, pg.Description) {
			continue
		}
		if !matchesExact(f.RoomType, string(pg.RoomType)) {
			continue
		}
		if !matchesGender(f.GenderPreference, pg.EffectiveGender()) {
			continue
		}
		if rentActive && pg.RentPerMonth > maxRent {
			continue
		}
		out = append(out, pg)
	}
	return out
}

// ParseMaxRent turns the raw max-rent input into a bound. The filter is
// inactive (false) for blank, unparseable, NaN, infinite or non-positive
// input, so bad text never hides listings.
func ParseMaxRent(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// containsAny reports whether lowered query occurs in any field. The empty
// query matches.
func containsAny(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func matchesExact(filter, value string) bool {
	return filter == "" || filter == FilterAll || filter == value
}

// Listings without a preference accept anyone, so they pass every gender
// filter.
func matchesGender(filter string, pref entities.GenderPreference) bool {
	if filter == "" || filter == FilterAll {
		return true
	}
	return pref == entities.GenderAny || string(pref) == filter
}
