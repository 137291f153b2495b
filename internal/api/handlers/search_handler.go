package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/repositories"
)

const maxSearchLimit = 100

// ListingSearcher runs text queries against the listing index
type ListingSearcher interface {
	Search(ctx context.Context, params repositories.SearchParams) ([]repositories.SearchHit, error)
}

// SearchHandler handles cross-collection search
type SearchHandler struct {
	searcher ListingSearcher
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searcher ListingSearcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search handles GET /api/search?q=&collection=&limit=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := repositories.SearchParams{
		Query: strings.TrimSpace(q.Get("q")),
		Limit: min(queryInt(r, "limit", 20), maxSearchLimit),
	}
	switch c := entities.Collection(q.Get("collection")); c {
	case "":
	case entities.CollectionMarketplace, entities.CollectionPG:
		params.Collection = c
	default:
		respondWithError(w, http.StatusBadRequest, "collection must be marketplace_listings or pg_accommodations")
		return
	}

	hits, err := h.searcher.Search(r.Context(), params)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if hits == nil {
		hits = []repositories.SearchHit{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"hits":  hits,
		"count": len(hits),
	})
}
