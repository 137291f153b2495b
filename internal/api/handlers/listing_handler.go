package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/zatekoja/campushub/internal/api/middleware"
	"github.com/zatekoja/campushub/internal/application/services"
	"github.com/zatekoja/campushub/internal/domain/entities"
)

// MarketplaceViewer is the read side of the marketplace page
type MarketplaceViewer interface {
	Visible(f services.MarketplaceFilter, now time.Time) []services.MarketplaceCard
	Categories() []*entities.Category
	Loading() bool
}

// PGViewer is the read side of the PG page
type PGViewer interface {
	Visible(f services.PGFilter, now time.Time) []services.PGCard
	Loading() bool
}

// ListingHandler serves both listing pages and their create forms
type ListingHandler struct {
	marketplace MarketplaceViewer
	pg          PGViewer
	creator     services.ListingCreator
	refresher   services.CollectionRefresher
	now         func() time.Time
}

// NewListingHandler creates a new listing handler. refresher is handed to
// every form and may be nil.
func NewListingHandler(
	marketplace MarketplaceViewer,
	pg PGViewer,
	creator services.ListingCreator,
	refresher services.CollectionRefresher,
) *ListingHandler {
	return &ListingHandler{
		marketplace: marketplace,
		pg:          pg,
		creator:     creator,
		refresher:   refresher,
		now:         time.Now,
	}
}

type listResponse[T any] struct {
	Listings []T  `json:"listings"`
	Count    int  `json:"count"`
	Loading  bool `json:"loading"`
}

// ListCategories handles GET /api/categories
func (h *ListingHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.marketplace.Categories()
	if categories == nil {
		categories = []*entities.Category{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// ListMarketplace handles GET /api/marketplace
func (h *ListingHandler) ListMarketplace(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cards := h.marketplace.Visible(services.MarketplaceFilter{
		SearchQuery: q.Get("search"),
		Category:    q.Get("category"),
	}, h.now())

	respondWithJSON(w, http.StatusOK, listResponse[services.MarketplaceCard]{
		Listings: cards,
		Count:    len(cards),
		Loading:  h.marketplace.Loading(),
	})
}

// ListPG handles GET /api/pg
func (h *ListingHandler) ListPG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cards := h.pg.Visible(services.PGFilter{
		SearchQuery:      q.Get("search"),
		RoomType:         q.Get("room_type"),
		GenderPreference: q.Get("gender"),
		MaxRent:          q.Get("max_rent"),
	}, h.now())

	respondWithJSON(w, http.StatusOK, listResponse[services.PGCard]{
		Listings: cards,
		Count:    len(cards),
		Loading:  h.pg.Loading(),
	})
}

// CreateMarketplace handles POST /api/marketplace
func (h *ListingHandler) CreateMarketplace(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeDraft(w, r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	creator := &recordingCreator{ListingCreator: h.creator}
	form := services.NewMarketplaceForm(creator, h.refresher)
	if err := applyDraft(form, fields); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if err := form.Submit(r.Context(), middleware.SessionFromContext(r.Context())); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, creator.marketplace)
}

// CreatePG handles POST /api/pg
func (h *ListingHandler) CreatePG(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeDraft(w, r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	creator := &recordingCreator{ListingCreator: h.creator}
	form := services.NewPGForm(creator, h.refresher)
	if err := applyDraft(form, fields); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if err := form.Submit(r.Context(), middleware.SessionFromContext(r.Context())); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, creator.pg)
}

// recordingCreator keeps the row a form persisted so it can be echoed back
type recordingCreator struct {
	services.ListingCreator
	marketplace *entities.MarketplaceListing
	pg          *entities.PGAccommodation
}

func (c *recordingCreator) CreateMarketplace(ctx context.Context, listing *entities.MarketplaceListing) error {
	if err := c.ListingCreator.CreateMarketplace(ctx, listing); err != nil {
		return err
	}
	c.marketplace = listing
	return nil
}

func (c *recordingCreator) CreatePG(ctx context.Context, pg *entities.PGAccommodation) error {
	if err := c.ListingCreator.CreatePG(ctx, pg); err != nil {
		return err
	}
	c.pg = pg
	return nil
}
