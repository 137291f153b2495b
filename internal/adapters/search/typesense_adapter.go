package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/repositories"
	tsclient "github.com/zatekoja/campushub/internal/infrastructure/clients/typesense"
)

const defaultSearchLimit = 20

// TypesenseAdapter implements listing search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.ListingSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// IndexMarketplace upserts a marketplace listing document
func (a *TypesenseAdapter) IndexMarketplace(ctx context.Context, listing *entities.MarketplaceListing) error {
	return a.upsert(ctx, marketplaceDocument(listing))
}

// IndexPG upserts a PG accommodation document
func (a *TypesenseAdapter) IndexPG(ctx context.Context, pg *entities.PGAccommodation) error {
	return a.upsert(ctx, pgDocument(pg))
}

func (a *TypesenseAdapter) upsert(ctx context.Context, document map[string]interface{}) error {
	_, err := a.client.Client().Collection(tsclient.ListingsCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index listing %v: %w", document["id"], err)
	}
	return nil
}

// Search runs a text query over title, description and address
func (a *TypesenseAdapter) Search(ctx context.Context, params repositories.SearchParams) ([]repositories.SearchHit, error) {
	result, err := a.client.Client().Collection(tsclient.ListingsCollection).Documents().Search(ctx, buildSearchParams(params))
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}

	hits := []repositories.SearchHit{}
	if result.Hits == nil {
		return hits, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		hits = append(hits, hitFromDocument(*hit.Document))
	}
	return hits, nil
}

func buildSearchParams(params repositories.SearchParams) *api.SearchCollectionParams {
	q := strings.TrimSpace(params.Query)
	if q == "" {
		q = "*"
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	sp := &api.SearchCollectionParams{
		Q:       pointer.String(q),
		QueryBy: pointer.String("title,description,address"),
		PerPage: pointer.Int(limit),
	}
	if params.Collection != "" {
		sp.FilterBy = pointer.String(fmt.Sprintf("collection:=%s", params.Collection))
	}
	return sp
}

func marketplaceDocument(l *entities.MarketplaceListing) map[string]interface{} {
	return map[string]interface{}{
		"id":          l.ID,
		"collection":  string(entities.CollectionMarketplace),
		"title":       l.Title,
		"description": l.Description,
		"category_id": l.CategoryID,
		"price":       l.Price,
		"created_at":  l.CreatedAt.Unix(),
	}
}

func pgDocument(pg *entities.PGAccommodation) map[string]interface{} {
	return map[string]interface{}{
		"id":          pg.ID,
		"collection":  string(entities.CollectionPG),
		"title":       pg.Title,
		"description": pg.Description,
		"address":     pg.Address,
		"room_type":   string(pg.RoomType),
		"price":       pg.RentPerMonth,
		"created_at":  pg.CreatedAt.Unix(),
	}
}

// Typesense returns map[string]interface{}, so every field is cast safely.
func hitFromDocument(doc map[string]interface{}) repositories.SearchHit {
	var hit repositories.SearchHit
	if v, ok := doc["id"].(string); ok {
		hit.ID = v
	}
	if v, ok := doc["collection"].(string); ok {
		hit.Collection = entities.Collection(v)
	}
	if v, ok := doc["title"].(string); ok {
		hit.Title = v
	}
	if v, ok := doc["price"].(float64); ok {
		hit.Price = v
	}
	return hit
}
