package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/campushub/internal/api/handlers"
	"github.com/zatekoja/campushub/internal/application/services"
	"github.com/zatekoja/campushub/internal/domain/entities"
)

type emptyMarketplaceSource struct{}

func (emptyMarketplaceSource) ListMarketplace(ctx context.Context) ([]*entities.MarketplaceListing, error) {
	return nil, nil
}

func (emptyMarketplaceSource) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	return nil, nil
}

type emptyPGSource struct{}

func (emptyPGSource) ListPG(ctx context.Context) ([]*entities.PGAccommodation, error) {
	return nil, nil
}

func newTestRouter() http.Handler {
	chat := services.NewChatService(nil, nil)
	router := NewRouter(
		handlers.NewListingHandler(services.NewMarketplaceView(emptyMarketplaceSource{}), services.NewPGView(emptyPGSource{}), nil, nil),
		handlers.NewSearchHandler(nil),
		handlers.NewChatHandler(func(id string) handlers.ChatTranscript { return chat.Session(id) }),
		handlers.NewSessionHandler(),
		Config{JWTSecret: "secret"},
	)
	return router.SetupRoutes()
}

func TestRouter_Routes(t *testing.T) {
	h := newTestRouter()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/marketplace", http.StatusOK},
		{http.MethodGet, "/api/pg", http.StatusOK},
		{http.MethodGet, "/api/categories", http.StatusOK},
		{http.MethodGet, "/api/chat", http.StatusOK},
		{http.MethodGet, "/api/me", http.StatusUnauthorized},
		{http.MethodPost, "/api/marketplace", http.StatusBadRequest},
		{http.MethodDelete, "/api/pg", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouter_RejectsBadToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/marketplace", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := httptest.NewRecorder()

	newTestRouter().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
