package routes

import (
	"net/http"

	"github.com/zatekoja/campushub/internal/api/handlers"
	"github.com/zatekoja/campushub/internal/api/middleware"
	"github.com/zatekoja/campushub/internal/domain/repositories"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	listingHandler *handlers.ListingHandler
	searchHandler  *handlers.SearchHandler
	chatHandler    *handlers.ChatHandler
	sessionHandler *handlers.SessionHandler

	profiles       repositories.ProfileRepository
	categories     repositories.CategoryRepository
	jwtSecret      string
	allowedOrigins []string
	metrics        *observability.Metrics
}

// Config carries the request pipeline settings
type Config struct {
	Profiles       repositories.ProfileRepository
	Categories     repositories.CategoryRepository
	JWTSecret      string
	AllowedOrigins []string
	Metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	listingHandler *handlers.ListingHandler,
	searchHandler *handlers.SearchHandler,
	chatHandler *handlers.ChatHandler,
	sessionHandler *handlers.SessionHandler,
	cfg Config,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		listingHandler: listingHandler,
		searchHandler:  searchHandler,
		chatHandler:    chatHandler,
		sessionHandler: sessionHandler,
		profiles:       cfg.Profiles,
		categories:     cfg.Categories,
		jwtSecret:      cfg.JWTSecret,
		allowedOrigins: cfg.AllowedOrigins,
		metrics:        cfg.Metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Listings
	r.mux.HandleFunc("GET /api/categories", r.listingHandler.ListCategories)
	r.mux.HandleFunc("GET /api/marketplace", r.listingHandler.ListMarketplace)
	r.mux.HandleFunc("POST /api/marketplace", r.listingHandler.CreateMarketplace)
	r.mux.HandleFunc("GET /api/pg", r.listingHandler.ListPG)
	r.mux.HandleFunc("POST /api/pg", r.listingHandler.CreatePG)

	r.mux.HandleFunc("GET /api/search", r.searchHandler.Search)

	// Assistant
	r.mux.HandleFunc("GET /api/chat", r.chatHandler.GetTranscript)
	r.mux.HandleFunc("POST /api/chat", r.chatHandler.SendMessage)

	r.mux.HandleFunc("GET /api/me", r.sessionHandler.Me)

	// Outermost first: CORS answers preflights before auth sees them.
	var handler http.Handler = r.mux
	handler = middleware.LoadersMiddleware(r.profiles, r.categories)(handler)
	handler = middleware.AuthMiddleware(r.jwtSecret, r.profiles)(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)
	return handler
}
