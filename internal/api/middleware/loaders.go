package middleware

import (
	"net/http"

	"github.com/zatekoja/campushub/internal/domain/repositories"
	"github.com/zatekoja/campushub/internal/loaders"
)

// LoadersMiddleware attaches fresh dataloaders to each request so joins are
// batched and cached for that request only.
func LoadersMiddleware(profiles repositories.ProfileRepository, categories repositories.CategoryRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := loaders.WithLoaders(r.Context(), loaders.NewLoaders(profiles, categories))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
