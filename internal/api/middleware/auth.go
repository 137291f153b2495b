package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
)

type sessionKey struct{}

// ProfileLookup resolves the profile of a verified user
type ProfileLookup interface {
	GetByID(ctx context.Context, id string) (*entities.UserProfile, error)
}

// accessClaims are the claims of a Supabase-style access token
type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var errMissingSubject = errors.New("token has no subject")

// AuthMiddleware verifies an optional HS256 bearer token and attaches the
// resulting session. Requests without a token continue signed out; a bad
// token is rejected with 401.
func AuthMiddleware(secret string, profiles ProfileLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || secret == "" {
				writeError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			user, err := verifyToken(token, secret)
			if err != nil {
				observability.LoggerFromContext(r.Context()).Debug().Err(err).Msg("rejected bearer token")
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			session := &entities.Session{User: user}
			if profiles != nil {
				profile, err := profiles.GetByID(r.Context(), user.ID)
				if err != nil {
					observability.LoggerFromContext(r.Context()).Warn().Err(err).Str("user_id", user.ID).Msg("failed to load session profile")
				}
				session.Profile = profile
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func verifyToken(raw, secret string) (*entities.AuthUser, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errMissingSubject
	}
	return &entities.AuthUser{ID: claims.Subject, Email: claims.Email}, nil
}

// SessionFromContext returns the request's session, nil when signed out
func SessionFromContext(ctx context.Context) *entities.Session {
	s, _ := ctx.Value(sessionKey{}).(*entities.Session)
	return s
}

// WithSession returns a copy of ctx carrying session
func WithSession(ctx context.Context, session *entities.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
