package handlers

import (
	"net/http"

	"github.com/zatekoja/campushub/internal/api/middleware"
)

// SessionHandler reports the caller's signed-in state
type SessionHandler struct{}

// NewSessionHandler creates a new session handler
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Me handles GET /api/me
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if !session.SignedIn() {
		respondWithError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}
