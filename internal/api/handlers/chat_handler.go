package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zatekoja/campushub/internal/api/middleware"
	"github.com/zatekoja/campushub/internal/domain/entities"
)

// ChatTranscript is one open assistant conversation
type ChatTranscript interface {
	ID() string
	Messages() []entities.ChatMessage
	Send(ctx context.Context, text string) (entities.ChatMessage, bool)
}

// ChatHandler serves the assistant widget
type ChatHandler struct {
	session func(id string) ChatTranscript
}

// NewChatHandler creates a chat handler over a session lookup
func NewChatHandler(session func(id string) ChatTranscript) *ChatHandler {
	return &ChatHandler{session: session}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	SessionID string                 `json:"session_id"`
	Reply     *entities.ChatMessage  `json:"reply,omitempty"`
	Messages  []entities.ChatMessage `json:"messages"`
}

// GetTranscript handles GET /api/chat
func (h *ChatHandler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	cs := h.session(r.Header.Get(middleware.ChatSessionHeader))
	w.Header().Set(middleware.ChatSessionHeader, cs.ID())
	respondWithJSON(w, http.StatusOK, chatResponse{SessionID: cs.ID(), Messages: cs.Messages()})
}

// SendMessage handles POST /api/chat
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondWithError(w, http.StatusBadRequest, "message is required")
		return
	}

	cs := h.session(r.Header.Get(middleware.ChatSessionHeader))
	w.Header().Set(middleware.ChatSessionHeader, cs.ID())

	reply, ok := cs.Send(r.Context(), req.Message)
	if !ok {
		respondWithError(w, http.StatusConflict, "a message is already being answered")
		return
	}

	respondWithJSON(w, http.StatusOK, chatResponse{
		SessionID: cs.ID(),
		Reply:     &reply,
		Messages:  cs.Messages(),
	})
}
