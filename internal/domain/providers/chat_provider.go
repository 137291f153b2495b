package providers

import (
	"context"

	"github.com/zatekoja/campushub/internal/domain/entities"
)

// ChatProvider forwards one user message to the assistant backend and
// returns its reply text.
type ChatProvider interface {
	Send(ctx context.Context, req entities.ChatRequest) (string, error)
}
