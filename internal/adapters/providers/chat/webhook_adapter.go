package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/providers"
	"github.com/zatekoja/campushub/pkg/config"
)

// UnreadableReply is returned when the webhook answers without any text
const UnreadableReply = "Sorry, I couldn't understand that. Please try again."

// ErrNotConfigured is returned by the offline provider
var ErrNotConfigured = errors.New("chat webhook is not configured")

// WebhookAdapter posts chat messages to an automation webhook
type WebhookAdapter struct {
	url        string
	httpClient *http.Client
}

// webhookResponse accepts either reply key the workflow may use
type webhookResponse struct {
	Response string `json:"response"`
	Message  string `json:"message"`
}

// NewChatProvider returns the webhook adapter, or an offline provider when
// no URL is configured so every message gets the fallback reply.
func NewChatProvider(cfg config.ChatConfig) providers.ChatProvider {
	if cfg.WebhookURL == "" {
		return OfflineProvider{}
	}
	return NewWebhookAdapter(cfg.WebhookURL, cfg.Timeout)
}

// NewWebhookAdapter creates a webhook adapter. A zero timeout means 30s.
func NewWebhookAdapter(url string, timeout time.Duration) *WebhookAdapter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WebhookAdapter{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send posts req and returns the reply text. Any non-2xx status is an error.
func (w *WebhookAdapter) Send(ctx context.Context, req entities.ChatRequest) (string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat webhook error (status %d): %s", resp.StatusCode, string(body))
	}

	var reply webhookResponse
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	switch {
	case reply.Response != "":
		return reply.Response, nil
	case reply.Message != "":
		return reply.Message, nil
	}
	return UnreadableReply, nil
}

// OfflineProvider fails every send
type OfflineProvider struct{}

// Send always returns ErrNotConfigured
func (OfflineProvider) Send(context.Context, entities.ChatRequest) (string, error) {
	return "", ErrNotConfigured
}
