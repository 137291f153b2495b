package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/providers"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
)

const (
	// ChatGreeting opens every transcript
	ChatGreeting = "Hi there! I'm CampusHub Assistant. How can I help you today? I can help with marketplace questions, PG finding, or general campus info!"

	// ChatFallbackReply answers when the assistant backend cannot be reached
	ChatFallbackReply = "Sorry, I'm having trouble connecting. Please try again later."

	// ChatGuestUser is the user id sent for every message, signed in or not
	ChatGuestUser = "guest"
)

// Defaults for the in-memory session store
const (
	DefaultChatSessionLimit = 1000
	DefaultChatSessionTTL   = 30 * time.Minute
)

// ChatService owns the chat transcripts, one per client session. Sessions
// idle longer than the TTL expire, and past the size limit the least
// recently used one is dropped.
type ChatService struct {
	provider providers.ChatProvider
	metrics  *observability.Metrics
	now      func() time.Time

	limit    int
	ttl      time.Duration
	sessions *expirable.LRU[string, *ChatSession]
}

// ChatServiceOption configures a ChatService
type ChatServiceOption func(*ChatService)

// WithSessionLimits bounds the session store. Non-positive values keep the
// defaults.
func WithSessionLimits(limit int, ttl time.Duration) ChatServiceOption {
	return func(s *ChatService) {
		if limit > 0 {
			s.limit = limit
		}
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewChatService creates a chat service. metrics may be nil.
func NewChatService(provider providers.ChatProvider, metrics *observability.Metrics, opts ...ChatServiceOption) *ChatService {
	s := &ChatService{
		provider: provider,
		metrics:  metrics,
		now:      time.Now,
		limit:    DefaultChatSessionLimit,
		ttl:      DefaultChatSessionTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions = expirable.NewLRU[string, *ChatSession](s.limit, nil, s.ttl)
	return s
}

// Session resumes the live session with id and restarts its idle timer.
// Ids the service did not issue, or that have expired, get a new session
// under a fresh id.
func (s *ChatService) Session(id string) *ChatSession {
	if id != "" {
		if cs, ok := s.sessions.Get(id); ok {
			s.sessions.Add(id, cs)
			return cs
		}
	}

	cs := newChatSession(uuid.NewString(), s.provider, s.metrics, s.now)
	s.sessions.Add(cs.id, cs)
	return cs
}

// SessionCount reports how many sessions are held
func (s *ChatService) SessionCount() int {
	return s.sessions.Len()
}

// ChatSession is one conversation with the assistant
type ChatSession struct {
	id       string
	provider providers.ChatProvider
	metrics  *observability.Metrics
	now      func() time.Time

	mu       sync.Mutex
	messages []entities.ChatMessage
	inFlight bool
}

func newChatSession(id string, provider providers.ChatProvider, metrics *observability.Metrics, now func() time.Time) *ChatSession {
	cs := &ChatSession{id: id, provider: provider, metrics: metrics, now: now}
	cs.messages = []entities.ChatMessage{cs.message(entities.ChatRoleBot, ChatGreeting)}
	return cs
}

// ID returns the session id
func (cs *ChatSession) ID() string {
	return cs.id
}

// Messages returns a copy of the transcript
func (cs *ChatSession) Messages() []entities.ChatMessage {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]entities.ChatMessage(nil), cs.messages...)
}

// Send posts text to the assistant and appends both sides of the exchange.
// Blank text, or a send while another is in flight, is ignored and reports
// false. Backend failures become the fallback reply and are never returned.
func (cs *ChatSession) Send(ctx context.Context, text string) (entities.ChatMessage, bool) {
	text = strings.TrimSpace(text)

	cs.mu.Lock()
	if text == "" || cs.inFlight {
		cs.mu.Unlock()
		return entities.ChatMessage{}, false
	}
	cs.inFlight = true
	sentAt := cs.now()
	cs.messages = append(cs.messages, cs.messageAt(entities.ChatRoleUser, text, sentAt))
	cs.mu.Unlock()

	reply, err := cs.provider.Send(ctx, entities.ChatRequest{
		Message:   text,
		UserID:    ChatGuestUser,
		Timestamp: sentAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("chat_session", cs.id).Msg("chat webhook failed")
		observability.RecordChatFailure(ctx, cs.metrics)
		reply = ChatFallbackReply
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	bot := cs.message(entities.ChatRoleBot, reply)
	cs.messages = append(cs.messages, bot)
	cs.inFlight = false
	return bot, true
}

func (cs *ChatSession) message(role entities.ChatRole, content string) entities.ChatMessage {
	return cs.messageAt(role, content, cs.now())
}

func (cs *ChatSession) messageAt(role entities.ChatRole, content string, at time.Time) entities.ChatMessage {
	return entities.ChatMessage{
		ID:        uuid.NewString(),
		Type:      role,
		Content:   content,
		Timestamp: at,
	}
}
