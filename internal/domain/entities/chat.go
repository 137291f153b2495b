package entities

import "time"

// ChatRole tells who wrote a chat message
type ChatRole string

const (
	ChatRoleUser ChatRole = "user"
	ChatRoleBot  ChatRole = "bot"
)

// ChatMessage is one entry of an assistant transcript
type ChatMessage struct {
	ID        string    `json:"id"`
	Type      ChatRole  `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest is the payload posted to the assistant webhook
type ChatRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"userId"`
	Timestamp string `json:"timestamp"`
}
