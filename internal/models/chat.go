package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Chatroom is a conversation thread with the assistant
type Chatroom struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatMessage is one turn of a chatroom
type ChatMessage struct {
	ID         string    `json:"id"`
	ChatroomID string    `json:"chatroom_id"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type ChatReply struct {
	Reply string `json:"reply"`
}

type ChatroomInput struct {
	Title string `json:"title"`
}

type ChatMessageInput struct {
	Message string `json:"message"`
}

// ChatExchange is the pair of messages appended by a single send
type ChatExchange struct {
	UserMessage      ChatMessage `json:"user_message"`
	AssistantMessage ChatMessage `json:"assistant_message"`
}
