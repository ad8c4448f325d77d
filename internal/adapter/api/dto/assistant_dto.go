package dto

import "time"

// AssistantMessageRequest is one user turn of the dialogue
type AssistantMessageRequest struct {
	Message string `json:"message" binding:"required" example:"add 5 M10 nuts to rack 1"`
}

// AssistantMessageResponse is the assistant's reply for one turn
type AssistantMessageResponse struct {
	Reply     string                 `json:"reply"`
	Options   []string               `json:"options,omitempty"`
	Pending   bool                   `json:"pending"`
	Done      bool                   `json:"done"`
	Cancelled bool                   `json:"cancelled"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// HistoryMessage is one stored conversation entry
type HistoryMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role" example:"user"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryResponse is the user's conversation window
type HistoryResponse struct {
	Messages []HistoryMessage `json:"messages"`
	Total    int              `json:"total"`
}

// LoginRequest carries user credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jo@fieldops.dev"`
	Password string `json:"password" binding:"required" example:"secret"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
