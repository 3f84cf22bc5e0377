// scout/types/chat.go
package types

type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Content   string `json:"content"`
}

type ChatResponse struct {
	SessionID string       `json:"session_id"`
	Response  string       `json:"response"`
	ToolCalls []ToolResult `json:"tool_calls,omitempty"`
}

// ChatSessionSummary is one row in the sessions panel.
// LastActivity: RFC3339 string
type ChatSessionSummary struct {
	SessionID       string `json:"session_id"`
	Title           string `json:"title"`
	LastMessage     string `json:"last_message"`
	LastMessageRole string `json:"last_message_role"`
	LastActivity    string `json:"last_activity"`
}
