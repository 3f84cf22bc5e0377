// scout/types/tool.go
package types

import "encoding/json"

// ToolCall is one tool invocation requested by the agent.
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ContentPart is one element of a tool result's content envelope,
// either plain text or structured JSON.
type ContentPart struct {
	Type string          `json:"type"` // "text" or "json"
	Text string          `json:"text,omitempty"`
	JSON json.RawMessage `json:"json,omitempty"`
}

type ToolResult struct {
	ToolCallID string        `json:"tool_call_id"`
	Result     interface{}   `json:"result,omitempty"`
	IsError    bool          `json:"is_error"`
	Content    []ContentPart `json:"content"`
}

func TextPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

// JSONPart marshals v into a structured content part. Marshal failures
// degrade to a text part so the envelope is always well formed.
func JSONPart(v interface{}) ContentPart {
	data, err := json.Marshal(v)
	if err != nil {
		return ContentPart{Type: "text", Text: "unencodable result"}
	}
	return ContentPart{Type: "json", JSON: data}
}
