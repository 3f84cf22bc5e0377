package llm

import (
	"context"
	"encoding/json"
	"io"

	"go.uber.org/zap"

	httputils "scout/scout/utils/http"
	"scout/scout/utils/logging"
)

type OllamaClient struct {
	baseURL string
	model   string
}

// NewOllamaClient talks to a local Ollama server. host is the server root,
// e.g. "http://localhost:11434".
func NewOllamaClient(host, model string) *OllamaClient {
	return &OllamaClient{baseURL: host + "/api", model: model}
}

type ChatRequest struct {
	Model    string      `json:"model"`
	Messages []Message   `json:"messages"`
	Stream   bool        `json:"stream"`
	Options  interface{} `json:"options,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

// Run sends a full message history and returns the single completed reply.
func (c *OllamaClient) Run(ctx context.Context, messages []Message) (string, error) {
	defer logging.LogDuration(ctx, "llm_run")()
	req := ChatRequest{Model: c.model, Messages: messages}
	var resp ChatResponse
	if err := httputils.PostJSON(ctx, c.baseURL+"/chat", req, &resp); err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// RunStream sends the same request with streaming enabled and emits content
// chunks on the returned channel until the server signals done.
func (c *OllamaClient) RunStream(ctx context.Context, messages []Message) (<-chan string, error) {
	defer logging.LogDuration(ctx, "llm_run_stream")()

	req := ChatRequest{Model: c.model, Messages: messages, Stream: true}
	body, err := httputils.PostStream(ctx, c.baseURL+"/chat", req)
	if err != nil {
		return nil, err
	}

	ch := make(chan string)

	go func() {
		defer func() {
			close(ch)
			body.Close()
		}()

		decoder := json.NewDecoder(body)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			var chunk ChatResponse
			if err := decoder.Decode(&chunk); err != nil {
				if err != io.EOF {
					logging.ErrorLogger.Error("llm stream decode error", zap.Error(err))
				}
				return
			}
			if chunk.Done {
				return
			}
			select {
			case ch <- chunk.Message.Content:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
