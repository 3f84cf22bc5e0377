package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"scout/scout/services/llm"
	"scout/scout/services/toolcall"
	"scout/scout/sources/psql/dao"
	"scout/scout/sources/psql/models"
	"scout/scout/types"
	"scout/scout/utils/jsonutils"
)

// maxToolTurns caps how many tool calls the model may chain in one turn
// before it is forced to answer.
const maxToolTurns = 4

// LLMClient lets tests stand in for the Ollama client.
type LLMClient interface {
	Run(ctx context.Context, messages []llm.Message) (string, error)
	RunStream(ctx context.Context, messages []llm.Message) (<-chan string, error)
}

// ToolExecutor is satisfied by *toolcall.Orchestrator.
type ToolExecutor interface {
	Execute(ctx context.Context, call types.ToolCall) types.ToolResult
}

type ChatController struct {
	chatDAO *dao.ChatDAO
	llm     LLMClient
	tools   ToolExecutor
}

func NewChatController(chatDAO *dao.ChatDAO, llmClient LLMClient, tools ToolExecutor) *ChatController {
	return &ChatController{chatDAO: chatDAO, llm: llmClient, tools: tools}
}

// Chat runs one user turn: save the message, let the model chain tool calls,
// save and return the final reply along with every tool result produced.
func (c *ChatController) Chat(ctx context.Context, userID int, req types.ChatRequest) (*types.ChatResponse, error) {
	session, err := c.resolveSession(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	if _, err := c.chatDAO.SaveMessage(ctx, session.ID, "user", req.Content); err != nil {
		return nil, err
	}

	messages, err := c.buildMessages(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	var reply string
	var toolResults []types.ToolResult
	for turn := 0; turn <= maxToolTurns; turn++ {
		reply, err = c.llm.Run(ctx, messages)
		if err != nil {
			return nil, err
		}
		call, ok := parseToolDirective(reply)
		if !ok || turn == maxToolTurns {
			break
		}
		result := c.tools.Execute(ctx, call)
		toolResults = append(toolResults, result)
		messages = append(messages,
			llm.Message{Role: "assistant", Content: reply},
			llm.Message{Role: "user", Content: "Tool result:\n" + renderToolResult(result)},
		)
	}

	if _, err := c.chatDAO.SaveMessage(ctx, session.ID, "assistant", reply); err != nil {
		return nil, err
	}
	return &types.ChatResponse{
		SessionID: session.ID.String(),
		Response:  reply,
		ToolCalls: toolResults,
	}, nil
}

// ChatStream runs the tool loop synchronously, then streams the final answer
// chunk by chunk. The full reply is persisted once the stream completes.
func (c *ChatController) ChatStream(ctx context.Context, userID int, req types.ChatRequest) (<-chan string, <-chan error) {
	ch := make(chan string)
	errCh := make(chan error, 1)

	fail := func(err error) (<-chan string, <-chan error) {
		errCh <- err
		close(ch)
		close(errCh)
		return ch, errCh
	}

	session, err := c.resolveSession(ctx, userID, req)
	if err != nil {
		return fail(err)
	}
	if _, err := c.chatDAO.SaveMessage(ctx, session.ID, "user", req.Content); err != nil {
		return fail(err)
	}
	messages, err := c.buildMessages(ctx, session.ID)
	if err != nil {
		return fail(err)
	}

	for turn := 0; turn < maxToolTurns; turn++ {
		reply, err := c.llm.Run(ctx, messages)
		if err != nil {
			return fail(err)
		}
		call, ok := parseToolDirective(reply)
		if !ok {
			break
		}
		result := c.tools.Execute(ctx, call)
		messages = append(messages,
			llm.Message{Role: "assistant", Content: reply},
			llm.Message{Role: "user", Content: "Tool result:\n" + renderToolResult(result)},
		)
	}
	messages = append(messages, llm.Message{Role: "user", Content: "Answer the user directly now. Do not call any tool."})

	stream, err := c.llm.RunStream(ctx, messages)
	if err != nil {
		return fail(err)
	}

	go func() {
		defer close(ch)
		defer close(errCh)
		var full strings.Builder
		for chunk := range stream {
			full.WriteString(chunk)
			select {
			case ch <- chunk:
			case <-ctx.Done():
				return
			}
		}
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := c.chatDAO.SaveMessage(saveCtx, session.ID, "assistant", full.String()); err != nil {
			errCh <- err
		}
	}()

	return ch, errCh
}

// ListSessions shapes the user's sessions for the history panel.
func (c *ChatController) ListSessions(ctx context.Context, userID int) ([]types.ChatSessionSummary, error) {
	sessions, err := c.chatDAO.ListSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]types.ChatSessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summary := types.ChatSessionSummary{
			SessionID:    s.ID.String(),
			Title:        s.Title,
			LastActivity: s.UpdatedAt.Format(time.RFC3339),
		}
		history, err := c.chatDAO.GetChatHistoryBySession(ctx, s.ID)
		if err == nil && len(history) > 0 {
			last := history[len(history)-1]
			summary.LastMessage = last["content"]
			summary.LastMessageRole = last["role"]
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ErrSessionForbidden covers both a missing session and one owned by a
// different user, so callers can't probe for session ids.
var ErrSessionForbidden = errors.New("session not found or forbidden")

func (c *ChatController) ownedSession(ctx context.Context, userID int, sessionID string) (uuid.UUID, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return uuid.Nil, ErrSessionForbidden
	}
	session, err := c.chatDAO.GetSession(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if session == nil || session.UserID != userID {
		return uuid.Nil, ErrSessionForbidden
	}
	return id, nil
}

func (c *ChatController) DeleteSession(ctx context.Context, userID int, sessionID string) error {
	id, err := c.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	return c.chatDAO.DeleteSession(ctx, id)
}

func (c *ChatController) GetMessagesForSession(ctx context.Context, userID int, sessionID string) ([]models.ChatMessage, error) {
	id, err := c.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return c.chatDAO.GetMessagesBySession(ctx, id)
}

// resolveSession creates a session only when the request carries no id. A
// named session must belong to the caller; a foreign or unknown id is an
// error, never a silent new session.
func (c *ChatController) resolveSession(ctx context.Context, userID int, req types.ChatRequest) (*sessionRef, error) {
	if req.SessionID != "" {
		id, err := c.ownedSession(ctx, userID, req.SessionID)
		if err != nil {
			return nil, err
		}
		return &sessionRef{ID: id}, nil
	}
	session, err := c.chatDAO.CreateSession(ctx, userID, sessionTitle(req.Content))
	if err != nil {
		return nil, err
	}
	return &sessionRef{ID: session.ID}, nil
}

type sessionRef struct {
	ID uuid.UUID
}

func sessionTitle(content string) string {
	content = strings.TrimSpace(content)
	if len(content) > 60 {
		content = content[:60]
	}
	return content
}

func (c *ChatController) buildMessages(ctx context.Context, sessionID uuid.UUID) ([]llm.Message, error) {
	history, err := c.chatDAO.GetChatHistoryBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt()})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m["role"], Content: m["content"]})
	}
	return messages, nil
}

func systemPrompt() string {
	return "You are a research assistant with access to web tools.\n" +
		"To use a tool, reply with ONLY a JSON object of the form\n" +
		"{\"tool\": \"<name>\", \"arguments\": {...}} and nothing else.\n" +
		"Available tools:\n" + jsonutils.ToJSON(toolcall.Definitions())
}

type toolDirective struct {
	Tool      string                 `json:"tool"`
	Arguments map[string]interface{} `json:"arguments"`
}

// parseToolDirective recognizes a model reply that is a tool request rather
// than an answer.
func parseToolDirective(reply string) (types.ToolCall, bool) {
	var directive toolDirective
	if err := json.Unmarshal([]byte(jsonutils.ExtractJSON(reply)), &directive); err != nil {
		return types.ToolCall{}, false
	}
	if directive.Tool == "" {
		return types.ToolCall{}, false
	}
	return types.ToolCall{
		ID:        uuid.NewString(),
		Name:      directive.Tool,
		Arguments: directive.Arguments,
	}, true
}

func renderToolResult(result types.ToolResult) string {
	var sb strings.Builder
	for _, part := range result.Content {
		switch part.Type {
		case "text":
			sb.WriteString(part.Text)
		case "json":
			sb.Write(part.JSON)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
