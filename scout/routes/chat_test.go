package routes

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"scout/scout/config"
	"scout/scout/controllers"
	"scout/scout/services/llm"
	"scout/scout/sources/psql/dao"
	"scout/scout/sources/psql/models"
	"scout/scout/types"
	"scout/scout/utils/logging"
)

// wsLLM answers without tool use and streams a fixed pair of chunks.
type wsLLM struct{}

func (wsLLM) Run(_ context.Context, _ []llm.Message) (string, error) {
	return "done", nil
}

func (wsLLM) RunStream(_ context.Context, _ []llm.Message) (<-chan string, error) {
	ch := make(chan string, 2)
	ch <- "Hello "
	ch <- "world"
	close(ch)
	return ch, nil
}

type nullExecutor struct{}

func (nullExecutor) Execute(_ context.Context, call types.ToolCall) types.ToolResult {
	return types.ToolResult{ToolCallID: call.ID}
}

func newWSTestServer(t *testing.T) (*httptest.Server, config.Config, int) {
	t.Helper()
	logging.InitLogger()
	cfg := config.Config{JWTSecret: "test-secret"}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.ChatSession{}, &models.ChatMessage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	user, err := dao.NewUserDAO(db).CreateUser(context.Background(), "ada", "ada@example.com", nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	ctrl := controllers.NewChatController(dao.NewChatDAO(db), wsLLM{}, nullExecutor{})
	srv := httptest.NewServer(ChatRoutes(ctrl, cfg))
	t.Cleanup(srv.Close)
	return srv, cfg, user.ID
}

func wsToken(t *testing.T, cfg config.Config, userID int) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func dialWS(t *testing.T, ctx context.Context, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestChatWebSocketStreamsThenClosesNormally(t *testing.T) {
	srv, cfg, userID := newWSTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn := dialWS(t, ctx, srv)
	defer conn.Close(websocket.StatusNormalClosure, "")

	first, _ := json.Marshal(map[string]interface{}{
		"token":        wsToken(t, cfg, userID),
		"chat_request": types.ChatRequest{Content: "hi"},
	})
	if err := conn.Write(ctx, websocket.MessageText, first); err != nil {
		t.Fatalf("write first frame: %v", err)
	}

	var chunks []string
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				t.Fatalf("expected normal closure after chunks, got %v", err)
			}
			break
		}
		if strings.Contains(string(data), `"error"`) {
			t.Fatalf("unexpected error frame: %s", data)
		}
		chunks = append(chunks, string(data))
	}
	if got := strings.Join(chunks, ""); got != "Hello world" {
		t.Errorf("expected streamed reply in order, got %q", got)
	}
}

func TestChatWebSocketReportsStreamErrorAfterChunks(t *testing.T) {
	srv, cfg, userID := newWSTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn := dialWS(t, ctx, srv)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// a session id the user does not own fails the stream before any chunk
	first, _ := json.Marshal(map[string]interface{}{
		"token":        wsToken(t, cfg, userID),
		"chat_request": types.ChatRequest{SessionID: "not-a-session", Content: "hi"},
	})
	if err := conn.Write(ctx, websocket.MessageText, first); err != nil {
		t.Fatalf("write first frame: %v", err)
	}

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("expected an error frame before close, got %v", err)
	}
	if !strings.Contains(string(data), `"error"`) {
		t.Errorf("expected error frame, got %s", data)
	}
}
