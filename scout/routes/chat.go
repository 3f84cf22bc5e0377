package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"scout/scout/config"
	"scout/scout/controllers"
	"scout/scout/middlewares"
	"scout/scout/types"
)

func ChatRoutes(ctrl *controllers.ChatController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// POST /chat/ : send message, runs the tool loop
		gr.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req types.ChatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			resp, err := ctrl.Chat(r.Context(), userID, req)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(resp)
		})

		// GET /chat/sessions : list the user's sessions
		gr.Get("/sessions", func(w http.ResponseWriter, r *http.Request) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			sessions, err := ctrl.ListSessions(r.Context(), userID)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(sessions)
		})

		gr.Get("/session/{session_id}/messages", func(w http.ResponseWriter, r *http.Request) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			sessionID := chi.URLParam(r, "session_id")
			msgs, err := ctrl.GetMessagesForSession(r.Context(), userID, sessionID)
			if err != nil {
				if errors.Is(err, controllers.ErrSessionForbidden) {
					http.Error(w, err.Error(), http.StatusNotFound)
				} else {
					http.Error(w, err.Error(), http.StatusInternalServerError)
				}
				return
			}
			json.NewEncoder(w).Encode(msgs)
		})

		gr.Delete("/session/{session_id}", func(w http.ResponseWriter, r *http.Request) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			sessionID := chi.URLParam(r, "session_id")
			if err := ctrl.DeleteSession(r.Context(), userID, sessionID); err != nil {
				if errors.Is(err, controllers.ErrSessionForbidden) {
					http.Error(w, err.Error(), http.StatusNotFound)
				} else {
					http.Error(w, err.Error(), http.StatusInternalServerError)
				}
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})

	// /chat/ws : streaming chat; the token rides in the first frame because
	// browsers cannot set headers on websocket upgrades.
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var input struct {
			Token       string            `json:"token"`
			ChatRequest types.ChatRequest `json:"chat_request"`
		}
		if err := json.Unmarshal(data, &input); err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
			return
		}

		token, err := jwt.Parse(input.Token, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid token"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid claims"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid claims")
			return
		}
		userIDf, ok := claims["user_id"].(float64)
		if !ok {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid user_id"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid user_id")
			return
		}
		userID := int(userIDf)

		// One writer only: forward chunks first, then report any stream
		// error once the chunk channel has closed.
		ch, errCh := ctrl.ChatStream(ctx, userID, input.ChatRequest)
		for chunk := range ch {
			if err := conn.Write(ctx, websocket.MessageText, []byte(chunk)); err != nil {
				return
			}
		}
		if err := <-errCh; err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"`+err.Error()+`"}`))
			conn.Close(websocket.StatusInternalError, "stream error")
			return
		}
		conn.Close(websocket.StatusNormalClosure, "")
	})
	return r
}
