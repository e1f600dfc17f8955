package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"scout/scout/controllers"
	"scout/scout/sources/psql/models"
	"scout/scout/types"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// crudTimeout caps non-streaming requests. Message streams are mounted
// outside the timed group and run for as long as the model talks.
var crudTimeout = 60 * time.Second

func ChatRoutes(ctrl *controllers.ChatController) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(middleware.Timeout(crudTimeout))

		// POST /api/chat : create a conversation
		gr.Post("/chat", func(w http.ResponseWriter, r *http.Request) {
			var req types.CreateChatRequest
			// an empty body is fine, the title defaults; a malformed one is not
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}
			chat, err := ctrl.CreateChat(r.Context(), req.Title)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, chat)
		})

		// GET /api/chats?limit=N : recent chats, most recently active first
		gr.Get("/chats", func(w http.ResponseWriter, r *http.Request) {
			limit := 10
			if v := r.URL.Query().Get("limit"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil {
					http.Error(w, "invalid limit", http.StatusBadRequest)
					return
				}
				limit = n
			}
			chats, err := ctrl.ListChats(r.Context(), limit)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			for i := range chats {
				if chats[i].Messages == nil {
					chats[i].Messages = []models.Message{}
				}
			}
			writeJSON(w, chats)
		})

		// DELETE /api/chats : clear everything
		gr.Delete("/chats", func(w http.ResponseWriter, r *http.Request) {
			if err := ctrl.DeleteAllChats(r.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		// GET /api/chat/{id} : one chat with ordered messages
		gr.Get("/chat/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := parseChatID(w, r)
			if !ok {
				return
			}
			chat, err := ctrl.GetChat(r.Context(), id)
			if err != nil {
				writeChatError(w, err)
				return
			}
			if chat.Messages == nil {
				chat.Messages = []models.Message{}
			}
			writeJSON(w, chat)
		})

		// PATCH /api/chat/{id} : rename
		gr.Patch("/chat/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := parseChatID(w, r)
			if !ok {
				return
			}
			var req types.UpdateChatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
				http.Error(w, "title is required", http.StatusBadRequest)
				return
			}
			chat, err := ctrl.RenameChat(r.Context(), id, req.Title)
			if err != nil {
				writeChatError(w, err)
				return
			}
			if chat.Messages == nil {
				chat.Messages = []models.Message{}
			}
			writeJSON(w, chat)
		})

		// DELETE /api/chat/{id} : remove chat and all its messages
		gr.Delete("/chat/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := parseChatID(w, r)
			if !ok {
				return
			}
			if err := ctrl.DeleteChat(r.Context(), id); err != nil {
				writeChatError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})

	// POST /api/chat/{id}/message : send a message, stream the response
	r.Post("/chat/{id}/message", func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseChatID(w, r)
		if !ok {
			return
		}
		var req types.SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
			http.Error(w, "content is required", http.StatusBadRequest)
			return
		}

		events, err := ctrl.StreamMessage(r.Context(), id, req.Content)
		if err != nil {
			writeChatError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		flusher, canFlush := w.(http.Flusher)

		for ev := range events {
			frame, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", frame); err != nil {
				return
			}
			if canFlush {
				flusher.Flush()
			}
		}
	})

	// GET /api/chat/{id}/ws : websocket variant of the message stream
	r.HandleFunc("/chat/{id}/ws", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid chat id", http.StatusBadRequest)
			return
		}
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
		var req types.SendMessageRequest
		if err := json.Unmarshal(data, &req); err != nil || req.Content == "" {
			conn.Write(ctx, websocket.MessageText, []byte(`{"type":"error","content":"content is required"}`))
			conn.Close(websocket.StatusPolicyViolation, "bad request")
			return
		}

		events, err := ctrl.StreamMessage(ctx, id, req.Content)
		if err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"type":"error","content":"`+err.Error()+`"}`))
			conn.Close(websocket.StatusInternalError, "stream error")
			return
		}

		for ev := range events {
			frame, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
				return
			}
		}
		conn.Close(websocket.StatusNormalClosure, "")
	})

	return r
}

func parseChatID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid chat id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeChatError(w http.ResponseWriter, err error) {
	if errors.Is(err, controllers.ErrChatNotFound) {
		http.Error(w, "Chat not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
