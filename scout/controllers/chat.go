// scout/controllers/chat.go
package controllers

import (
	"context"
	"errors"
	"time"

	"scout/scout/services/agent"
	"scout/scout/sources/psql/dao"
	"scout/scout/sources/psql/models"
	"scout/scout/types"
	"scout/scout/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var ErrChatNotFound = errors.New("chat not found")

type ChatController struct {
	chatDAO *dao.ChatDAO
	agent   *agent.ResearchAgent
}

func NewChatController(chatDAO *dao.ChatDAO, agent *agent.ResearchAgent) *ChatController {
	return &ChatController{chatDAO: chatDAO, agent: agent}
}

func (c *ChatController) CreateChat(ctx context.Context, title string) (*models.Chat, error) {
	if title == "" {
		title = "New Chat"
	}
	chat := &models.Chat{Title: title, Messages: []models.Message{}}
	if err := c.chatDAO.CreateChat(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (c *ChatController) GetChat(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	chat, err := c.chatDAO.GetChatByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	return chat, nil
}

func (c *ChatController) ListChats(ctx context.Context, limit int) ([]models.Chat, error) {
	if limit <= 0 {
		limit = 10
	}
	return c.chatDAO.ListChats(ctx, limit)
}

func (c *ChatController) RenameChat(ctx context.Context, id uuid.UUID, title string) (*models.Chat, error) {
	chat, err := c.chatDAO.UpdateChatTitle(ctx, id, title)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	return chat, nil
}

func (c *ChatController) DeleteChat(ctx context.Context, id uuid.UUID) error {
	deleted, err := c.chatDAO.DeleteChat(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrChatNotFound
	}
	return nil
}

func (c *ChatController) DeleteAllChats(ctx context.Context) error {
	return c.chatDAO.DeleteAllChats(ctx)
}

// StreamMessage persists the user message, drives the agent, and forwards
// its events. The assistant message is written only after a done event has
// been observed, so an aborted or failed stream never persists partial
// output. The trailing complete event is emitted here, after persistence.
func (c *ChatController) StreamMessage(ctx context.Context, chatID uuid.UUID, content string) (<-chan types.AgentEvent, error) {
	chat, err := c.chatDAO.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}

	userMsg := &models.Message{ChatID: chatID, Role: "user", Content: content}
	if err := c.chatDAO.SaveMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	// History excludes the message just added.
	history, err := c.chatDAO.GetHistory(ctx, chatID, userMsg.ID)
	if err != nil {
		return nil, err
	}

	events := c.agent.Respond(ctx, content, history)
	out := make(chan types.AgentEvent)

	go func() {
		defer close(out)

		forward := func(ev types.AgentEvent) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var collectedText string
		var collectedThinking string
		var collectedSources []types.Source
		doneSeen := false

		for ev := range events {
			switch ev.Type {
			case types.EventText:
				collectedText += ev.Content
			case types.EventThinking:
				collectedThinking += ev.Content + "\n"
			case types.EventDone:
				doneSeen = true
				collectedSources = ev.Sources
				if ev.Thinking != "" {
					collectedThinking += ev.Thinking
				}
			case types.EventError:
				forward(ev)
				return
			case types.EventComplete:
				// the controller writes its own complete after persistence
				continue
			}
			if !forward(ev) {
				return
			}
		}

		if !doneSeen {
			return
		}

		// Fresh context: the write must survive a client disconnect once
		// the response is fully collected.
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assistantMsg := &models.Message{
			ChatID:   chatID,
			Role:     "assistant",
			Content:  collectedText,
			Thinking: collectedThinking,
		}
		if len(collectedSources) > 0 {
			assistantMsg.Sources = datatypes.NewJSONSlice(collectedSources)
		}
		if err := c.chatDAO.SaveMessage(saveCtx, assistantMsg); err != nil {
			logging.ErrorLogger.Error("assistant message save failed",
				zap.String("chat_id", chatID.String()), zap.Error(err))
			forward(types.AgentEvent{Type: types.EventError, Content: "Error: failed to save response"})
			return
		}

		forward(types.AgentEvent{Type: types.EventComplete})
	}()

	return out, nil
}
