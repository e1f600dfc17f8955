package dao

import (
	"context"

	"scout/scout/sources/psql/models"
	"scout/scout/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatDAO struct {
	DB *gorm.DB
}

func NewChatDAO(db *gorm.DB) *ChatDAO {
	return &ChatDAO{DB: db}
}

func (dao *ChatDAO) CreateChat(ctx context.Context, chat *models.Chat) error {
	return dao.DB.WithContext(ctx).Create(chat).Error
}

// GetChatByID loads a chat with its messages in insertion order.
// Returns nil when the chat does not exist.
func (dao *ChatDAO) GetChatByID(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	err := dao.DB.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.id ASC")
		}).
		First(&chat, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (dao *ChatDAO) ListChats(ctx context.Context, limit int) ([]models.Chat, error) {
	var chats []models.Chat
	err := dao.DB.WithContext(ctx).
		Order("updated_at desc").
		Limit(limit).
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

func (dao *ChatDAO) UpdateChatTitle(ctx context.Context, id uuid.UUID, title string) (*models.Chat, error) {
	res := dao.DB.WithContext(ctx).
		Model(&models.Chat{}).
		Where("id = ?", id).
		Update("title", title)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return dao.GetChatByID(ctx, id)
}

// DeleteChat removes a chat and, through the FK constraint, its messages.
// Returns false when no chat matched.
func (dao *ChatDAO) DeleteChat(ctx context.Context, id uuid.UUID) (bool, error) {
	res := dao.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Chat{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (dao *ChatDAO) DeleteAllChats(ctx context.Context) error {
	return dao.DB.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Chat{}).Error
}

// SaveMessage inserts one message and touches the owning chat's updated_at
// so recent-chat ordering tracks activity. Both writes share a transaction.
func (dao *ChatDAO) SaveMessage(ctx context.Context, msg *models.Message) error {
	return dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Chat{}).
			Where("id = ?", msg.ChatID).
			Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
	})
}

// GetHistory returns the chat's role/content pairs, oldest first, for
// messages created before beforeID. Pass 0 for the full history.
func (dao *ChatDAO) GetHistory(ctx context.Context, chatID uuid.UUID, beforeID int) ([]types.HistoryEntry, error) {
	q := dao.DB.WithContext(ctx).
		Model(&models.Message{}).
		Where("chat_id = ?", chatID).
		Order("id ASC")
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}
	var history []types.HistoryEntry
	if err := q.Select("role", "content").Scan(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}
