package models

import (
	"time"

	"scout/scout/types"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Message struct {
	ID        int                               `json:"id" gorm:"primaryKey;autoIncrement"`
	ChatID    uuid.UUID                         `json:"chat_id" gorm:"type:uuid;not null;index"`
	Chat      Chat                              `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnDelete:CASCADE"`
	Role      string                            `json:"role" gorm:"type:varchar(50);not null"`
	Content   string                            `json:"content" gorm:"type:text;not null"`
	Sources   datatypes.JSONSlice[types.Source] `json:"sources,omitempty"`
	Thinking  string                            `json:"thinking,omitempty" gorm:"type:text"`
	CreatedAt time.Time                         `json:"created_at" gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}
