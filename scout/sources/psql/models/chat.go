package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatSession struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    int       `json:"user_id" gorm:"not null;index"`
	User      User      `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Title     string    `json:"title" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime"`
}

// BeforeCreate assigns the id in Go so the schema works on any backend.
func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type ChatMessage struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID   `json:"session_id" gorm:"type:uuid;not null;index"`
	Session   ChatSession `json:"-" gorm:"foreignKey:SessionID;references:ID;constraint:OnDelete:CASCADE"`
	Role      string      `json:"role" gorm:"type:varchar(50);not null"`
	Content   string      `json:"content" gorm:"type:text;not null"`
	Timestamp time.Time   `json:"timestamp" gorm:"not null;autoCreateTime"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
