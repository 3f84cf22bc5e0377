package dao

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"scout/scout/sources/psql/models"
)

type ChatDAO struct {
	DB *gorm.DB
}

func NewChatDAO(db *gorm.DB) *ChatDAO {
	return &ChatDAO{DB: db}
}

func (dao *ChatDAO) CreateSession(ctx context.Context, userID int, title string) (*models.ChatSession, error) {
	session := models.ChatSession{
		UserID: userID,
		Title:  title,
	}
	if err := dao.DB.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSession returns nil, nil when the session does not exist.
func (dao *ChatDAO) GetSession(ctx context.Context, sessionID uuid.UUID) (*models.ChatSession, error) {
	var session models.ChatSession
	err := dao.DB.WithContext(ctx).First(&session, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (dao *ChatDAO) ListSessions(ctx context.Context, userID int) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (dao *ChatDAO) SaveMessage(ctx context.Context, sessionID uuid.UUID, role, content string) (*models.ChatMessage, error) {
	msg := models.ChatMessage{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}
	if err := dao.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	// keeps the session's updated_at fresh for ListSessions ordering
	dao.DB.WithContext(ctx).
		Model(&models.ChatSession{}).
		Where("id = ?", sessionID).
		Update("updated_at", msg.Timestamp)
	return &msg, nil
}

// DeleteSession removes a session and its messages. Messages are deleted
// explicitly because foreign-key enforcement varies by backend.
func (dao *ChatDAO) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	if err := dao.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.ChatMessage{}).Error; err != nil {
		return err
	}
	return dao.DB.WithContext(ctx).
		Delete(&models.ChatSession{}, "id = ?", sessionID).Error
}

func (dao *ChatDAO) GetMessagesBySession(ctx context.Context, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := dao.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// GetChatHistoryBySession returns role/content pairs oldest first, shaped for
// an LLM message list.
func (dao *ChatDAO) GetChatHistoryBySession(ctx context.Context, sessionID uuid.UUID) ([]map[string]string, error) {
	var messages []models.ChatMessage
	err := dao.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	history := make([]map[string]string, 0, len(messages))
	for _, m := range messages {
		history = append(history, map[string]string{"role": m.Role, "content": m.Content})
	}
	return history, nil
}
