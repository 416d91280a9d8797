package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"glowfeed-api/models"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// InsertMessage persists a chat turn and returns the stored row. The server
// issues the id and timestamp here; callers holding a provisional message
// replace it with the returned one.
func (r *MessageRepository) InsertMessage(ctx context.Context, userID, role, content string) (*models.ChatMessage, error) {
	msg := models.ChatMessage{
		ID:        uuid.New().String(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// FetchMessages returns a user's conversation history, oldest first.
func (r *MessageRepository) FetchMessages(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
