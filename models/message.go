package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// localIDPrefix marks ids generated on this server before (or instead of)
	// a database-issued id: optimistic user messages awaiting their insert,
	// and assistant messages whose save failed.
	localIDPrefix = "local-"
)

type ChatMessage struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;index"`
	Role      string    `json:"role" gorm:"not null;size:20"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLocalMessageID returns a provisional, time-based message id.
func NewLocalMessageID() string {
	return fmt.Sprintf("%s%d", localIDPrefix, time.Now().UnixNano())
}

// IsLocalID reports whether id was generated locally rather than persisted.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix)
}
