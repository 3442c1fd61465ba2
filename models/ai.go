package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AIInteraction is an immutable log row for one prompt/response pair.
// UserID is nil for anonymous usage, which is tracked by session only.
type AIInteraction struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	UserID    *string `gorm:"index" json:"user_id,omitempty"`
	SessionID string  `gorm:"not null;index" json:"session_id"`

	Prompt     string  `gorm:"not null" json:"prompt"`
	Response   string  `gorm:"not null" json:"response"`
	Model      string  `gorm:"not null;default:'gpt-4'" json:"model"`
	TokensUsed int     `json:"tokens_used"`
	ContentID  *string `gorm:"index" json:"content_id,omitempty"`
	Meta       JSONMap `gorm:"type:jsonb" json:"meta,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	User    *User    `json:"-"`
	Content *Content `json:"-"`
}

func (a *AIInteraction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// JSONMap stores loosely structured metadata as a JSON column
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}
