package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base holds the columns shared by every table. Primary keys are opaque
// strings generated at insert time.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// User represents a registered account
type User struct {
	Base
	Email            string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string `gorm:"not null" json:"-"`
	Name             string `json:"name"`
	AvatarURL        string `json:"avatar_url"`
	ProAccount       bool   `gorm:"default:false" json:"pro_account"`
	StripeCustomerID string `json:"-"`
	TokenVersion     int    `gorm:"default:0" json:"-"`

	// Relations
	Memberships []TeamMember `gorm:"foreignKey:UserID" json:"-"`
}

// RefreshToken stores issued refresh tokens so they can be revoked
type RefreshToken struct {
	Base
	UserID    string     `gorm:"not null;index" json:"user_id"`
	Token     string     `gorm:"uniqueIndex;not null" json:"-"`
	UserAgent string     `json:"user_agent"`
	IP        string     `json:"ip"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}
