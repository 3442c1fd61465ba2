package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment belongs to one content item and one author. ParentID gives a
// single level of threading via self-reference.
type Comment struct {
	Base
	ContentID string  `gorm:"not null;index" json:"content_id"`
	UserID    string  `gorm:"not null;index" json:"user_id"`
	ParentID  *string `gorm:"index" json:"parent_id,omitempty"`

	Body       string     `gorm:"not null" json:"content"`
	IsApproved bool       `gorm:"not null;default:false" json:"is_approved"`
	FlaggedAt  *time.Time `json:"flagged_at,omitempty"`

	// Relations
	Content Content  `json:"-"`
	User    User     `json:"user,omitempty"`
	Parent  *Comment `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
}

// BeforeCreate forces every new comment through moderation, regardless of
// who wrote it.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	c.IsApproved = false
	return c.Base.BeforeCreate(tx)
}
