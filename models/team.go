package models

import "time"

// Team roles, lowest to highest privilege.
const (
	RoleMember  = "member"
	RoleCreator = "creator"
	RoleAdmin   = "admin"
	RoleOwner   = "owner"
)

// Invite lifecycle states.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusExpired  = "expired"
)

// InviteTTL is how long a pending invitation stays redeemable.
const InviteTTL = 7 * 24 * time.Hour

// Team represents a tenant owning content and members
type Team struct {
	Base
	Name    string `gorm:"not null" json:"name"`
	Slug    string `gorm:"uniqueIndex;not null" json:"slug"`
	Logo    string `json:"logo"`
	OwnerID string `gorm:"not null;index" json:"owner_id"`

	// Relations
	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// TeamMember relates a user to a team with exactly one role
type TeamMember struct {
	Base
	TeamID string `gorm:"not null;index" json:"team_id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	Role   string `gorm:"default:'member'" json:"role"` // member, creator, admin, owner

	// Relations
	Team Team `json:"-"`
	User User `json:"-"`
}

// TeamInvite is a pending, single-use invitation keyed by token
type TeamInvite struct {
	Base
	TeamID    string    `gorm:"not null;index" json:"team_id"`
	Email     string    `gorm:"not null;index" json:"email"`
	Role      string    `gorm:"default:'member'" json:"role"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	Status    string    `gorm:"default:'pending';index" json:"status"` // pending, accepted, expired
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	// Relations
	Team Team `json:"-"`
}
