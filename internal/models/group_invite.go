package models

import "time"

// GroupInvite is a shareable link code granting membership in a group.
// Invites are never deleted; deactivation flips IsActive and is one-way.
// CurrentUses only ever increases.
type GroupInvite struct {
	BaseModel

	GroupID     string     `gorm:"type:uuid;not null;index" json:"group_id"`
	InviteCode  string     `gorm:"uniqueIndex;not null" json:"invite_code"`
	CreatedBy   string     `gorm:"type:uuid;not null" json:"created_by"`
	ExpiresAt   *time.Time `json:"expires_at"`
	MaxUses     *int       `json:"max_uses"`
	CurrentUses int        `gorm:"not null;default:0" json:"current_uses"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`

	Group   *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"group,omitempty"`
	Creator *User  `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE" json:"-"`
}

// RemainingUses returns max_uses - current_uses, or nil when unlimited.
func (i *GroupInvite) RemainingUses() *int {
	if i.MaxUses == nil {
		return nil
	}
	remaining := *i.MaxUses - i.CurrentUses
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
