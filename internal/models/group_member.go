package models

import "time"

// Role is a membership role within a group.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// GroupMember links a user to a group with a role. A user appears at most
// once per group.
type GroupMember struct {
	BaseModel

	GroupID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_group_members_group_user" json:"group_id"`
	UserID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_group_members_group_user" json:"user_id"`
	Role     Role      `gorm:"type:varchar(16);not null;default:member" json:"role"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`

	Group *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
