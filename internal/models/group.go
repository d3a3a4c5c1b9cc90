package models

// Group is a shared memo space. The owner always has a matching
// group_members row with RoleOwner, created in the same transaction as the
// group itself.
type Group struct {
	BaseModel

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	OwnerID     string `gorm:"type:uuid;not null;index" json:"owner_id"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}
