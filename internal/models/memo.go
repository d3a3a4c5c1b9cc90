package models

// Memo is a note. A nil GroupID marks a personal memo, which group
// endpoints never return. Group memos keep a nullable author reference so
// deleting a user does not destroy the note.
type Memo struct {
	BaseModel

	Content string  `gorm:"type:text;not null" json:"content"`
	GroupID *string `gorm:"type:uuid;index" json:"group_id,omitempty"`
	UserID  *string `gorm:"type:uuid" json:"user_id,omitempty"`

	Group *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}
