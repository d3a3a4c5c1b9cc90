package database

import (
	"gorm.io/gorm"

	"github.com/wjy1814-droid/memos/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
// Order matters: referenced tables migrate before the tables holding
// foreign keys into them.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Memo{},
		&models.GroupInvite{},
	)
}
