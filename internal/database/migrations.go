package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/shiningprism/prism-auth/internal/models"
)

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		return fmt.Errorf("migrate accounts: %w", err)
	}
	return nil
}
