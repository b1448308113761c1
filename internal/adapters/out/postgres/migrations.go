package postgres

import (
	"fmt"

	"sendit/internal/adapters/out/postgres/parcelrepo"
	"sendit/internal/adapters/out/postgres/userrepo"

	"gorm.io/gorm"
)

// Migrate creates or alters the users and parcels tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userrepo.UserDTO{}, &parcelrepo.ParcelDTO{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
