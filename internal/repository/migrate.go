package repository

import (
	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

// AutoMigrate creates the schema for local development and tests. Production
// deployments run SQL migrations instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&hotelModel{},
		&roomModel{},
		&bookingModel{},
		&domain.PaymentSession{},
	)
}
