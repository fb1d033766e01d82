package repository

import (
	"context"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

type HotelRepository struct {
	db *gorm.DB
}

func NewHotelRepository(db *gorm.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

type hotelModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	OwnerID   int64     `gorm:"column:owner_id;index"`
	Name      string    `gorm:"column:name"`
	City      string    `gorm:"column:city"`
	Address   string    `gorm:"column:address"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (hotelModel) TableName() string { return "hotels" }

func (r *HotelRepository) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	var m hotelModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &domain.Hotel{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		City:      m.City,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
