package repository

import (
	"context"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/utils"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type roomModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	HotelID       int64     `gorm:"column:hotel_id;index"`
	Name          string    `gorm:"column:name"`
	Description   *string   `gorm:"column:description"`
	PricePerNight int64     `gorm:"column:price_per_night"`
	MaxAdults     int       `gorm:"column:max_adults"`
	MaxChildren   int       `gorm:"column:max_children"`
	Photos        string    `gorm:"column:photos"`
	IsActive      bool      `gorm:"column:is_active"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

func toDomainRoom(m roomModel) *domain.Room {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}
	return &domain.Room{
		ID:            m.ID,
		HotelID:       m.HotelID,
		Name:          m.Name,
		Description:   desc,
		PricePerNight: m.PricePerNight,
		MaxAdults:     m.MaxAdults,
		MaxChildren:   m.MaxChildren,
		Photos:        utils.StringToPhotos(m.Photos),
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRoom(m), nil
}

func (r *RoomRepository) ListActiveByHotel(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	var rows []roomModel
	tx := r.db.WithContext(ctx).
		Where("hotel_id = ? AND is_active = ?", hotelID, true).
		Order("id").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Room, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRoom(m))
	}
	return out, nil
}
