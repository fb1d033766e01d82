package domain

import "time"

type Room struct {
	ID            int64     `json:"id"`
	HotelID       int64     `json:"hotel_id"`
	Name          string    `json:"name" validate:"required"`
	Description   string    `json:"description,omitempty"`
	PricePerNight int64     `json:"price_per_night" validate:"required,gt=0"`
	MaxAdults     int       `json:"max_adults" validate:"required,gt=0"`
	MaxChildren   int       `json:"max_children" validate:"gte=0"`
	Photos        []string  `json:"photos,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Fits reports whether the party fits the room's capacity.
func (r *Room) Fits(adults, children int) bool {
	return adults > 0 && adults <= r.MaxAdults && children >= 0 && children <= r.MaxChildren
}

type Hotel struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name" validate:"required"`
	City      string    `json:"city,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
