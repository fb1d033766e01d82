package booking

import "time"

type CreateBookingRequest struct {
	RoomID    int64     `json:"room_id" binding:"required" validate:"required,gt=0"`
	UserID    int64     `json:"-"`
	StartDate time.Time `json:"start_date" binding:"required" time_format:"2006-01-02" validate:"required"`
	EndDate   time.Time `json:"end_date" binding:"required" time_format:"2006-01-02" validate:"required"`
	Adults    int       `json:"adults" binding:"required,gt=0" validate:"required,gt=0"`
	Children  int       `json:"children" binding:"gte=0" validate:"gte=0"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type AvailableRoomsResponse struct {
	HotelID   int64       `json:"hotel_id"`
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	Rooms     []RoomBrief `json:"rooms"`
}

type RoomBrief struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	PricePerNight int64    `json:"price_per_night"`
	MaxAdults     int      `json:"max_adults"`
	MaxChildren   int      `json:"max_children"`
	Photos        []string `json:"photos,omitempty"`
}

type CalendarResponse struct {
	RoomID int64          `json:"room_id"`
	Busy   []BusyInterval `json:"busy"`
}

type BusyInterval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
