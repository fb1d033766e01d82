package domain

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingCheckedIn  BookingStatus = "checked-in"
	BookingCheckedOut BookingStatus = "checked-out"
)

// Blocking reports whether a booking in this status holds its room-date
// interval. Cancelled and checked-out bookings never block availability.
func (s BookingStatus) Blocking() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Terminal statuses accept no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCheckedOut
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentConfirmed  PaymentStatus = "confirmed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	MethodMoMo  PaymentMethod = "momo"
	MethodVNPay PaymentMethod = "vnpay"
	MethodCash  PaymentMethod = "cash"
)

type Booking struct {
	ID            int64         `json:"id"`
	RoomID        int64         `json:"room_id" validate:"required"`
	HotelID       int64         `json:"hotel_id"`
	UserID        int64         `json:"user_id" validate:"required"`
	StartDate     time.Time     `json:"start_date" validate:"required"`
	EndDate       time.Time     `json:"end_date" validate:"required"`
	Adults        int           `json:"adults"`
	Children      int           `json:"children"`
	TotalPrice    int64         `json:"total_price" validate:"gte=0"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentID     string        `json:"payment_id,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	TransactionID string        `json:"transaction_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Room *Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}

// Range is the half-open [StartDate, EndDate) night interval the booking holds.
func (b *Booking) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}
