package booking

import (
	"context"
	"time"

	"hotelbooking/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListBlockingForRoom(ctx context.Context, roomID int64) ([]domain.Booking, error)
	ListBlockingForHotel(ctx context.Context, hotelID int64) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, bookingID int64, at time.Time) (bool, error)
	HotelOwnerForBooking(ctx context.Context, bookingID int64) (int64, error)
}

type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	ListActiveByHotel(ctx context.Context, hotelID int64) ([]domain.Room, error)
}

type HotelRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Hotel, error)
}

// RoomLocker serializes booking creation per room so the check-then-act
// overlap sequence is atomic across concurrent requests.
type RoomLocker interface {
	AcquireRoomLock(ctx context.Context, roomID int64, ttl time.Duration) (bool, error)
	ReleaseRoomLock(ctx context.Context, roomID int64) error
}

// NotificationSender delivers best-effort events; failures never surface to
// the caller.
type NotificationSender interface {
	NotifyBookingCreated(ctx context.Context, ownerUserID, bookingID, roomID int64, start time.Time) error
	NotifyBookingCancelled(ctx context.Context, clientUserID, bookingID int64, reason string) error
}
