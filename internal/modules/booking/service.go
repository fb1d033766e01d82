package booking

import (
	"context"
	"errors"
	"time"

	"hotelbooking/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// roomLockTTL bounds how long a crashed request can hold a room lock.
const roomLockTTL = 10 * time.Second

type Service struct {
	bookings BookingRepository
	rooms    RoomRepository
	hotels   HotelRepository
	locks    RoomLocker
	notifs   NotificationSender
}

func NewService(bookings BookingRepository, rooms RoomRepository, hotels HotelRepository, locks RoomLocker, notifs NotificationSender) *Service {
	return &Service{
		bookings: bookings,
		rooms:    rooms,
		hotels:   hotels,
		locks:    locks,
		notifs:   notifs,
	}
}

// CreateBooking runs the full creation procedure: validate, load room, check
// overlap against blocking bookings, price, persist. The per-room lock plus
// the storage exclusion constraint close the race between two requests that
// both pass the overlap check.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	stay := domain.DateRange{
		Start: domain.DateOnly(req.StartDate),
		End:   domain.DateOnly(req.EndDate),
	}
	if !stay.Valid() || stay.Nights() <= 0 {
		return nil, ErrValidation
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !room.Fits(req.Adults, req.Children) {
		return nil, ErrCapacity
	}

	if s.locks != nil {
		ok, err := s.locks.AcquireRoomLock(ctx, room.ID, roomLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrRoomBusy
		}
		defer func() { _ = s.locks.ReleaseRoomLock(ctx, room.ID) }()
	}

	blocking, err := s.bookings.ListBlockingForRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	for _, b := range blocking {
		if b.Range().Overlaps(stay) {
			return nil, ErrConflict
		}
	}

	nights := stay.Nights()
	b := &domain.Booking{
		RoomID:        room.ID,
		HotelID:       room.HotelID,
		UserID:        req.UserID,
		StartDate:     stay.Start,
		EndDate:       stay.End,
		Adults:        req.Adults,
		Children:      req.Children,
		TotalPrice:    int64(nights) * room.PricePerNight,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentPending,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		var pgErr *pgconn.PgError
		// 23P01: the room-interval exclusion constraint caught a write that
		// slipped past the application-level check.
		if errors.As(err, &pgErr) && (pgErr.Code == "23P01" || pgErr.Code == "23505") {
			return nil, ErrConflict
		}
		return nil, err
	}

	if s.notifs != nil {
		ownerID, oerr := s.bookings.HotelOwnerForBooking(ctx, b.ID)
		if oerr == nil && ownerID > 0 {
			_ = s.notifs.NotifyBookingCreated(ctx, ownerID, b.ID, b.RoomID, b.StartDate)
		}
	}

	return b, nil
}

// AvailableRooms lists the hotel's active rooms with no blocking booking
// overlapping the requested stay. Shares the exact predicate used at
// creation so search and booking never disagree.
func (s *Service) AvailableRooms(ctx context.Context, hotelID int64, start, end time.Time) ([]domain.Room, error) {
	stay := domain.DateRange{Start: domain.DateOnly(start), End: domain.DateOnly(end)}
	if !stay.Valid() {
		return nil, ErrValidation
	}

	if _, err := s.hotels.GetByID(ctx, hotelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rooms, err := s.rooms.ListActiveByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	blocking, err := s.bookings.ListBlockingForHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	excluded := make(map[int64]bool)
	for _, b := range blocking {
		if b.Range().Overlaps(stay) {
			excluded[b.RoomID] = true
		}
	}

	out := make([]domain.Room, 0, len(rooms))
	for _, r := range rooms {
		if !excluded[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

// RoomCalendar returns the busy intervals of a room inside a window.
func (s *Service) RoomCalendar(ctx context.Context, roomID int64, from, to time.Time) ([]domain.DateRange, error) {
	window := domain.DateRange{Start: domain.DateOnly(from), End: domain.DateOnly(to)}
	if !window.Valid() {
		return nil, ErrValidation
	}

	blocking, err := s.bookings.ListBlockingForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	busy := make([]domain.DateRange, 0, len(blocking))
	for _, b := range blocking {
		if b.Range().Overlaps(window) {
			busy = append(busy, b.Range())
		}
	}
	return busy, nil
}

func (s *Service) GetByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) MyBookings(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.bookings.ListByUser(ctx, userID, limit, offset)
}

// Cancel releases the booking's room-date interval. Guests may cancel their
// own booking, partners any booking in their hotel. Re-cancelling is reported
// as a duplicate action, never swallowed.
func (s *Service) Cancel(ctx context.Context, bookingID, actorUserID int64, actorRole domain.Role, reason string) (*domain.Booking, error) {
	b, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, b, actorUserID, actorRole); err != nil {
		return nil, err
	}
	if b.Status == domain.BookingCheckedOut {
		return nil, ErrBadTransition
	}

	ok, err := s.bookings.Cancel(ctx, bookingID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDuplicateAction
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyBookingCancelled(ctx, b.UserID, b.ID, reason)
	}

	return s.bookings.GetByID(ctx, bookingID)
}

// CheckIn is the partner action confirmed -> checked-in.
func (s *Service) CheckIn(ctx context.Context, bookingID, actorUserID int64) (*domain.Booking, error) {
	return s.partnerTransition(ctx, bookingID, actorUserID, domain.BookingConfirmed, domain.BookingCheckedIn)
}

// CheckOut is the partner action checked-in -> checked-out.
func (s *Service) CheckOut(ctx context.Context, bookingID, actorUserID int64) (*domain.Booking, error) {
	return s.partnerTransition(ctx, bookingID, actorUserID, domain.BookingCheckedIn, domain.BookingCheckedOut)
}

func (s *Service) partnerTransition(ctx context.Context, bookingID, actorUserID int64, from, to domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	ownerID, err := s.bookings.HotelOwnerForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if ownerID != actorUserID {
		return nil, ErrForbidden
	}
	if b.Status != from {
		return nil, ErrBadTransition
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, to); err != nil {
		return nil, err
	}
	return s.bookings.GetByID(ctx, bookingID)
}

func (s *Service) authorize(ctx context.Context, b *domain.Booking, actorUserID int64, actorRole domain.Role) error {
	if b.UserID == actorUserID {
		return nil
	}
	if actorRole == domain.RolePartner {
		ownerID, err := s.bookings.HotelOwnerForBooking(ctx, b.ID)
		if err != nil {
			return err
		}
		if ownerID == actorUserID {
			return nil
		}
	}
	return ErrForbidden
}
