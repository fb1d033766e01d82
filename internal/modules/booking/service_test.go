package booking

import (
	"context"
	"testing"
	"time"

	"hotelbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListBlockingForRoom(ctx context.Context, roomID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListBlockingForHotel(ctx context.Context, hotelID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error {
	args := m.Called(ctx, bookingID, status)
	return args.Error(0)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, bookingID int64, at time.Time) (bool, error) {
	args := m.Called(ctx, bookingID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) HotelOwnerForBooking(ctx context.Context, bookingID int64) (int64, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(int64), args.Error(1)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockRoomRepository) ListActiveByHotel(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}

type MockHotelRepository struct {
	mock.Mock
}

func (m *MockHotelRepository) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) NotifyBookingCreated(ctx context.Context, ownerUserID, bookingID, roomID int64, start time.Time) error {
	args := m.Called(ctx, ownerUserID, bookingID, roomID, start)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyBookingCancelled(ctx context.Context, clientUserID, bookingID int64, reason string) error {
	args := m.Called(ctx, clientUserID, bookingID, reason)
	return args.Error(0)
}

func testRoom() *domain.Room {
	return &domain.Room{
		ID:            10,
		HotelID:       5,
		Name:          "Deluxe 201",
		PricePerNight: 500000,
		MaxAdults:     2,
		MaxChildren:   2,
		IsActive:      true,
	}
}

func TestService_CreateBooking_Success(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)

	mockRooms.On("GetByID", mock.Anything, int64(10)).Return(testRoom(), nil)
	mockBookings.On("ListBlockingForRoom", mock.Anything, int64(10)).Return([]domain.Booking{}, nil)
	mockBookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockBookings.On("HotelOwnerForBooking", mock.Anything, int64(999)).Return(int64(1), nil)

	mockNotifs := new(MockNotificationSender)
	mockNotifs.On("NotifyBookingCreated", mock.Anything, int64(1), int64(999), int64(10), mock.Anything).Return(nil)

	service := NewService(mockBookings, mockRooms, nil, nil, mockNotifs)

	req := CreateBookingRequest{
		RoomID:    10,
		UserID:    42,
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
		Adults:    2,
	}

	b, err := service.CreateBooking(context.Background(), req)

	assert.NoError(t, err)
	assert.NotNil(t, b)
	assert.Equal(t, int64(1500000), b.TotalPrice) // 3 nights x 500000
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, domain.PaymentPending, b.PaymentStatus)
	mockNotifs.AssertExpectations(t)
}

func TestService_CreateBooking_OverlapConflict(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)

	mockRooms.On("GetByID", mock.Anything, int64(10)).Return(testRoom(), nil)
	mockBookings.On("ListBlockingForRoom", mock.Anything, int64(10)).Return([]domain.Booking{
		{
			ID:        1,
			RoomID:    10,
			Status:    domain.BookingConfirmed,
			StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		},
	}, nil)

	service := NewService(mockBookings, mockRooms, nil, nil, nil)

	req := CreateBookingRequest{
		RoomID:    10,
		UserID:    42,
		StartDate: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
		Adults:    2,
	}

	_, err := service.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, ErrConflict)
	mockBookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateBooking_TouchingDatesSucceed(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)

	mockRooms.On("GetByID", mock.Anything, int64(10)).Return(testRoom(), nil)
	mockBookings.On("ListBlockingForRoom", mock.Anything, int64(10)).Return([]domain.Booking{
		{
			ID:        1,
			RoomID:    10,
			Status:    domain.BookingConfirmed,
			StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		},
	}, nil)
	mockBookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockBookings.On("HotelOwnerForBooking", mock.Anything, int64(999)).Return(int64(0), nil)

	service := NewService(mockBookings, mockRooms, nil, nil, nil)

	// Check-in on the previous booking's check-out day.
	req := CreateBookingRequest{
		RoomID:    10,
		UserID:    42,
		StartDate: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC),
		Adults:    2,
	}

	b, err := service.CreateBooking(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, int64(1500000), b.TotalPrice)
}

func TestService_CreateBooking_ZeroNights(t *testing.T) {
	service := NewService(new(MockBookingRepository), new(MockRoomRepository), nil, nil, nil)

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := service.CreateBooking(context.Background(), CreateBookingRequest{
		RoomID: 10, UserID: 42, StartDate: day, EndDate: day, Adults: 1,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateBooking_RoomNotFound(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockRooms.On("GetByID", mock.Anything, int64(77)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockBookings, mockRooms, nil, nil, nil)

	_, err := service.CreateBooking(context.Background(), CreateBookingRequest{
		RoomID:    77,
		UserID:    42,
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		Adults:    1,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CreateBooking_CapacityExceeded(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockRooms.On("GetByID", mock.Anything, int64(10)).Return(testRoom(), nil)

	service := NewService(mockBookings, mockRooms, nil, nil, nil)

	_, err := service.CreateBooking(context.Background(), CreateBookingRequest{
		RoomID:    10,
		UserID:    42,
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		Adults:    5,
	})
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestService_AvailableRooms_ExcludesOverlapping(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockHotels := new(MockHotelRepository)

	mockHotels.On("GetByID", mock.Anything, int64(5)).Return(&domain.Hotel{ID: 5, OwnerID: 9}, nil)
	mockRooms.On("ListActiveByHotel", mock.Anything, int64(5)).Return([]domain.Room{
		{ID: 10, HotelID: 5, Name: "201"},
		{ID: 11, HotelID: 5, Name: "202"},
	}, nil)
	mockBookings.On("ListBlockingForHotel", mock.Anything, int64(5)).Return([]domain.Booking{
		{
			RoomID:    10,
			Status:    domain.BookingPending,
			StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		},
	}, nil)

	service := NewService(mockBookings, mockRooms, mockHotels, nil, nil)

	rooms, err := service.AvailableRooms(context.Background(), 5,
		time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	if assert.Len(t, rooms, 1) {
		assert.Equal(t, int64(11), rooms[0].ID)
	}
}

func TestService_AvailableRooms_UnknownHotel(t *testing.T) {
	mockHotels := new(MockHotelRepository)
	mockHotels.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(new(MockBookingRepository), new(MockRoomRepository), mockHotels, nil, nil)

	_, err := service.AvailableRooms(context.Background(), 404,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Cancel_Duplicate(t *testing.T) {
	mockBookings := new(MockBookingRepository)

	b := &domain.Booking{ID: 7, UserID: 42, Status: domain.BookingCancelled}
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(b, nil)
	mockBookings.On("Cancel", mock.Anything, int64(7), mock.Anything).Return(false, nil)

	service := NewService(mockBookings, new(MockRoomRepository), nil, nil, nil)

	_, err := service.Cancel(context.Background(), 7, 42, domain.RoleGuest, "changed plans")
	assert.ErrorIs(t, err, ErrDuplicateAction)
}

func TestService_Cancel_CheckedOutIsTerminal(t *testing.T) {
	mockBookings := new(MockBookingRepository)

	// A completed stay stays completed; there is nothing left to release.
	b := &domain.Booking{ID: 7, UserID: 42, Status: domain.BookingCheckedOut}
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(b, nil)

	service := NewService(mockBookings, new(MockRoomRepository), nil, nil, nil)

	_, err := service.Cancel(context.Background(), 7, 42, domain.RoleGuest, "too late")
	assert.ErrorIs(t, err, ErrBadTransition)
	mockBookings.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Cancel_Forbidden(t *testing.T) {
	mockBookings := new(MockBookingRepository)

	b := &domain.Booking{ID: 7, UserID: 42, Status: domain.BookingConfirmed}
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(b, nil)

	service := NewService(mockBookings, new(MockRoomRepository), nil, nil, nil)

	_, err := service.Cancel(context.Background(), 7, 43, domain.RoleGuest, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_CheckInCheckOut_Transitions(t *testing.T) {
	mockBookings := new(MockBookingRepository)

	confirmed := &domain.Booking{ID: 7, UserID: 42, Status: domain.BookingConfirmed}
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(confirmed, nil)
	mockBookings.On("HotelOwnerForBooking", mock.Anything, int64(7)).Return(int64(9), nil)
	mockBookings.On("UpdateStatus", mock.Anything, int64(7), domain.BookingCheckedIn).Return(nil)

	service := NewService(mockBookings, new(MockRoomRepository), nil, nil, nil)

	_, err := service.CheckIn(context.Background(), 7, 9)
	assert.NoError(t, err)

	// Checking out a booking that was never checked in must be rejected.
	_, err = service.CheckOut(context.Background(), 7, 9)
	assert.ErrorIs(t, err, ErrBadTransition)

	// A non-owner may not run partner transitions.
	_, err = service.CheckIn(context.Background(), 7, 8)
	assert.ErrorIs(t, err, ErrForbidden)
}
