package repository

import (
	"context"
	"errors"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	RoomID        int64      `gorm:"column:room_id;index"`
	HotelID       int64      `gorm:"column:hotel_id;index"`
	UserID        int64      `gorm:"column:user_id;index"`
	StartDate     time.Time  `gorm:"column:start_date"`
	EndDate       time.Time  `gorm:"column:end_date"`
	Adults        int        `gorm:"column:adults"`
	Children      int        `gorm:"column:children"`
	TotalPrice    int64      `gorm:"column:total_price"`
	Status        string     `gorm:"column:status;index"`
	PaymentStatus string     `gorm:"column:payment_status;index"`
	PaymentID     *string    `gorm:"column:payment_id"`
	PaymentMethod *string    `gorm:"column:payment_method"`
	TransactionID *string    `gorm:"column:transaction_id"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
	CancelledAt   *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	b := &domain.Booking{
		ID:            m.ID,
		RoomID:        m.RoomID,
		HotelID:       m.HotelID,
		UserID:        m.UserID,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		Adults:        m.Adults,
		Children:      m.Children,
		TotalPrice:    m.TotalPrice,
		Status:        domain.BookingStatus(m.Status),
		PaymentStatus: domain.PaymentStatus(m.PaymentStatus),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		CancelledAt:   m.CancelledAt,
	}
	if m.PaymentID != nil {
		b.PaymentID = *m.PaymentID
	}
	if m.PaymentMethod != nil {
		b.PaymentMethod = domain.PaymentMethod(*m.PaymentMethod)
	}
	if m.TransactionID != nil {
		b.TransactionID = *m.TransactionID
	}
	return b
}

func toBookingModel(b *domain.Booking) bookingModel {
	m := bookingModel{
		ID:            b.ID,
		RoomID:        b.RoomID,
		HotelID:       b.HotelID,
		UserID:        b.UserID,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		Adults:        b.Adults,
		Children:      b.Children,
		TotalPrice:    b.TotalPrice,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		CancelledAt:   b.CancelledAt,
	}
	if b.PaymentID != "" {
		v := b.PaymentID
		m.PaymentID = &v
	}
	if b.PaymentMethod != "" {
		v := string(b.PaymentMethod)
		m.PaymentMethod = &v
	}
	if b.TransactionID != "" {
		v := b.TransactionID
		m.TransactionID = &v
	}
	return m
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// ListBlockingForRoom returns every booking that currently holds a date
// interval on the room. The overlap decision itself stays in the service so
// search and creation share one predicate.
func (r *BookingRepository) ListBlockingForRoom(ctx context.Context, roomID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("room_id = ? AND status IN ?", roomID, []string{string(domain.BookingPending), string(domain.BookingConfirmed)}).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// ListBlockingForHotel returns blocking bookings across all rooms of a hotel,
// used by the available-room search to build the excluded-room-id set.
func (r *BookingRepository) ListBlockingForHotel(ctx context.Context, hotelID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("hotel_id = ? AND status IN ?", hotelID, []string{string(domain.BookingPending), string(domain.BookingConfirmed)}).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", bookingID).
		Update("status", string(status)).Error
}

// Cancel flips the booking to cancelled unless it already is. The false
// return is how a duplicate cancel is detected without a read-then-write gap.
func (r *BookingRepository) Cancel(ctx context.Context, bookingID int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status <> ?", bookingID, string(domain.BookingCancelled)).
		Updates(map[string]interface{}{
			"status":       string(domain.BookingCancelled),
			"cancelled_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkProcessing moves payment_status pending -> processing and records the
// session correlation. False means the booking was not in pending.
func (r *BookingRepository) MarkProcessing(ctx context.Context, bookingID int64, orderID string, method domain.PaymentMethod) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND payment_status = ?", bookingID, string(domain.PaymentPending)).
		Updates(map[string]interface{}{
			"payment_status": string(domain.PaymentProcessing),
			"payment_id":     orderID,
			"payment_method": string(method),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ConfirmPayment applies the success transition as one conditional write:
// confirmed is set only where it is not already, so a webhook and a redirect
// handler racing on the same order cannot both win.
func (r *BookingRepository) ConfirmPayment(ctx context.Context, bookingID int64, transactionID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND payment_status <> ?", bookingID, string(domain.PaymentConfirmed)).
		Updates(map[string]interface{}{
			"payment_status": string(domain.PaymentConfirmed),
			"status":         string(domain.BookingConfirmed),
			"transaction_id": transactionID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// Either already confirmed or absent; let the caller distinguish.
		var cnt int64
		if err := r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", bookingID).Count(&cnt).Error; err != nil {
			return false, err
		}
		if cnt == 0 {
			return false, gorm.ErrRecordNotFound
		}
		return false, nil
	}
	return true, nil
}

// FailPayment marks the payment failed only while it is still in flight.
// A confirmed payment never regresses; booking status is untouched.
func (r *BookingRepository) FailPayment(ctx context.Context, bookingID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND payment_status IN ?", bookingID,
			[]string{string(domain.PaymentPending), string(domain.PaymentProcessing)}).
		Update("payment_status", string(domain.PaymentFailed))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HotelOwnerForBooking resolves the partner who owns the booked room's hotel.
func (r *BookingRepository) HotelOwnerForBooking(ctx context.Context, bookingID int64) (int64, error) {
	var ownerID int64
	tx := r.db.WithContext(ctx).Raw(`
SELECT h.owner_id
FROM bookings b
JOIN hotels h ON h.id = b.hotel_id
WHERE b.id = ?
`, bookingID).Scan(&ownerID)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if ownerID == 0 {
		return 0, errors.New("hotel owner not found for booking")
	}
	return ownerID, nil
}
