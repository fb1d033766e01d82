package jobs

import (
	"context"
	"testing"
	"time"

	"hotelbooking/internal/domain"
)

type fakeSessionStore struct {
	stale     []domain.PaymentSession
	confirmed map[string]bool
	expired   []string
}

func (f *fakeSessionStore) ListStaleCreated(ctx context.Context, cutoff time.Time) ([]domain.PaymentSession, error) {
	return f.stale, nil
}

func (f *fakeSessionStore) MarkExpired(ctx context.Context, orderID string) (bool, error) {
	if f.confirmed[orderID] {
		return false, nil
	}
	f.expired = append(f.expired, orderID)
	return true, nil
}

type fakeBookingStore struct {
	failed []int64
}

func (f *fakeBookingStore) FailPayment(ctx context.Context, bookingID int64) (bool, error) {
	f.failed = append(f.failed, bookingID)
	return true, nil
}

func TestSessionSweeper_SkipsConfirmedSessions(t *testing.T) {
	sessions := &fakeSessionStore{
		stale: []domain.PaymentSession{
			{BookingID: 1, OrderID: "1_100"},
			{BookingID: 2, OrderID: "2_200"},
		},
		// Session 2 got confirmed between listing and expiry.
		confirmed: map[string]bool{"2_200": true},
	}
	bookings := &fakeBookingStore{}

	NewSessionSweeper(sessions, bookings, 15*time.Minute, nil).Run()

	if len(sessions.expired) != 1 || sessions.expired[0] != "1_100" {
		t.Fatalf("expired = %v, want only 1_100", sessions.expired)
	}
	if len(bookings.failed) != 1 || bookings.failed[0] != 1 {
		t.Fatalf("failed bookings = %v, want only booking 1", bookings.failed)
	}
}
