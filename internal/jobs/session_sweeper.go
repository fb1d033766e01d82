package jobs

import (
	"context"
	"time"

	"hotelbooking/internal/domain"
)

type sessionStore interface {
	ListStaleCreated(ctx context.Context, cutoff time.Time) ([]domain.PaymentSession, error)
	MarkExpired(ctx context.Context, orderID string) (bool, error)
}

type bookingStore interface {
	FailPayment(ctx context.Context, bookingID int64) (bool, error)
}

// SessionSweeper expires payment sessions the customer opened but never
// finished. The gateway callback remains authoritative: a session that got
// confirmed between listing and expiry is skipped by the conditional update,
// and the booking is only failed when the expiry actually won.
type SessionSweeper struct {
	sessions sessionStore
	bookings bookingStore
	ttl      time.Duration
	loggerf  func(format string, args ...interface{})
}

func NewSessionSweeper(sessions sessionStore, bookings bookingStore, ttl time.Duration, loggerf func(format string, args ...interface{})) *SessionSweeper {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &SessionSweeper{sessions: sessions, bookings: bookings, ttl: ttl, loggerf: loggerf}
}

// Run performs one sweep. Wired to a cron schedule in main.
func (s *SessionSweeper) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-s.ttl)
	stale, err := s.sessions.ListStaleCreated(ctx, cutoff)
	if err != nil {
		s.loggerf("level=error msg=failed to list stale payment sessions err=%v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	expired := 0
	for _, session := range stale {
		changed, err := s.sessions.MarkExpired(ctx, session.OrderID)
		if err != nil {
			s.loggerf("level=error msg=failed to expire session order_id=%s err=%v", session.OrderID, err)
			continue
		}
		if !changed {
			continue
		}
		expired++

		if _, err := s.bookings.FailPayment(ctx, session.BookingID); err != nil {
			s.loggerf("level=error msg=failed to fail booking payment booking_id=%d err=%v", session.BookingID, err)
		}
	}

	s.loggerf("level=info msg=payment session sweep done stale=%d expired=%d", len(stale), expired)
}
