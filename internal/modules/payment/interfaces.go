package payment

import (
	"context"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/gateway/momo"
)

type bookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	MarkProcessing(ctx context.Context, bookingID int64, orderID string, method domain.PaymentMethod) (bool, error)
	ConfirmPayment(ctx context.Context, bookingID int64, transactionID string) (bool, error)
	FailPayment(ctx context.Context, bookingID int64) (bool, error)
}

type sessionRepo interface {
	Create(ctx context.Context, s *domain.PaymentSession) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentSession, error)
	MarkConfirmedIdempotent(ctx context.Context, orderID, transactionID, rawBody string, paidAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, orderID, rawBody, reason string) error
	SaveReturnRawBody(ctx context.Context, orderID, rawBody string) error
}

type momoGateway interface {
	CreatePayment(ctx context.Context, orderID string, amount int64, orderInfo string) (string, error)
	VerifyIPN(p momo.IPNPayload) error
}

type vnpayGateway interface {
	BuildPaymentURL(orderID string, amount int64, orderInfo, clientIP string, now time.Time) string
	VerifyCallback(params map[string]string) error
}

// NotificationSender and Emailer are best-effort collaborators; reconcile
// never rolls back on their failure.
type NotificationSender interface {
	NotifyPaymentConfirmed(ctx context.Context, clientUserID, bookingID int64) error
}

type Emailer interface {
	SendBookingConfirmation(ctx context.Context, b *domain.Booking) error
}
