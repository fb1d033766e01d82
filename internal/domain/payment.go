package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Gateway string

const (
	GatewayMoMo  Gateway = "momo"
	GatewayVNPay Gateway = "vnpay"
)

type PaymentSessionStatus string

const (
	SessionCreated   PaymentSessionStatus = "created"
	SessionConfirmed PaymentSessionStatus = "confirmed"
	SessionFailed    PaymentSessionStatus = "failed"
	SessionExpired   PaymentSessionStatus = "expired"
)

// PaymentSession is one attempt to collect a booking's payment through a
// gateway. OrderID is the correlation key shared by the create request, the
// browser redirect and the server-to-server IPN.
type PaymentSession struct {
	ID            int64                `gorm:"primaryKey" json:"id"`
	BookingID     int64                `gorm:"index;not null" json:"booking_id"`
	OrderID       string               `gorm:"uniqueIndex;size:64;not null" json:"order_id"`
	Gateway       Gateway              `gorm:"size:16;not null" json:"gateway"`
	Amount        int64                `gorm:"not null" json:"amount"`
	Status        PaymentSessionStatus `gorm:"size:16;default:'created';index" json:"status"`
	PayURL        string               `gorm:"type:text" json:"pay_url"`
	Signature     string               `gorm:"size:128" json:"signature"`
	TransactionID string               `gorm:"size:64" json:"transaction_id"`
	IPNRawBody    string               `gorm:"column:ipn_raw_body;type:text" json:"ipn_raw_body"`
	ReturnRawBody string               `gorm:"type:text" json:"return_raw_body"`
	FailureReason string               `gorm:"type:text" json:"failure_reason"`
	PaidAt        *time.Time           `json:"paid_at"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func (PaymentSession) TableName() string { return "payment_sessions" }

// NewOrderID derives the gateway correlation key from the booking id. The
// booking id never contains an underscore, so splitting on the first one
// always recovers it.
func NewOrderID(bookingID int64, now time.Time) string {
	return fmt.Sprintf("%d_%d", bookingID, now.UnixMilli())
}

// BookingIDFromOrderID recovers the booking id from an orderId built by
// NewOrderID. Returns an error for ids we did not generate.
func BookingIDFromOrderID(orderID string) (int64, error) {
	head, _, found := strings.Cut(orderID, "_")
	if !found || head == "" {
		return 0, fmt.Errorf("malformed order id %q", orderID)
	}
	id, err := strconv.ParseInt(head, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed order id %q: %w", orderID, err)
	}
	return id, nil
}
