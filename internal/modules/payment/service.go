package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/gateway/momo"
	"hotelbooking/internal/gateway/vnpay"

	"gorm.io/gorm"
)

// Outcome is a gateway-neutral payment result fed into Reconcile. Each
// provider's handler parses its own wire format into this shape so the state
// transition logic exists exactly once.
type Outcome struct {
	Gateway       domain.Gateway
	OrderID       string
	Success       bool
	TransactionID string
	Code          string
	Message       string
	RawBody       string
}

// ReconcileResult tells the transport layer how to acknowledge the gateway.
type ReconcileResult int

const (
	// ReconcileApplied: this call performed the state transition.
	ReconcileApplied ReconcileResult = iota
	// ReconcileDuplicate: the booking was already confirmed; no-op.
	ReconcileDuplicate
	// ReconcileIgnored: a stale failure arrived after confirmation.
	ReconcileIgnored
)

type Service struct {
	bookings bookingStore
	sessions sessionRepo
	momo     momoGateway
	vnpay    vnpayGateway
	notifs   NotificationSender
	emailer  Emailer
	loggerf  func(format string, args ...interface{})
}

func NewService(
	bookings bookingStore,
	sessions sessionRepo,
	momoGW momoGateway,
	vnpayGW vnpayGateway,
	notifs NotificationSender,
	emailer Emailer,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		bookings: bookings,
		sessions: sessions,
		momo:     momoGW,
		vnpay:    vnpayGW,
		notifs:   notifs,
		emailer:  emailer,
		loggerf:  loggerf,
	}
}

// CreateMoMoPayment opens a MoMo session for a booking still awaiting
// payment. The booking moves to processing only after the gateway accepted
// the create request, so a gateway failure commits no partial state.
func (s *Service) CreateMoMoPayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	b, err := s.loadPayableBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	orderID := domain.NewOrderID(b.ID, time.Now())
	orderInfo := fmt.Sprintf("Hotel booking #%d", b.ID)

	payURL, err := s.momo.CreatePayment(ctx, orderID, b.TotalPrice, orderInfo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if err := s.openSession(ctx, b, orderID, domain.GatewayMoMo, payURL); err != nil {
		return nil, err
	}
	return &CreatePaymentResponse{OrderID: orderID, PayURL: payURL, Gateway: string(domain.GatewayMoMo)}, nil
}

// CreateVNPayPayment builds the signed VNPay redirect URL. No outbound HTTP
// call is involved; the URL itself is the payment session.
func (s *Service) CreateVNPayPayment(ctx context.Context, req CreatePaymentRequest, clientIP string) (*CreatePaymentResponse, error) {
	b, err := s.loadPayableBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	orderID := domain.NewOrderID(b.ID, time.Now())
	orderInfo := fmt.Sprintf("Hotel booking #%d", b.ID)
	payURL := s.vnpay.BuildPaymentURL(orderID, b.TotalPrice, orderInfo, clientIP, time.Now())

	if err := s.openSession(ctx, b, orderID, domain.GatewayVNPay, payURL); err != nil {
		return nil, err
	}
	return &CreatePaymentResponse{OrderID: orderID, PayURL: payURL, Gateway: string(domain.GatewayVNPay)}, nil
}

func (s *Service) loadPayableBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.PaymentStatus != domain.PaymentPending {
		return nil, ErrInvalidState
	}
	return b, nil
}

func (s *Service) openSession(ctx context.Context, b *domain.Booking, orderID string, gw domain.Gateway, payURL string) error {
	session := &domain.PaymentSession{
		BookingID: b.ID,
		OrderID:   orderID,
		Gateway:   gw,
		Amount:    b.TotalPrice,
		Status:    domain.SessionCreated,
		PayURL:    payURL,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return fmt.Errorf("save payment session: %w", err)
	}

	ok, err := s.bookings.MarkProcessing(ctx, b.ID, orderID, domain.PaymentMethod(gw))
	if err != nil {
		return err
	}
	if !ok {
		// A concurrent create claimed the booking between our guard and now.
		s.loggerf("level=warn msg=payment create lost claim race booking_id=%d order_id=%s", b.ID, orderID)
		return ErrInvalidState
	}

	s.loggerf("level=info msg=payment session created booking_id=%d order_id=%s gateway=%s amount=%d", b.ID, orderID, gw, b.TotalPrice)
	return nil
}

// Reconcile merges one gateway outcome into the booking, exactly once. It is
// invoked from every entry point (redirect return, IPN, both gateways) so
// arrival order and duplication never produce divergent state.
func (s *Service) Reconcile(ctx context.Context, out Outcome) (ReconcileResult, error) {
	bookingID, err := domain.BookingIDFromOrderID(out.OrderID)
	if err != nil {
		return 0, ErrNotFound
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	if !out.Success {
		// Sticky confirmation: a late failure callback for a confirmed
		// payment is logged and dropped, never applied.
		changed, err := s.bookings.FailPayment(ctx, bookingID)
		if err != nil {
			return 0, err
		}
		if !changed {
			s.loggerf("level=info msg=stale failure callback ignored order_id=%s gateway=%s code=%s", out.OrderID, out.Gateway, out.Code)
			return ReconcileIgnored, nil
		}
		if err := s.sessions.MarkFailed(ctx, out.OrderID, out.RawBody, fmt.Sprintf("gateway code=%s message=%s", out.Code, out.Message)); err != nil {
			s.loggerf("level=error msg=failed to mark session failed order_id=%s err=%v", out.OrderID, err)
		}
		s.loggerf("level=info msg=payment failed order_id=%s gateway=%s code=%s", out.OrderID, out.Gateway, out.Code)
		return ReconcileApplied, nil
	}

	changed, err := s.bookings.ConfirmPayment(ctx, bookingID, out.TransactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if _, serr := s.sessions.MarkConfirmedIdempotent(ctx, out.OrderID, out.TransactionID, out.RawBody, time.Now().UTC()); serr != nil {
		s.loggerf("level=error msg=failed to mark session confirmed order_id=%s err=%v", out.OrderID, serr)
	}

	if !changed {
		s.loggerf("level=info msg=duplicate success callback order_id=%s gateway=%s", out.OrderID, out.Gateway)
		return ReconcileDuplicate, nil
	}

	s.loggerf("level=info msg=payment confirmed order_id=%s gateway=%s transaction_id=%s", out.OrderID, out.Gateway, out.TransactionID)

	// Best-effort side effects; the confirmed state is already persisted and
	// must survive any failure below.
	if s.notifs != nil {
		if err := s.notifs.NotifyPaymentConfirmed(ctx, b.UserID, b.ID); err != nil {
			s.loggerf("level=error msg=payment confirmation notify failed booking_id=%d err=%v", b.ID, err)
		}
	}
	if s.emailer != nil {
		if err := s.emailer.SendBookingConfirmation(ctx, b); err != nil {
			s.loggerf("level=error msg=payment confirmation email failed booking_id=%d err=%v", b.ID, err)
		}
	}

	return ReconcileApplied, nil
}

// HandleMoMoCallback verifies and reconciles a MoMo notification, whether it
// arrived as the IPN POST or the browser redirect query.
func (s *Service) HandleMoMoCallback(ctx context.Context, p momo.IPNPayload, rawBody string) (ReconcileResult, error) {
	if err := s.momo.VerifyIPN(p); err != nil {
		s.loggerf("level=warn msg=momo callback signature rejected order_id=%s", p.OrderID)
		return 0, ErrInvalidSignature
	}

	return s.Reconcile(ctx, Outcome{
		Gateway:       domain.GatewayMoMo,
		OrderID:       p.OrderID,
		Success:       p.ResultCode == momo.ResultCodeSuccess,
		TransactionID: strconv.FormatInt(p.TransID, 10),
		Code:          strconv.Itoa(p.ResultCode),
		Message:       p.Message,
		RawBody:       rawBody,
	})
}

// HandleVNPayCallback verifies and reconciles a vnp_* parameter set and maps
// the result onto the gateway's documented RspCode strings.
func (s *Service) HandleVNPayCallback(ctx context.Context, params map[string]string, rawQuery string) (VNPayIPNResponse, error) {
	if err := s.vnpay.VerifyCallback(params); err != nil {
		s.loggerf("level=warn msg=vnpay callback signature rejected txn_ref=%s", params["vnp_TxnRef"])
		return VNPayIPNResponse{RspCode: vnpay.RspCodeInvalidSignature, Message: "Invalid signature"}, ErrInvalidSignature
	}

	orderID := params["vnp_TxnRef"]
	session, err := s.sessions.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VNPayIPNResponse{RspCode: vnpay.RspCodeOrderNotFound, Message: "Order not found"}, ErrNotFound
		}
		return VNPayIPNResponse{RspCode: vnpay.RspCodeUnknownError, Message: "Internal error"}, err
	}

	// The gateway echoes the amount x100; any mismatch is a hard stop.
	if amount, perr := strconv.ParseInt(params["vnp_Amount"], 10, 64); perr != nil || amount != session.Amount*100 {
		s.loggerf("level=error msg=vnpay amount mismatch order_id=%s callback=%s expected=%d", orderID, params["vnp_Amount"], session.Amount*100)
		return VNPayIPNResponse{RspCode: vnpay.RspCodeInvalidAmount, Message: "Invalid amount"}, ErrAmountMismatch
	}

	_, err = s.Reconcile(ctx, Outcome{
		Gateway:       domain.GatewayVNPay,
		OrderID:       orderID,
		Success:       params["vnp_ResponseCode"] == vnpay.ResponseCodeSuccess,
		TransactionID: params["vnp_TransactionNo"],
		Code:          params["vnp_ResponseCode"],
		Message:       params["vnp_OrderInfo"],
		RawBody:       rawQuery,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return VNPayIPNResponse{RspCode: vnpay.RspCodeOrderNotFound, Message: "Order not found"}, err
		}
		return VNPayIPNResponse{RspCode: vnpay.RspCodeUnknownError, Message: "Internal error"}, err
	}

	// Duplicates acknowledge success as well, so the gateway stops retrying.
	return VNPayIPNResponse{RspCode: vnpay.RspCodeSuccess, Message: "Confirm Success"}, nil
}

// SaveReturnVisit records the raw redirect query on the session for audit.
func (s *Service) SaveReturnVisit(ctx context.Context, orderID, rawQuery string) {
	if err := s.sessions.SaveReturnRawBody(ctx, orderID, rawQuery); err != nil {
		s.loggerf("level=error msg=failed to save return raw query order_id=%s err=%v", orderID, err)
	}
}
