package repository

import (
	"context"
	"errors"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentSessionRepository struct {
	db *gorm.DB
}

func NewPaymentSessionRepository(db *gorm.DB) *PaymentSessionRepository {
	return &PaymentSessionRepository{db: db}
}

func (r *PaymentSessionRepository) Create(ctx context.Context, s *domain.PaymentSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *PaymentSessionRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentSession, error) {
	var s domain.PaymentSession
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// MarkConfirmedIdempotent records the gateway success on the session exactly
// once. The row is locked so a webhook and a redirect landing together cannot
// both observe the pre-confirmed state.
func (r *PaymentSessionRepository) MarkConfirmedIdempotent(ctx context.Context, orderID, transactionID, rawBody string, paidAt time.Time) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s domain.PaymentSession
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("order_id = ?", orderID).First(&s).Error; err != nil {
			return err
		}
		if s.Status == domain.SessionConfirmed {
			changed = false
			return nil
		}
		res := tx.Model(&domain.PaymentSession{}).Where("order_id = ?", orderID).Updates(map[string]interface{}{
			"status":         string(domain.SessionConfirmed),
			"transaction_id": transactionID,
			"ipn_raw_body":   rawBody,
			"paid_at":        paidAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("payment session row not updated")
		}
		changed = true
		return nil
	})
	return changed, err
}

// MarkFailed records a failure outcome unless the session already confirmed.
func (r *PaymentSessionRepository) MarkFailed(ctx context.Context, orderID, rawBody, reason string) error {
	return r.db.WithContext(ctx).
		Model(&domain.PaymentSession{}).
		Where("order_id = ? AND status <> ?", orderID, string(domain.SessionConfirmed)).
		Updates(map[string]interface{}{
			"status":         string(domain.SessionFailed),
			"ipn_raw_body":   rawBody,
			"failure_reason": reason,
		}).Error
}

func (r *PaymentSessionRepository) SaveReturnRawBody(ctx context.Context, orderID, rawBody string) error {
	return r.db.WithContext(ctx).
		Model(&domain.PaymentSession{}).
		Where("order_id = ?", orderID).
		Update("return_raw_body", rawBody).Error
}

// ListStaleCreated returns sessions still awaiting a gateway outcome past the
// cutoff, for the expiry sweep.
func (r *PaymentSessionRepository) ListStaleCreated(ctx context.Context, cutoff time.Time) ([]domain.PaymentSession, error) {
	var rows []domain.PaymentSession
	tx := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(domain.SessionCreated), cutoff).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

// MarkExpired times out a stale session; a success callback that lands in the
// same instant wins or loses atomically on the status condition.
func (r *PaymentSessionRepository) MarkExpired(ctx context.Context, orderID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.PaymentSession{}).
		Where("order_id = ? AND status = ?", orderID, string(domain.SessionCreated)).
		Updates(map[string]interface{}{
			"status":         string(domain.SessionExpired),
			"failure_reason": "payment session expired before gateway callback",
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
