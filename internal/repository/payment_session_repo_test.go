package repository

import (
	"context"
	"testing"
	"time"

	"hotelbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSession(t *testing.T, repo *PaymentSessionRepository, orderID string) *domain.PaymentSession {
	t.Helper()
	s := &domain.PaymentSession{
		BookingID: 1,
		OrderID:   orderID,
		Gateway:   domain.GatewayVNPay,
		Amount:    1500000,
		Status:    domain.SessionCreated,
	}
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func TestPaymentSessionRepository_MarkConfirmedIdempotent(t *testing.T) {
	repo := NewPaymentSessionRepository(setupDB(t))
	ctx := context.Background()
	seedSession(t, repo, "1_100")

	changed, err := repo.MarkConfirmedIdempotent(ctx, "1_100", "txn-9", "raw", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkConfirmedIdempotent(ctx, "1_100", "txn-9", "raw-dup", time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, changed)

	s, err := repo.GetByOrderID(ctx, "1_100")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionConfirmed, s.Status)
	assert.Equal(t, "txn-9", s.TransactionID)
	assert.NotNil(t, s.PaidAt)
}

func TestPaymentSessionRepository_MarkFailed_SkipsConfirmed(t *testing.T) {
	repo := NewPaymentSessionRepository(setupDB(t))
	ctx := context.Background()
	seedSession(t, repo, "1_200")

	_, err := repo.MarkConfirmedIdempotent(ctx, "1_200", "txn", "raw", time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, repo.MarkFailed(ctx, "1_200", "raw-late", "late failure callback"))

	s, err := repo.GetByOrderID(ctx, "1_200")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionConfirmed, s.Status, "confirmed session must not regress")
}

func TestPaymentSessionRepository_Expiry(t *testing.T) {
	repo := NewPaymentSessionRepository(setupDB(t))
	ctx := context.Background()
	seedSession(t, repo, "1_300")

	stale, err := repo.ListStaleCreated(ctx, time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, stale, 1)

	ok, err := repo.MarkExpired(ctx, "1_300")
	require.NoError(t, err)
	assert.True(t, ok)

	// Expiring twice is a no-op.
	ok, err = repo.MarkExpired(ctx, "1_300")
	require.NoError(t, err)
	assert.False(t, ok)
}
