package settlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/payment"
	mock_payment "github.com/opengestu/validele-sub000/internal/payment/mocks"
	"github.com/opengestu/validele-sub000/internal/repository/memory"
	"github.com/opengestu/validele-sub000/internal/storage"
)

func deliveredOrder() *order.Order {
	return &order.Order{
		ID:          "order-1",
		VendorID:    "vendor-1",
		BuyerID:     "buyer-1",
		TotalAmount: decimal.RequireFromString("2500"),
		Status:      order.StatusDelivered,
	}
}

func newTestService(t *testing.T) (*Service, storage.TransactionRepository, *mock_payment.MockGateway) {
	ctrl := gomock.NewController(t)
	gw := mock_payment.NewMockGateway(ctrl)
	txs := memory.NewStore().Transactions()
	s := NewService(txs, gw, zap.NewNop())
	s.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }
	return s, txs, gw
}

func TestMarkPayoutEligible_Idempotent(t *testing.T) {
	s, txs, _ := newTestService(t)
	ctx := context.Background()
	o := deliveredOrder()

	first, err := s.MarkPayoutEligible(ctx, o)
	require.NoError(t, err)
	second, err := s.MarkPayoutEligible(ctx, o)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, order.TxPending, second.Status)
	assert.Nil(t, second.ApprovedAt)

	eligible, err := txs.ListEligiblePayouts(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, eligible, 1)
}

func TestRecordPayment_NeverDowngrades(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	o := deliveredOrder()

	tx, err := s.RecordPayment(ctx, o, order.TxPending, "P-1", "")
	require.NoError(t, err)
	assert.Equal(t, order.TxPending, tx.Status)

	tx, err = s.RecordPayment(ctx, o, order.TxSuccessful, "P-1", "")
	require.NoError(t, err)
	assert.Equal(t, order.TxSuccessful, tx.Status)

	tx, err = s.RecordPayment(ctx, o, order.TxFailed, "P-1", "late failure")
	require.NoError(t, err)
	assert.Equal(t, order.TxSuccessful, tx.Status)
}

func TestRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing to refund without a successful payment", func(t *testing.T) {
		s, _, _ := newTestService(t)
		tx, err := s.Refund(ctx, deliveredOrder(), "")
		assert.NoError(t, err)
		assert.Nil(t, tx)
	})

	t.Run("accepted refund is not requested twice", func(t *testing.T) {
		s, _, gw := newTestService(t)
		o := deliveredOrder()
		_, err := s.RecordPayment(ctx, o, order.TxSuccessful, "P-1", "")
		require.NoError(t, err)

		gw.EXPECT().RequestRefund(gomock.Any(), "order-1", o.TotalAmount, "buyer changed mind").
			Return(&payment.Result{Status: order.TxPending, ProviderRef: "R-1"}, nil).Times(1)

		tx, err := s.Refund(ctx, o, "buyer changed mind")
		require.NoError(t, err)
		assert.Equal(t, order.TxPending, tx.Status)
		assert.Equal(t, "R-1", tx.ProviderRef)

		again, err := s.Refund(ctx, o, "buyer changed mind")
		require.NoError(t, err)
		assert.Equal(t, tx.ID, again.ID)
	})

	t.Run("collaborator failure is recorded and retried later", func(t *testing.T) {
		s, txs, gw := newTestService(t)
		o := deliveredOrder()
		_, err := s.RecordPayment(ctx, o, order.TxSuccessful, "P-1", "")
		require.NoError(t, err)

		gomock.InOrder(
			gw.EXPECT().RequestRefund(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout")),
			gw.EXPECT().RequestRefund(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(&payment.Result{Status: order.TxSuccessful, ProviderRef: "R-2"}, nil),
		)

		tx, err := s.Refund(ctx, o, "")
		assert.ErrorIs(t, err, order.ErrCollaboratorUnavailable)
		require.NotNil(t, tx)
		assert.Equal(t, order.TxFailed, tx.Status)

		tx, err = s.Refund(ctx, o, "")
		require.NoError(t, err)
		assert.Equal(t, order.TxSuccessful, tx.Status)

		stored, err := txs.Get(ctx, o.ID, order.TxRefund)
		require.NoError(t, err)
		assert.Equal(t, order.TxSuccessful, stored.Status)
	})

	t.Run("provider rejection is returned with the refund", func(t *testing.T) {
		s, txs, gw := newTestService(t)
		o := deliveredOrder()
		_, err := s.RecordPayment(ctx, o, order.TxSuccessful, "P-1", "")
		require.NoError(t, err)

		gw.EXPECT().RequestRefund(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&payment.Result{Status: order.TxFailed, ProviderRef: "R-3", Message: "account closed"}, nil)

		tx, err := s.Refund(ctx, o, "")
		assert.ErrorIs(t, err, order.ErrCollaboratorUnavailable)
		assert.ErrorContains(t, err, "account closed")
		require.NotNil(t, tx)
		assert.Equal(t, order.TxFailed, tx.Status)

		stored, err := txs.Get(ctx, o.ID, order.TxRefund)
		require.NoError(t, err)
		assert.Equal(t, order.TxFailed, stored.Status)
		assert.Equal(t, "R-3", stored.ProviderRef)
	})
}

func TestApprovePayout(t *testing.T) {
	ctx := context.Background()

	t.Run("approves once", func(t *testing.T) {
		s, txs, gw := newTestService(t)
		o := deliveredOrder()
		_, err := s.MarkPayoutEligible(ctx, o)
		require.NoError(t, err)

		gw.EXPECT().RequestPayout(gomock.Any(), "vendor-1", "order-1", gomock.Any()).
			Return(&payment.Result{Status: order.TxPending, ProviderRef: "PO-1"}, nil).Times(1)

		tx, err := s.ApprovePayout(ctx, o)
		require.NoError(t, err)
		require.NotNil(t, tx.ApprovedAt)
		assert.Equal(t, "PO-1", tx.ProviderRef)
		assert.Equal(t, order.TxPending, tx.Status)

		again, err := s.ApprovePayout(ctx, o)
		require.NoError(t, err)
		assert.Equal(t, tx.ID, again.ID)

		eligible, err := txs.ListEligiblePayouts(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, eligible)
	})

	t.Run("no payout recorded", func(t *testing.T) {
		s, _, _ := newTestService(t)
		_, err := s.ApprovePayout(ctx, deliveredOrder())
		assert.ErrorIs(t, err, order.ErrDataInconsistency)
	})

	t.Run("provider error", func(t *testing.T) {
		s, txs, gw := newTestService(t)
		o := deliveredOrder()
		_, err := s.MarkPayoutEligible(ctx, o)
		require.NoError(t, err)

		gomock.InOrder(
			gw.EXPECT().RequestPayout(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("503")),
			gw.EXPECT().RequestPayout(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(&payment.Result{Status: order.TxPending, ProviderRef: "PO-2"}, nil),
		)

		_, err = s.ApprovePayout(ctx, o)
		assert.ErrorIs(t, err, order.ErrCollaboratorUnavailable)

		stored, err := txs.Get(ctx, o.ID, order.TxPayout)
		require.NoError(t, err)
		assert.Nil(t, stored.ApprovedAt)
		assert.Equal(t, order.TxFailed, stored.Status)
		assert.Equal(t, "503", stored.Message)

		eligible, err := txs.ListEligiblePayouts(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, eligible, 1)

		tx, err := s.ApprovePayout(ctx, o)
		require.NoError(t, err)
		require.NotNil(t, tx.ApprovedAt)
		assert.Equal(t, order.TxPending, tx.Status)
		assert.Equal(t, "PO-2", tx.ProviderRef)
	})

	t.Run("provider rejection", func(t *testing.T) {
		s, txs, gw := newTestService(t)
		o := deliveredOrder()
		_, err := s.MarkPayoutEligible(ctx, o)
		require.NoError(t, err)

		gw.EXPECT().RequestPayout(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&payment.Result{Status: order.TxFailed, Message: "iban invalid"}, nil)

		_, err = s.ApprovePayout(ctx, o)
		assert.ErrorIs(t, err, order.ErrCollaboratorUnavailable)

		stored, err := txs.Get(ctx, o.ID, order.TxPayout)
		require.NoError(t, err)
		assert.Nil(t, stored.ApprovedAt)
		assert.Equal(t, order.TxFailed, stored.Status)
	})
}

func TestApplyCallback_RejectedPayoutIsEligibleAgain(t *testing.T) {
	ctx := context.Background()
	s, txs, gw := newTestService(t)
	o := deliveredOrder()
	_, err := s.MarkPayoutEligible(ctx, o)
	require.NoError(t, err)

	gw.EXPECT().RequestPayout(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&payment.Result{Status: order.TxPending, ProviderRef: "PO-1"}, nil)
	_, err = s.ApprovePayout(ctx, o)
	require.NoError(t, err)

	tx, err := s.ApplyCallback(ctx, &payment.Callback{Kind: "payout", OrderID: "order-1", Status: "failed", Message: "bank refused"})
	require.NoError(t, err)
	assert.Equal(t, order.TxFailed, tx.Status)
	assert.Nil(t, tx.ApprovedAt)

	eligible, err := txs.ListEligiblePayouts(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, eligible, 1)
}

func TestApplyCallback(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	o := deliveredOrder()
	_, err := s.MarkPayoutEligible(ctx, o)
	require.NoError(t, err)

	tx, err := s.ApplyCallback(ctx, &payment.Callback{Kind: "payout", OrderID: "order-1", Status: "completed", ProviderRef: "PO-9"})
	require.NoError(t, err)
	assert.Equal(t, order.TxSuccessful, tx.Status)

	tx, err = s.ApplyCallback(ctx, &payment.Callback{Kind: "payout", OrderID: "order-1", Status: "failed"})
	require.NoError(t, err)
	assert.Equal(t, order.TxSuccessful, tx.Status, "a settled payout is final")

	_, err = s.ApplyCallback(ctx, &payment.Callback{Kind: "refund", OrderID: "order-1", Status: "completed"})
	assert.ErrorIs(t, err, order.ErrNotFound)

	_, err = s.ApplyCallback(ctx, &payment.Callback{Kind: "payment", OrderID: "order-1", Status: "completed"})
	assert.ErrorIs(t, err, order.ErrInvalidArgument)
}
