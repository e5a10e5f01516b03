package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/opengestu/validele-sub000/internal/notification"
	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/payment"
)

func TestCancel_AfterClaimRefundsPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.seed(t, order.StatusPaid, "")
	f.paid(t, o)

	_, err := f.svc.TryClaim(ctx, courierA, o.ID)
	require.NoError(t, err)

	f.gateway.EXPECT().RequestRefund(gomock.Any(), o.ID, gomock.Any(), "changed my mind").
		Return(&payment.Result{Status: order.TxPending, ProviderRef: "rf-1"}, nil)

	out, err := f.svc.Cancel(ctx, buyer, o.ID, CancelRequest{Reason: " changed my mind "})
	require.NoError(t, err)
	require.NoError(t, out.RefundErr)

	assert.Equal(t, order.StatusCancelled, out.Order.Status)
	assert.Equal(t, "changed my mind", out.Order.CancelReason)
	require.NotNil(t, out.Refund)
	assert.Equal(t, order.TxRefund, out.Refund.Type)
	assert.Equal(t, order.TxPending, out.Refund.Status)
	assert.True(t, o.TotalAmount.Equal(out.Refund.Amount))

	stored := f.reload(t, o.ID)
	assert.Equal(t, order.StatusCancelled, stored.Status)
	assert.NotNil(t, stored.CancelledAt)
	assert.Equal(t, 1, f.count(notification.EventCancelled))
}

func TestCancel_RefundFailureKeepsCancellation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.seed(t, order.StatusPaid, "")
	f.paid(t, o)

	f.gateway.EXPECT().RequestRefund(gomock.Any(), o.ID, gomock.Any(), "").
		Return(nil, errors.New("provider timeout"))

	out, err := f.svc.Cancel(ctx, operator, o.ID, CancelRequest{})
	require.NoError(t, err)
	assert.ErrorIs(t, out.RefundErr, order.ErrCollaboratorUnavailable)
	require.NotNil(t, out.Refund)
	assert.Equal(t, order.TxFailed, out.Refund.Status)

	assert.Equal(t, order.StatusCancelled, f.reload(t, o.ID).Status)
	assert.Equal(t, 1, f.count(notification.EventRefundFailed))

	t.Run("provider rejects the refund", func(t *testing.T) {
		f := newFixture(t)
		o := f.seed(t, order.StatusPaid, "")
		f.paid(t, o)

		f.gateway.EXPECT().RequestRefund(gomock.Any(), o.ID, gomock.Any(), "").
			Return(&payment.Result{Status: order.TxFailed, Message: "account closed"}, nil)

		out, err := f.svc.Cancel(ctx, buyer, o.ID, CancelRequest{})
		require.NoError(t, err)
		assert.ErrorIs(t, out.RefundErr, order.ErrCollaboratorUnavailable)
		require.NotNil(t, out.Refund)
		assert.Equal(t, order.TxFailed, out.Refund.Status)

		assert.Equal(t, order.StatusCancelled, f.reload(t, o.ID).Status)
		assert.Equal(t, 1, f.count(notification.EventRefundFailed))
	})
}

func TestRetryRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("failed refund is requested again", func(t *testing.T) {
		f := newFixture(t)
		o := f.seed(t, order.StatusPaid, "")
		f.paid(t, o)

		gomock.InOrder(
			f.gateway.EXPECT().RequestRefund(gomock.Any(), o.ID, gomock.Any(), "late").
				Return(nil, errors.New("provider timeout")),
			f.gateway.EXPECT().RequestRefund(gomock.Any(), o.ID, gomock.Any(), "late").
				Return(&payment.Result{Status: order.TxPending, ProviderRef: "rf-2"}, nil),
		)

		out, err := f.svc.Cancel(ctx, buyer, o.ID, CancelRequest{Reason: "late"})
		require.NoError(t, err)
		require.Error(t, out.RefundErr)

		tx, err := f.svc.RetryRefund(ctx, operator, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.TxPending, tx.Status)
		assert.Equal(t, "rf-2", tx.ProviderRef)

		again, err := f.svc.RetryRefund(ctx, operator, o.ID)
		require.NoError(t, err)
		assert.Equal(t, tx.ID, again.ID)
	})

	t.Run("failure notifies the buyer", func(t *testing.T) {
		f := newFixture(t)
		o := f.seed(t, order.StatusPaid, "")
		f.paid(t, o)

		f.gateway.EXPECT().RequestRefund(gomock.Any(), o.ID, gomock.Any(), gomock.Any()).
			Return(nil, errors.New("provider timeout")).Times(2)

		_, err := f.svc.Cancel(ctx, buyer, o.ID, CancelRequest{})
		require.NoError(t, err)

		_, err = f.svc.RetryRefund(ctx, operator, o.ID)
		assert.ErrorIs(t, err, order.ErrCollaboratorUnavailable)
		assert.Equal(t, 2, f.count(notification.EventRefundFailed))
	})

	t.Run("rejections", func(t *testing.T) {
		f := newFixture(t)
		active := f.seed(t, order.StatusPaid, "")
		_, err := f.svc.RetryRefund(ctx, operator, active.ID)
		assert.ErrorIs(t, err, order.ErrInvalidArgument)

		_, err = f.svc.RetryRefund(ctx, buyer, active.ID)
		assert.ErrorIs(t, err, order.ErrForbidden)

		unpaid := f.seed(t, order.StatusCancelled, "")
		_, err = f.svc.RetryRefund(ctx, operator, unpaid.ID)
		assert.ErrorIs(t, err, order.ErrInvalidArgument)
	})
}

func TestCancel_UnpaidOrderHasNoRefund(t *testing.T) {
	f := newFixture(t)
	o := f.seed(t, order.StatusPaid, "")

	out, err := f.svc.Cancel(context.Background(), buyer, o.ID, CancelRequest{})
	require.NoError(t, err)
	assert.Nil(t, out.Refund)
	assert.NoError(t, out.RefundErr)
}

func TestCancel_StaleExpectedStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.seed(t, order.StatusPaid, "")

	_, err := f.svc.TryClaim(ctx, courierA, o.ID)
	require.NoError(t, err)

	// The buyer's screen still shows paid.
	_, err = f.svc.Cancel(ctx, buyer, o.ID, CancelRequest{Expected: order.StatusPaid})
	assert.ErrorIs(t, err, order.ErrIllegalTransition)

	stored := f.reload(t, o.ID)
	assert.Equal(t, order.StatusAssigned, stored.Status)
	assert.True(t, stored.OwnedBy(courierA.ActorID))

	// Re-validated against the fresh status it goes through.
	out, err := f.svc.Cancel(ctx, buyer, o.ID, CancelRequest{Expected: order.StatusAssigned})
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, out.Order.Status)
}

func TestCancel_ThenClaimFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.seed(t, order.StatusPaid, "")

	_, err := f.svc.Cancel(ctx, buyer, o.ID, CancelRequest{})
	require.NoError(t, err)

	_, err = f.svc.TryClaim(ctx, courierA, o.ID)
	assert.ErrorIs(t, err, order.ErrClaimConflict)
	assert.Nil(t, f.reload(t, o.ID).DeliveryPersonID)
}

func TestCancel_RacesClaim(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		f := newFixture(t)
		o := f.seed(t, order.StatusPaid, "")

		var (
			wg        sync.WaitGroup
			claimErr  error
			cancelErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, claimErr = f.svc.TryClaim(ctx, courierA, o.ID)
		}()
		go func() {
			defer wg.Done()
			_, cancelErr = f.svc.Cancel(ctx, buyer, o.ID, CancelRequest{Expected: order.StatusPaid})
		}()
		wg.Wait()

		stored := f.reload(t, o.ID)
		switch stored.Status {
		case order.StatusAssigned:
			assert.NoError(t, claimErr)
			assert.ErrorIs(t, cancelErr, order.ErrIllegalTransition)
		case order.StatusCancelled:
			assert.NoError(t, cancelErr)
			assert.ErrorIs(t, claimErr, order.ErrClaimConflict)
			assert.Nil(t, stored.DeliveryPersonID)
		default:
			t.Fatalf("unexpected status %s", stored.Status)
		}
	}
}

func TestCancel_Rejections(t *testing.T) {
	ctx := context.Background()

	for _, status := range []order.Status{order.StatusPending, order.StatusDelivered, order.StatusCancelled, order.StatusRefunded} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			o := f.seed(t, status, "")
			_, err := f.svc.Cancel(ctx, operator, o.ID, CancelRequest{})
			assert.ErrorIs(t, err, order.ErrIllegalTransition)
			assert.Equal(t, status, f.reload(t, o.ID).Status)
		})
	}

	t.Run("another buyer", func(t *testing.T) {
		f := newFixture(t)
		o := f.seed(t, order.StatusPaid, "")
		_, err := f.svc.Cancel(ctx, order.Session{ActorID: "buyer-2", Role: order.RoleBuyer}, o.ID, CancelRequest{})
		assert.ErrorIs(t, err, order.ErrForbidden)
	})

	t.Run("couriers cannot cancel", func(t *testing.T) {
		f := newFixture(t)
		o := f.seed(t, order.StatusAssigned, courierA.ActorID)
		_, err := f.svc.Cancel(ctx, courierA, o.ID, CancelRequest{})
		assert.ErrorIs(t, err, order.ErrForbidden)
	})
}

func TestApprovePayout(t *testing.T) {
	ctx := context.Background()

	t.Run("delivered order", func(t *testing.T) {
		f := newFixture(t)
		o := f.seed(t, order.StatusDelivered, courierA.ActorID)
		_, err := f.settlement.MarkPayoutEligible(ctx, o)
		require.NoError(t, err)

		f.gateway.EXPECT().RequestPayout(gomock.Any(), vendor.ActorID, o.ID, gomock.Any()).
			Return(&payment.Result{Status: order.TxPending, ProviderRef: "po-1"}, nil)

		tx, err := f.svc.ApprovePayout(ctx, operator, o.ID)
		require.NoError(t, err)
		assert.NotNil(t, tx.ApprovedAt)
		assert.Equal(t, "po-1", tx.ProviderRef)
		assert.Equal(t, 1, f.count(notification.EventPayoutApproved))

		eligible, err := f.svc.ListEligiblePayouts(ctx, operator, 10)
		require.NoError(t, err)
		assert.Empty(t, eligible)
	})

	t.Run("provider failure leaves the payout approvable", func(t *testing.T) {
		f := newFixture(t)
		o := f.seed(t, order.StatusDelivered, courierA.ActorID)
		_, err := f.settlement.MarkPayoutEligible(ctx, o)
		require.NoError(t, err)

		gomock.InOrder(
			f.gateway.EXPECT().RequestPayout(gomock.Any(), vendor.ActorID, o.ID, gomock.Any()).
				Return(nil, errors.New("provider down")),
			f.gateway.EXPECT().RequestPayout(gomock.Any(), vendor.ActorID, o.ID, gomock.Any()).
				Return(&payment.Result{Status: order.TxPending, ProviderRef: "po-2"}, nil),
		)

		_, err = f.svc.ApprovePayout(ctx, operator, o.ID)
		assert.ErrorIs(t, err, order.ErrCollaboratorUnavailable)
		assert.Zero(t, f.count(notification.EventPayoutApproved))

		eligible, err := f.svc.ListEligiblePayouts(ctx, operator, 10)
		require.NoError(t, err)
		require.Len(t, eligible, 1)
		assert.Equal(t, order.TxFailed, eligible[0].Status)

		tx, err := f.svc.ApprovePayout(ctx, operator, o.ID)
		require.NoError(t, err)
		assert.NotNil(t, tx.ApprovedAt)
		assert.Equal(t, order.TxPending, tx.Status)
		assert.Equal(t, 1, f.count(notification.EventPayoutApproved))
	})

	t.Run("not delivered", func(t *testing.T) {
		f := newFixture(t)
		o := f.seed(t, order.StatusInDelivery, courierA.ActorID)
		_, err := f.svc.ApprovePayout(ctx, operator, o.ID)
		assert.ErrorIs(t, err, order.ErrInvalidArgument)
	})

	t.Run("operators only", func(t *testing.T) {
		f := newFixture(t)
		o := f.seed(t, order.StatusDelivered, courierA.ActorID)
		_, err := f.svc.ApprovePayout(ctx, vendor, o.ID)
		assert.ErrorIs(t, err, order.ErrForbidden)
		_, err = f.svc.ListEligiblePayouts(ctx, vendor, 10)
		assert.ErrorIs(t, err, order.ErrForbidden)
	})
}

func TestApplySettlementCallback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.seed(t, order.StatusPaid, "")
	f.paid(t, o)

	f.gateway.EXPECT().RequestRefund(gomock.Any(), o.ID, gomock.Any(), gomock.Any()).
		Return(&payment.Result{Status: order.TxPending}, nil)
	_, err := f.svc.Cancel(ctx, buyer, o.ID, CancelRequest{})
	require.NoError(t, err)

	tx, err := f.svc.ApplySettlementCallback(ctx, webhook, &payment.Callback{
		Kind: "refund", OrderID: o.ID, Status: "REJECTED", Message: "account closed",
	})
	require.NoError(t, err)
	assert.Equal(t, order.TxFailed, tx.Status)
	assert.Equal(t, 1, f.count(notification.EventRefundFailed))
	assert.Equal(t, order.StatusCancelled, f.reload(t, o.ID).Status)

	_, err = f.svc.ApplySettlementCallback(ctx, buyer, &payment.Callback{Kind: "refund", OrderID: o.ID, Status: "SUCCESSFUL"})
	assert.ErrorIs(t, err, order.ErrForbidden)
}
