package notification_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/opengestu/validele-sub000/internal/notification"
	mock_notification "github.com/opengestu/validele-sub000/internal/notification/mocks"
	"github.com/opengestu/validele-sub000/internal/order"
)

func testOrder(courier string) *order.Order {
	o := &order.Order{
		ID:          "order-1",
		OrderCode:   "VLAB12CD",
		BuyerID:     "buyer-1",
		VendorID:    "vendor-1",
		TotalAmount: decimal.RequireFromString("2500"),
		UpdatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if courier != "" {
		o.DeliveryPersonID = &courier
	}
	return o
}

func recipientsOf(msgs []notification.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Recipient)
	}
	sort.Strings(out)
	return out
}

func TestRender_Recipients(t *testing.T) {
	admins := []string{"admin-1", "admin-2"}
	tests := []struct {
		name    string
		event   notification.Event
		courier string
		want    []string
	}{
		{"created goes to vendor", notification.EventOrderCreated, "", []string{"vendor-1"}},
		{"payment failed goes to buyer", notification.EventPaymentFailed, "", []string{"buyer-1"}},
		{"delivery started", notification.EventDeliveryStarted, "courier-1", []string{"buyer-1", "vendor-1"}},
		{"delivered includes admins", notification.EventDelivered, "courier-1", []string{"admin-1", "admin-2", "buyer-1", "vendor-1"}},
		{"cancelled includes assigned courier", notification.EventCancelled, "courier-1", []string{"admin-1", "admin-2", "buyer-1", "courier-1", "vendor-1"}},
		{"cancelled without courier", notification.EventCancelled, "", []string{"admin-1", "admin-2", "buyer-1", "vendor-1"}},
		{"unknown event", notification.Event("teleported"), "", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msgs := notification.Render(tc.event, testOrder(tc.courier), notification.Context{Admins: admins})
			assert.Equal(t, tc.want, recipientsOf(msgs))
		})
	}
}

func TestRender_ReasonAndDedup(t *testing.T) {
	o := testOrder("")
	o.VendorID = "buyer-1"

	msgs := notification.Render(notification.EventCancelled, o, notification.Context{Reason: "changed my mind", Admins: []string{"buyer-1"}})
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Body, "changed my mind")
	assert.Equal(t, o.UpdatedAt, msgs[0].At)
}

func TestDispatcher_SwallowsFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mock_notification.NewMockNotifier(ctrl)

	var mu sync.Mutex
	var got []string
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg notification.Message) error {
		mu.Lock()
		got = append(got, msg.Recipient)
		mu.Unlock()
		if msg.Recipient == "vendor-1" {
			return errors.New("push provider unavailable")
		}
		return nil
	}).Times(3)

	d := notification.NewDispatcher(notifier, 1000, 10, []string{"admin-1"}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Dispatch(ctx, notification.EventDelivered, testOrder("courier-1"), notification.Context{})
	cancel()
	d.Wait()

	sort.Strings(got)
	assert.Equal(t, []string{"admin-1", "buyer-1", "vendor-1"}, got)
}

func TestDispatcher_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mock_notification.NewMockNotifier(ctrl)

	d := notification.NewDispatcher(notifier, 1000, 10, nil, zap.NewNop())
	require.NoError(t, d.Close(context.Background()))

	d.Dispatch(context.Background(), notification.EventOrderCreated, testOrder(""), notification.Context{})
	d.Wait()
}

func TestDispatcher_DispatchRacesClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mock_notification.NewMockNotifier(ctrl)

	var sent atomic.Int32
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, notification.Message) error {
		sent.Add(1)
		return nil
	}).AnyTimes()

	d := notification.NewDispatcher(notifier, 1e6, 1000, nil, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				d.Dispatch(context.Background(), notification.EventOrderCreated, testOrder(""), notification.Context{})
			}
		}()
	}

	require.NoError(t, d.Close(context.Background()))
	drained := sent.Load()
	wg.Wait()
	d.Wait()

	assert.Equal(t, drained, sent.Load(), "no send may start after Close returns")
}
