package order

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{
	StatusPending, StatusPaid, StatusAssigned, StatusInDelivery,
	StatusDelivered, StatusCancelled, StatusRefunded,
}

func TestParseStatus(t *testing.T) {
	for _, s := range allStatuses {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	t.Run("unknown status fails loudly", func(t *testing.T) {
		_, err := ParseStatus("shipped")
		assert.ErrorIs(t, err, ErrUnknownStatus)

		_, err = ParseStatus("PAID")
		assert.ErrorIs(t, err, ErrUnknownStatus)
	})
}

func TestTerminalStatusesHaveNoOutgoingEdges(t *testing.T) {
	for _, from := range allStatuses {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range allStatuses {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusAssigned, false},
		{StatusPending, StatusCancelled, false},
		{StatusPaid, StatusAssigned, true},
		{StatusPaid, StatusInDelivery, false},
		{StatusPaid, StatusCancelled, true},
		{StatusAssigned, StatusInDelivery, true},
		{StatusAssigned, StatusDelivered, false},
		{StatusAssigned, StatusCancelled, true},
		{StatusInDelivery, StatusDelivered, true},
		{StatusInDelivery, StatusCancelled, true},
		{StatusCancelled, StatusRefunded, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestSources(t *testing.T) {
	assert.Equal(t, []Status{StatusPaid, StatusAssigned, StatusInDelivery}, Sources(StatusCancelled))
	assert.Equal(t, []Status{StatusPaid}, Sources(StatusAssigned))
	assert.Empty(t, Sources(StatusRefunded))
}

func TestNormalizeProviderStatus(t *testing.T) {
	tests := map[string]TxStatus{
		"SUCCESS":    TxSuccessful,
		"completed":  TxSuccessful,
		" Pending ":  TxPending,
		"processing": TxPending,
		"rejected":   TxFailed,
		"EXPIRED":    TxFailed,
	}
	for raw, want := range tests {
		got, err := NormalizeProviderStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := NormalizeProviderStatus("maybe")
	assert.True(t, errors.Is(err, ErrUnknownStatus))
}

func TestGuardMatches(t *testing.T) {
	courier := "courier-a"
	paid := &Order{ID: "o1", Status: StatusPaid}
	assigned := &Order{ID: "o1", Status: StatusAssigned, DeliveryPersonID: &courier}

	claim := Guard{ID: "o1", From: []Status{StatusPaid}, Courier: Unassigned()}
	assert.True(t, claim.Matches(paid))
	assert.False(t, claim.Matches(assigned))

	start := Guard{ID: "o1", From: []Status{StatusAssigned}, Courier: CourierIs(courier)}
	assert.True(t, start.Matches(assigned))
	assert.False(t, Guard{ID: "o1", From: []Status{StatusAssigned}, Courier: CourierIs("courier-b")}.Matches(assigned))
	assert.False(t, Guard{ID: "o2", From: []Status{StatusAssigned}, Courier: AnyCourier()}.Matches(assigned))
}

func TestPatchTimestampsAreSetOnce(t *testing.T) {
	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	courier := "courier-a"
	other := "courier-b"

	o := &Order{ID: "o1", Status: StatusPaid}
	Patch{To: StatusAssigned, DeliveryPersonID: &courier, AssignedAt: &first, UpdatedAt: first}.Apply(o)
	Patch{To: StatusAssigned, DeliveryPersonID: &other, AssignedAt: &second, UpdatedAt: second}.Apply(o)

	require.NotNil(t, o.AssignedAt)
	assert.Equal(t, first, *o.AssignedAt)
	assert.Equal(t, courier, o.Courier())
	assert.Equal(t, second, o.UpdatedAt)
}
