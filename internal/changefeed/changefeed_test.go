package changefeed

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengestu/validele-sub000/internal/order"
)

type recorder struct {
	got []*order.Order
}

func (r *recorder) Apply(o *order.Order) {
	r.got = append(r.got, o)
}

func TestDecode(t *testing.T) {
	data, err := json.Marshal(Event{Order: &order.Order{ID: "o1", Status: order.StatusPaid}})
	require.NoError(t, err)

	ev, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "o1", ev.Order.ID)
	assert.Equal(t, order.StatusPaid, ev.Order.Status)

	_, err = Decode([]byte(`{"at":"2025-01-01T00:00:00Z"}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestLocal_RedactsSecret(t *testing.T) {
	rec := &recorder{}
	l := NewLocal(rec)

	require.NoError(t, l.Publish(context.Background(), &order.Order{ID: "o1", QRCode: "SECRET"}))
	require.Len(t, rec.got, 1)
	assert.Empty(t, rec.got[0].QRCode)
}
