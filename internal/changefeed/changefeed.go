// Package changefeed carries order snapshots between processes after each
// committed transition. Delivery is best-effort and at-least-once.
package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/opengestu/validele-sub000/internal/order"
)

// Event is an order snapshot without the proof-of-delivery secret.
type Event struct {
	Order *order.Order `json:"order"`
	At    time.Time    `json:"at"`
}

type Applier interface {
	Apply(o *order.Order)
}

type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, o *order.Order) error {
	msg, err := json.Marshal(Event{Order: o.Redacted(), At: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, msg).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

type RedisSubscriber struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

func NewRedisSubscriber(client *redis.Client, channel string, logger *zap.Logger) *RedisSubscriber {
	return &RedisSubscriber{client: client, channel: channel, logger: logger}
}

// Run applies every received event until ctx is cancelled.
func (s *RedisSubscriber) Run(ctx context.Context, sink Applier) error {
	sub := s.client.Subscribe(ctx, s.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.channel, err)
	}
	s.logger.Info("Subscribed to order change feed", zap.String("channel", s.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			ev, err := Decode([]byte(msg.Payload))
			if err != nil {
				s.logger.Warn("Dropping malformed change event", zap.Error(err))
				continue
			}
			sink.Apply(ev.Order)
		}
	}
}

func Decode(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if ev.Order == nil || ev.Order.ID == "" {
		return nil, fmt.Errorf("change event without order")
	}
	return &ev, nil
}

// Local applies events in-process; used when redis is disabled.
type Local struct {
	sink Applier
}

func NewLocal(sink Applier) *Local {
	return &Local{sink: sink}
}

func (l *Local) Publish(_ context.Context, o *order.Order) error {
	l.sink.Apply(o.Redacted())
	return nil
}
