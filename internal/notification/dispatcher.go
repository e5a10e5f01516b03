//go:generate mockgen -source ./dispatcher.go -destination=./mocks/dispatcher.go -package=mock_notification
package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/opengestu/validele-sub000/internal/metrics"
	"github.com/opengestu/validele-sub000/internal/order"
)

const defaultSendTimeout = 10 * time.Second

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Dispatcher fans messages out without blocking the caller. Send failures are
// logged and counted, never returned.
type Dispatcher struct {
	notifier Notifier
	limiter  *rate.Limiter
	logger   *zap.Logger
	admins   []string
	timeout  time.Duration

	// mu orders wg.Add against Close.
	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

func NewDispatcher(notifier Notifier, perSecond float64, burst int, admins []string, logger *zap.Logger) *Dispatcher {
	if burst <= 0 {
		burst = 1
	}
	return &Dispatcher{
		notifier: notifier,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:   logger,
		admins:   admins,
		timeout:  defaultSendTimeout,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev Event, o *order.Order, data Context) {
	if data.Admins == nil {
		data.Admins = d.admins
	}
	msgs := Render(ev, o, data)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.logger.Warn("dispatcher closed, dropping notification", zap.String("event", string(ev)), zap.String("order_id", o.ID))
		return
	}

	// Sends outlive the request that triggered them.
	base := context.WithoutCancel(ctx)
	for _, msg := range msgs {
		d.wg.Add(1)
		go d.send(base, msg)
	}
}

func (d *Dispatcher) send(base context.Context, msg Message) {
	defer d.wg.Done()

	ctx, cancel := context.WithTimeout(base, d.timeout)
	defer cancel()

	log := d.logger.With(
		zap.String("event", string(msg.Event)),
		zap.String("order_id", msg.OrderID),
		zap.String("recipient", msg.Recipient),
	)

	if err := d.limiter.Wait(ctx); err != nil {
		metrics.NotificationsTotal.WithLabelValues(string(msg.Event), "throttled").Inc()
		log.Warn("notification dropped by rate limiter", zap.Error(err))
		return
	}
	if err := d.notifier.Notify(ctx, msg); err != nil {
		metrics.NotificationsTotal.WithLabelValues(string(msg.Event), "error").Inc()
		log.Warn("failed to send notification", zap.Error(err))
		return
	}
	metrics.NotificationsTotal.WithLabelValues(string(msg.Event), "sent").Inc()
}

// Wait blocks until every in-flight send has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close stops accepting events and drains in-flight sends until ctx ends.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
