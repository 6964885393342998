package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"tablehub/internal/domain/reservation"
	"tablehub/internal/pkg/logger"
)

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
	prefetch   = 50
)

// HandlerFunc processes one event. A returned error rejects the delivery
// without requeueing it.
type HandlerFunc func(ctx context.Context, ev reservation.Event) error

type Consumer struct {
	url     string
	handler HandlerFunc
}

func NewConsumer(url string, handler HandlerFunc) *Consumer {
	return &Consumer{url: url, handler: handler}
}

// Run consumes until ctx is cancelled, redialing with exponential backoff
// whenever the broker connection is lost.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := minBackoff
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			logger.Log.Warn("amqp dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = minBackoff

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Log.Warn("amqp consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(prefetch, 0, false); err != nil {
		logger.Log.Warn("amqp qos failed", zap.Error(err))
	}
	if err := declare(ch); err != nil {
		return err
	}

	deliveries, err := ch.Consume(ReservationQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	logger.Log.Info("amqp consumer started", zap.String("queue", ReservationQueue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handle(ctx, d.Body); err != nil {
				logger.Log.Error("reservation event rejected", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, body []byte) error {
	ev, err := decodeEvent(body)
	if err != nil {
		return err
	}
	return c.handler(ctx, ev)
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// LogEvent is the notifier's handler: one structured line per event.
func LogEvent(_ context.Context, ev reservation.Event) error {
	logger.Log.Info("reservation event",
		zap.String("type", string(ev.Type)),
		zap.Int64("reservation_id", ev.ReservationID),
		zap.Int64("restaurant_id", ev.RestaurantID),
		zap.Int64("restaurant_owner_id", ev.RestaurantOwnerID),
		zap.Int64("user_id", ev.UserID),
		zap.String("status", string(ev.Status)),
		zap.String("date", ev.Date),
		zap.String("time", ev.Time),
		zap.Int("party_size", ev.PartySize),
		zap.Time("occurred_at", ev.OccurredAt),
	)
	return nil
}
