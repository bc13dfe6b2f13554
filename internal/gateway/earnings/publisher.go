package earnings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"service-dispatch/internal/config"
	"service-dispatch/internal/domain"
)

// ErrNacked is returned when the broker refuses a message.
var ErrNacked = errors.New("publish NACK from broker")

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	GetNextPublishSeqNo() uint64
	Close() error
}

type message struct {
	OrderID     string    `json:"order_id"`
	CourierID   int64     `json:"courier_id"`
	FeeCents    int64     `json:"fee_cents"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// Publisher sends payout notifications to the earnings exchange and waits
// for publisher confirms.
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	acks     <-chan amqp.Confirmation
	exchange string
	key      string

	mu sync.Mutex // confirms приходят по порядку, публикуем строго по одному
}

// Dial connects to the broker, declares the exchange and enables confirms.
// An empty AMQPURL disables the publisher and returns nil.
func Dial(cfg config.Earnings) (*Publisher, error) {
	if cfg.AMQPURL == "" {
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", cfg.Exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 16))

	p := newPublisher(ch, acks, cfg.Exchange, cfg.RoutingKey)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, acks <-chan amqp.Confirmation, exchange, key string) *Publisher {
	return &Publisher{ch: ch, acks: acks, exchange: exchange, key: key}
}

// Publish sends one earnings record. The order id doubles as MessageId so the
// payout side can deduplicate redeliveries.
func (p *Publisher) Publish(ctx context.Context, rec domain.EarningsRecord) error {
	body, err := json.Marshal(message{
		OrderID:     rec.OrderID.String(),
		CourierID:   rec.CourierID,
		FeeCents:    rec.FeeCents,
		DeliveredAt: rec.DeliveredAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal earnings %s: %w", rec.OrderID, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	tag := p.ch.GetNextPublishSeqNo()
	err = p.ch.PublishWithContext(ctx, p.exchange, p.key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    rec.OrderID.String(),
			Timestamp:    time.Now().UTC(),
			Headers:      amqp.Table{"x-source": "service-dispatch"},
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish earnings %s: %w", rec.OrderID, err)
	}

	for {
		select {
		case conf, ok := <-p.acks:
			if !ok {
				return errors.New("amqp channel closed before confirm")
			}
			if conf.DeliveryTag < tag {
				// confirm for an earlier publish whose caller already gave up
				continue
			}
			if !conf.Ack {
				return ErrNacked
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close releases the channel and the connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
