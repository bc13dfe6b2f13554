package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IBM/sarama"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// Producer sends a keyed message to a topic.
type Producer interface {
	SendMessage(ctx context.Context, topic string, key, value []byte) error
	Close() error
}

var newSyncProducer = sarama.NewSyncProducer

// SaramaProducer is a Producer over a sarama.SyncProducer.
type SaramaProducer struct {
	sync sarama.SyncProducer
}

// NewSaramaProducer connects a synchronous producer. It returns nil when no
// brokers are configured.
func NewSaramaProducer(brokers []string) (*SaramaProducer, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Version = sarama.V2_8_0_0

	p, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &SaramaProducer{sync: p}, nil
}

// SendMessage blocks until the broker acknowledges the message.
func (p *SaramaProducer) SendMessage(ctx context.Context, topic string, key, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := p.sync.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.ByteEncoder(key),
		Value: sarama.ByteEncoder(value),
	})
	return err
}

// Close flushes and closes the producer.
func (p *SaramaProducer) Close() error {
	if p == nil {
		return nil
	}
	return p.sync.Close()
}

// StatusPublisher announces committed delivery transitions. Messages are keyed
// by order id so one order's updates stay ordered within a partition.
type StatusPublisher struct {
	producer Producer
	topic    string
	logger   logx.Logger
}

// NewStatusPublisher creates a StatusPublisher.
func NewStatusPublisher(p Producer, topic string, logger logx.Logger) *StatusPublisher {
	if logger == nil {
		logger = logx.Nop()
	}
	return &StatusPublisher{producer: p, topic: strings.TrimSpace(topic), logger: logger}
}

// PublishStatus sends a status change to every audience in c.Notify at once.
func (s *StatusPublisher) PublishStatus(ctx context.Context, c domain.StatusChange) error {
	body, err := json.Marshal(toStatusDTO(c))
	if err != nil {
		return fmt.Errorf("marshal status change: %w", err)
	}
	key := []byte(c.Order.ID.String())
	if err := s.producer.SendMessage(ctx, s.topic, key, body); err != nil {
		return fmt.Errorf("send status %s for %s: %w", c.Order.Status, c.Order.ID, err)
	}
	s.logger.Debug("status change published",
		logx.String("order_id", c.Order.ID.String()),
		logx.String("status", string(c.Order.Status)),
	)
	return nil
}

func toStatusDTO(c domain.StatusChange) StatusDTO {
	notify := make([]string, 0, len(c.Notify))
	for _, a := range c.Notify {
		notify = append(notify, string(a))
	}
	var actorID *int64
	if c.Actor.ID != 0 {
		id := c.Actor.ID
		actorID = &id
	}
	return StatusDTO{
		OrderID:         c.Order.ID.String(),
		PurchaseOrderID: c.Order.PurchaseOrderID,
		SellerID:        c.Order.SellerID,
		From:            string(c.From),
		Status:          string(c.Order.Status),
		CourierID:       c.Order.CourierID,
		ActorRole:       string(c.Actor.Role),
		ActorID:         actorID,
		Reason:          c.Reason,
		Notify:          notify,
		At:              c.At.UTC(),
	}
}
