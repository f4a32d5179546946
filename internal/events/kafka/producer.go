package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event types emitted by the auth service.
const (
	EventUserRegistered   = "auth.user.registered"
	EventUserLoggedIn     = "auth.user.logged_in"
	EventSessionCreated   = "auth.session.created"
	EventSessionRevoked   = "auth.session.revoked"
	EventPasswordReset    = "auth.user.password_reset"
	EventPasswordResetAsk = "auth.user.password_reset_requested"
)

// Envelope is the wire format for auth events, a trimmed CloudEvents shape.
type Envelope struct {
	ID      string      `json:"id"`
	Type    string      `json:"type"`
	Source  string      `json:"source"`
	Subject string      `json:"subject,omitempty"`
	Time    time.Time   `json:"time"`
	Data    interface{} `json:"data,omitempty"`
}

// Publisher is the capability services use to announce terminal mutations.
// Publishing is best-effort: flows never fail because an event did not land.
type Publisher interface {
	Publish(ctx context.Context, eventType, subject string, data interface{}) error
	Close() error
}

// Producer publishes auth events to a single Kafka topic keyed by subject.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewProducer connects a synchronous, idempotent producer.
func NewProducer(brokers []string, topic string, logger *zap.Logger) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{producer: producer, topic: topic, logger: logger}, nil
}

// Publish wraps data in an Envelope and sends it, keyed by subject so all
// events of one user land on one partition.
func (p *Producer) Publish(ctx context.Context, eventType, subject string, data interface{}) error {
	envelope := Envelope{
		ID:      uuid.NewString(),
		Type:    eventType,
		Source:  "/auth-service",
		Subject: subject,
		Time:    time.Now().UTC(),
		Data:    data,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Value: sarama.ByteEncoder(payload),
	}
	if subject != "" {
		msg.Key = sarama.StringEncoder(subject)
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Error("Failed to publish event",
			zap.Error(err), zap.String("type", eventType), zap.String("subject", subject))
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Event published",
		zap.String("type", eventType),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

// Close shuts the underlying producer down.
func (p *Producer) Close() error {
	return p.producer.Close()
}

// NopPublisher drops every event; used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, eventType, subject string, data interface{}) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
