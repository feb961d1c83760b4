package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher delivers domain events. Publication is best-effort and always
// happens after the owning transaction commits; a publish failure never
// rolls a booking back.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close() error
}

// KafkaPublisher wraps a sarama sync producer.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
}

func NewKafkaPublisher(brokers []string, logger *zap.Logger) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect kafka producer: %w", err)
	}
	return &KafkaPublisher{producer: producer, logger: logger}, nil
}

func (p *KafkaPublisher) Publish(_ context.Context, topic string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.EventName(), err)
	}

	eventID := uuid.NewString()
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.AggregateID()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event"), Value: []byte(event.EventName())},
			{Key: []byte("event_id"), Value: []byte(eventID)},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.EventName(), err)
	}
	p.logger.Debug("event published",
		zap.String("event", event.EventName()),
		zap.String("event_id", eventID),
		zap.String("topic", topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, Event) error { return nil }
func (NoopPublisher) Close() error                                 { return nil }
