package queue

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher sends one keyed message to the event topic
type Publisher interface {
	PublishMessage(ctx context.Context, key, value []byte) error
	Close() error
}

// Producer writes domain events to Kafka
type Producer struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewProducer returns a producer for the given brokers and topic. With no
// brokers it returns nil, and a nil *Producer silently drops messages.
func NewProducer(brokers []string, topic string, log *zap.Logger) *Producer {
	if len(brokers) == 0 {
		log.Info("kafka brokers not configured, domain events disabled")
		return nil
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			WriteTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// PublishMessage writes one message. Messages with the same key land on the
// same partition, so events for one entity stay ordered.
func (p *Producer) PublishMessage(ctx context.Context, key, value []byte) error {
	if p == nil || p.writer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
}

// Close flushes and closes the writer
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
