// Package kafka publishes accepted events to a topic for downstream
// consumers. The producer is optional; the ingestion API runs without it.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes keyed JSON messages.
type Producer interface {
	Publish(ctx context.Context, key string, message any) error
	Close() error
}

// Config holds producer settings.
type Config struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

type producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer creates a Kafka producer for the configured topic.
func NewProducer(cfg Config, logger *zap.Logger) Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequireAll,
	}
	return &producer{writer: writer, logger: logger}
}

// Publish serializes message as JSON and writes it under key.
func (p *producer) Publish(ctx context.Context, key string, message any) error {
	value, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		p.logger.Error("kafka publish failed",
			zap.String("topic", p.writer.Topic),
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *producer) Close() error {
	return p.writer.Close()
}
