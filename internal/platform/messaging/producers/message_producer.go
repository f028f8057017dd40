package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/river-banking-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// MessageProducer writes JSON messages to a single Kafka topic.
type MessageProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewCommandProducer publishes ledger commands from the API gateway. Writes
// are asynchronous; delivery failures are only logged.
func NewCommandProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*MessageProducer, error) {
	return newTopicProducer(logger, cfg, cfg.CommandTopic, true)
}

// NewResultProducer publishes command outcomes from the transaction processor.
// Writes block until the broker acknowledges them.
func NewResultProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*MessageProducer, error) {
	return newTopicProducer(logger, cfg, cfg.ResultTopic, false)
}

// NewMessageProducerWithWriter wraps an existing writer.
func NewMessageProducerWithWriter(logger *slog.Logger, writer KafkaWriter, topic string) *MessageProducer {
	return &MessageProducer{
		logger: logger.With("topic", topic),
		writer: writer,
		topic:  topic,
	}
}

func newTopicProducer(logger *slog.Logger, cfg *config.KafkaConfig, topic string, async bool) (*MessageProducer, error) {
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is not configured")
	}

	if err := dialAndEnsureTopic(cfg.Brokers, topic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure topic %s exists: %w", topic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        async,
		WriteTimeout: cfg.MaxWait,
	}
	if async {
		writer.Completion = func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages asynchronously", "topic", topic, "error", err, "count", len(messages))
			}
		}
	}

	return NewMessageProducerWithWriter(logger, writer, topic), nil
}

// Publish marshals value to JSON and writes it under key. Messages sharing a
// key land on the same partition.
func (p *MessageProducer) Publish(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message value: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: payload}); err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish message", "key", key, "error", err)
		return fmt.Errorf("failed to publish message to %s: %w", p.topic, err)
	}

	p.logger.DebugContext(ctx, "Published message", "key", key)
	return nil
}

func (p *MessageProducer) Close() error {
	p.logger.Info("Closing Kafka message producer")
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
