package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		topic: topic,
	}
}

func (k *KafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Topic: topic,
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
		})
	}
	return k.writer.WriteMessages(ctx, km...)
}

// PublishEvent wraps the payload in an Envelope and writes it keyed by address,
// so all events of one participant land on the same partition.
func (k *KafkaPublisher) PublishEvent(ctx context.Context, eventType, key string, payload any) error {
	v, err := json.Marshal(Envelope{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return k.Publish(ctx, k.topic, domain.Message{Key: []byte(key), Value: v})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

// NopPublisher drops every event. Used when kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, string, any) error { return nil }
