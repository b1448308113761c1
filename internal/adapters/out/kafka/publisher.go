// Package kafka publishes notifications as parcel events so other services
// can follow parcel activity without polling.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"sendit/internal/core/ports"

	"github.com/IBM/sarama"
)

// Event is the JSON value written for every notification.
type Event struct {
	Kind           string            `json:"kind"`
	RecipientEmail string            `json:"recipient_email"`
	RecipientName  string            `json:"recipient_name,omitempty"`
	Data           map[string]string `json:"data,omitempty"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

// Publisher implements ports.Notifier on top of a sarama.SyncProducer.
// Messages are keyed by parcel id so one parcel's events stay ordered
// within a partition; user-only events fall back to the user id.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	now      func() time.Time
}

// NewProducer dials brokers with acks from all in-sync replicas.
func NewProducer(brokers []string) (sarama.SyncProducer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Timeout = 5 * time.Second

	return sarama.NewSyncProducer(brokers, cfg)
}

func NewPublisher(producer sarama.SyncProducer, topic string) (*Publisher, error) {
	if producer == nil {
		return nil, errors.New("kafka: producer is required")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, errors.New("kafka: topic is required")
	}
	return &Publisher{producer: producer, topic: topic, now: time.Now}, nil
}

func (p *Publisher) Notify(ctx context.Context, n ports.Notification) error {
	value, err := json.Marshal(Event{
		Kind:           string(n.Kind),
		RecipientEmail: n.RecipientEmail,
		RecipientName:  n.RecipientName,
		Data:           n.Data,
		OccurredAt:     p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("kafka: encode event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("kind"), Value: []byte(n.Kind)},
		},
	}
	if key := eventKey(n); key != "" {
		msg.Key = sarama.StringEncoder(key)
	}

	done := make(chan error, 1)
	go func() {
		_, _, sendErr := p.producer.SendMessage(msg)
		done <- sendErr
	}()

	select {
	case err = <-done:
		if err != nil {
			return fmt.Errorf("kafka: publish %s: %w", n.Kind, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}

func eventKey(n ports.Notification) string {
	if id := n.Data["parcel_id"]; id != "" {
		return id
	}
	return n.Data["user_id"]
}
