package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"bharathbhent-backend/internal/models"
)

type Type string

const (
	OrderCreated Type = "created"
	OrderUpdated Type = "updated"
	OrderDeleted Type = "deleted"
)

type OrderEvent struct {
	Type  Type          `json:"type"`
	Order *models.Order `json:"order"`
	At    time.Time     `json:"at"`
}

func (e OrderEvent) Key() string {
	return fmt.Sprintf("order.%s.%s", e.Type, e.Order.ID.Hex())
}

type Publisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev OrderEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Kafka struct {
	w *kafka.Writer
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func NewKafka(w *kafka.Writer) *Kafka {
	return &Kafka{w: w}
}

func (k *Kafka) Publish(ctx context.Context, ev OrderEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return k.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Key()),
		Value: value,
		Time:  ev.At,
	})
}

func (k *Kafka) Close() error {
	return k.w.Close()
}
