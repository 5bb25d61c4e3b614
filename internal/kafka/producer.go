package kafkax

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer writes booking events. Messages are keyed by booking id so every
// event for one booking lands on the same partition in order.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.Hash{},
		// Status changes feed customer notifications; flush quickly rather
		// than waiting to fill batches.
		BatchTimeout: 50 * time.Millisecond,
	}}
}

func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	msg := kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Producer) Close() error { return p.writer.Close() }
