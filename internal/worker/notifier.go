package worker

import (
	"context"
	"encoding/json"

	kafkax "github.com/roamtours/tourdesk/internal/kafka"
	notifierService "github.com/roamtours/tourdesk/internal/service/notifier"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer is the slice of the Kafka consumer the worker loop uses.
type Consumer interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, m kafka.Message) error
}

// Publisher writes dead-lettered messages.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// Handler processes a decoded status change event.
type Handler interface {
	HandleStatusChanged(ctx context.Context, p notifierService.StatusChangedPayload) error
}

// Notifier consumes booking status change events and fans them out to
// customer notifications. Failed messages go to the DLQ for inspection.
type Notifier struct {
	log        *zap.Logger
	service    Handler
	c          Consumer
	dlq        Publisher
	maxWorkers int
}

func NewNotifier(log *zap.Logger, service Handler, c Consumer, dlq Publisher, maxWorkers int) *Notifier {
	return &Notifier{
		log:        log,
		service:    service,
		c:          c,
		dlq:        dlq,
		maxWorkers: maxWorkers,
	}
}

func (n *Notifier) Run(ctx context.Context) error {
	sem := make(chan struct{}, n.maxWorkers) // concurrency limit

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			m, err := n.c.Fetch(ctx)
			if err != nil {
				n.log.Error("failed to read message", zap.Error(err))
				continue
			}

			sem <- struct{}{}
			go func(m kafka.Message) {
				defer func() { <-sem }()

				if err := n.handleMessage(ctx, m); err != nil {
					n.log.Error("failed to handle message", zap.Error(err))
					// Dead-letter and commit, so a restart does not replay
					// the whole failure backlog. An uncommitted offset stays
					// only when the DLQ publish itself fails.
					if dlqErr := n.dlq.Publish(ctx, m.Key, m.Value); dlqErr != nil {
						n.log.Error("failed to dead-letter message", zap.Error(dlqErr))
					} else {
						_ = n.c.Commit(ctx, m)
					}
				} else {
					// Commit on success
					_ = n.c.Commit(ctx, m)
				}
			}(m)
		}
	}
}

func (n *Notifier) handleMessage(ctx context.Context, m kafka.Message) error {
	env, err := kafkax.ParseEnvelope(m.Value)
	if err != nil {
		return err
	}
	if env.Type != "booking_status_changed" {
		// Unknown event types are committed, not dead-lettered.
		n.log.Warn("skipping event", zap.String("type", env.Type))
		return nil
	}

	var p notifierService.StatusChangedPayload
	if err := json.Unmarshal(m.Value, &p); err != nil {
		return err
	}
	return n.service.HandleStatusChanged(ctx, p)
}
