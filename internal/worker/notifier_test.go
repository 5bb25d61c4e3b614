package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	notifierService "github.com/roamtours/tourdesk/internal/service/notifier"
)

type fakeConsumer struct {
	msgs      chan kafka.Message
	committed chan kafka.Message
}

func (f *fakeConsumer) Fetch(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-f.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (f *fakeConsumer) Commit(_ context.Context, m kafka.Message) error {
	f.committed <- m
	return nil
}

type fakeDLQ struct {
	err  error
	sent chan kafka.Message
}

func (f *fakeDLQ) Publish(_ context.Context, key, value []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent <- kafka.Message{Key: key, Value: value}
	return nil
}

type fakeHandler struct {
	err     error
	handled chan notifierService.StatusChangedPayload
}

func (f *fakeHandler) HandleStatusChanged(_ context.Context, p notifierService.StatusChangedPayload) error {
	f.handled <- p
	return f.err
}

func newWorkerFixture(handlerErr, dlqErr error) (*Notifier, *fakeConsumer, *fakeDLQ, *fakeHandler) {
	c := &fakeConsumer{msgs: make(chan kafka.Message, 1), committed: make(chan kafka.Message, 1)}
	dlq := &fakeDLQ{err: dlqErr, sent: make(chan kafka.Message, 1)}
	h := &fakeHandler{err: handlerErr, handled: make(chan notifierService.StatusChangedPayload, 1)}
	return NewNotifier(zap.NewNop(), h, c, dlq, 2), c, dlq, h
}

func waitFor[T any](t *testing.T, ch chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s", what)
		panic("unreachable")
	}
}

func TestRunCommitsOnSuccess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n, c, dlq, _ := newWorkerFixture(nil, nil)
	go n.Run(ctx)

	body := []byte(`{"type":"booking_status_changed","booking_id":"b1","to":"confirmed"}`)
	c.msgs <- kafka.Message{Key: []byte("b1"), Value: body}

	m := waitFor(t, c.committed, "commit")
	assert.Equal(t, body, m.Value)
	assert.Empty(t, dlq.sent)
}

func TestRunDeadLettersAndCommitsFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n, c, dlq, _ := newWorkerFixture(errors.New("smtp down"), nil)
	go n.Run(ctx)

	body := []byte(`{"type":"booking_status_changed","booking_id":"b1","to":"canceled"}`)
	c.msgs <- kafka.Message{Key: []byte("b1"), Value: body}

	m := waitFor(t, dlq.sent, "dead letter")
	assert.Equal(t, body, m.Value)
	// The offset moves past a dead-lettered message so restarts do not replay
	// the failure backlog.
	waitFor(t, c.committed, "commit of dead-lettered message")
}

func TestRunKeepsOffsetWhenDeadLetterFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n, c, _, h := newWorkerFixture(errors.New("smtp down"), errors.New("dlq unavailable"))
	go n.Run(ctx)

	body := []byte(`{"type":"booking_status_changed","booking_id":"b1","to":"canceled"}`)
	c.msgs <- kafka.Message{Key: []byte("b1"), Value: body}

	waitFor(t, h.handled, "handler call")
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, c.committed)
}

func TestRunSkipsUnknownEventTypes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n, c, dlq, h := newWorkerFixture(errors.New("must not be called"), nil)
	go n.Run(ctx)

	c.msgs <- kafka.Message{Key: []byte("b1"), Value: []byte(`{"type":"tour_updated"}`)}

	waitFor(t, c.committed, "commit")
	assert.Empty(t, h.handled)
	assert.Empty(t, dlq.sent)
}
