package producer

import (
	"context"
	"errors"
	"testing"

	"go-accounts/internal/messaging/kafka"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeOutboxRepo struct {
	pending []kafka.OutboxEvent
	sent    []uuid.UUID
	failed  map[uuid.UUID]string
}

func (f *fakeOutboxRepo) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepo) Create(ctx context.Context, event *kafka.OutboxEvent) error { return nil }

func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.pending, nil
}

func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id uuid.UUID) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	if f.failed == nil {
		f.failed = make(map[uuid.UUID]string)
	}
	f.failed[id] = reason
	return nil
}

type fakeWriter struct {
	msgs []kafkago.Message
	err  error
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	ctx := context.Background()

	event := kafka.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "user",
		AggregateID:   uuid.New().String(),
		EventType:     "user.registered",
		Topic:         "accounts.user.lifecycle.v1",
		Payload:       []byte(`{"event_type":"user.registered"}`),
		Status:        kafka.OutboxStatusPending,
	}

	t.Run("publishes pending events and marks them sent", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []kafka.OutboxEvent{event}}
		writer := &fakeWriter{}

		err := processPendingEvents(ctx, repo, writer, zap.NewNop())

		assert.NoError(t, err)
		require.Len(t, writer.msgs, 1)
		msg := writer.msgs[0]
		assert.Equal(t, event.Topic, msg.Topic)
		assert.Equal(t, []byte(event.AggregateID), msg.Key)
		assert.Equal(t, event.Payload, msg.Value)
		require.Len(t, msg.Headers, 2)
		assert.Equal(t, "event_type", msg.Headers[0].Key)
		assert.Equal(t, []byte(event.EventType), msg.Headers[0].Value)

		assert.Equal(t, []uuid.UUID{event.ID}, repo.sent)
		assert.Empty(t, repo.failed)
	})

	t.Run("marks events failed when the write fails", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []kafka.OutboxEvent{event}}
		writer := &fakeWriter{err: errors.New("broker unreachable")}

		err := processPendingEvents(ctx, repo, writer, zap.NewNop())

		assert.NoError(t, err)
		assert.Empty(t, repo.sent)
		assert.Equal(t, "broker unreachable", repo.failed[event.ID])
	})

	t.Run("empty outbox is a no-op", func(t *testing.T) {
		repo := &fakeOutboxRepo{}
		writer := &fakeWriter{}

		err := processPendingEvents(ctx, repo, writer, zap.NewNop())

		assert.NoError(t, err)
		assert.Empty(t, writer.msgs)
	})
}
