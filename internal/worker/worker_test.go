package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commentmod/internal/model"
	"commentmod/internal/queue"
	"commentmod/internal/worker"
)

// =============================================================================
// Mock implementations
// =============================================================================

// mockRecorder captures audit rows instead of writing to Postgres.
type mockRecorder struct {
	mu   sync.Mutex
	rows []model.ModerationEvent
	err  error
}

func (m *mockRecorder) Record(ctx context.Context, event *model.ModerationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, *event)
	return nil
}

func (m *mockRecorder) recorded() []model.ModerationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ModerationEvent, len(m.rows))
	copy(out, m.rows)
	return out
}

// mockConsumer feeds a fixed message list to the manager, then blocks
// until the context is cancelled. Unacknowledged entries left behind by
// an earlier run are modeled as a per-consumer-name pending map, the way
// Redis keys each consumer's pending entry list. Acks are recorded for
// assertions.
type mockConsumer struct {
	mu       sync.Mutex
	messages []queue.Message
	pending  map[string][]queue.Message
	acked    []string
}

func (m *mockConsumer) EnsureGroup(ctx context.Context, stream, group string) error {
	return nil
}

func (m *mockConsumer) Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]queue.Message, error) {
	m.mu.Lock()
	if len(m.messages) > 0 {
		batch := m.messages
		m.messages = nil
		m.mu.Unlock()
		return batch, nil
	}
	m.mu.Unlock()

	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Millisecond):
	}
	return nil, nil
}

func (m *mockConsumer) ReadPending(ctx context.Context, stream, group, consumer string, count int64) ([]queue.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch := m.pending[consumer]
	delete(m.pending, consumer)
	return batch, nil
}

func (m *mockConsumer) Ack(ctx context.Context, stream, group string, messageIDs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, messageIDs...)
	return nil
}

func (m *mockConsumer) Pending(ctx context.Context, stream, group string) (int64, error) {
	return 0, nil
}

func (m *mockConsumer) ackedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.acked))
	copy(out, m.acked)
	return out
}

// =============================================================================
// Handler tests
// =============================================================================

func TestHandlerRecordsSubmittedEvent(t *testing.T) {
	rec := &mockRecorder{}
	h := worker.NewHandler(rec)

	event := queue.ModerationEvent{
		Type:      model.EventCommentSubmitted,
		Timestamp: 1780000000,
		CommentID: 42,
		PostID:    7,
		SpamScore: 0.9,
		Status:    model.StatusRejected,
	}
	require.NoError(t, h.HandleEvent(context.Background(), event))

	rows := rec.recorded()
	require.Len(t, rows, 1)
	assert.Equal(t, model.EventCommentSubmitted, rows[0].EventType)
	assert.Equal(t, int64(42), rows[0].CommentID)
	assert.Equal(t, int64(7), rows[0].PostID)
	require.NotNil(t, rows[0].SpamScore)
	assert.Equal(t, 0.9, *rows[0].SpamScore)
	assert.Nil(t, rows[0].Action)
	assert.Equal(t, time.Unix(1780000000, 0).UTC(), rows[0].OccurredAt)
}

func TestHandlerRecordsReviewedEvent(t *testing.T) {
	rec := &mockRecorder{}
	h := worker.NewHandler(rec)

	event := queue.ModerationEvent{
		Type:      model.EventCommentReviewed,
		Timestamp: 1780000100,
		CommentID: 42,
		PostID:    7,
		Action:    "approve",
		Actor:     "mod-anna",
	}
	require.NoError(t, h.HandleEvent(context.Background(), event))

	rows := rec.recorded()
	require.Len(t, rows, 1)
	assert.Equal(t, model.EventCommentReviewed, rows[0].EventType)
	require.NotNil(t, rows[0].Action)
	assert.Equal(t, "approve", *rows[0].Action)
	require.NotNil(t, rows[0].Actor)
	assert.Equal(t, "mod-anna", *rows[0].Actor)
}

func TestHandlerRejectsUnknownEventType(t *testing.T) {
	rec := &mockRecorder{}
	h := worker.NewHandler(rec)

	err := h.HandleEvent(context.Background(), queue.ModerationEvent{Type: "comment_upvoted"})
	assert.Error(t, err)
	assert.Empty(t, rec.recorded())
}

func TestHandlerPropagatesRecorderError(t *testing.T) {
	rec := &mockRecorder{err: assert.AnError}
	h := worker.NewHandler(rec)

	err := h.HandleEvent(context.Background(), queue.ModerationEvent{
		Type:      model.EventCommentDeleted,
		CommentID: 1,
	})
	assert.ErrorIs(t, err, assert.AnError)
}

// =============================================================================
// Manager tests
// =============================================================================

func TestManagerProcessesAndAcksMessages(t *testing.T) {
	rec := &mockRecorder{}
	consumer := &mockConsumer{
		messages: []queue.Message{
			{ID: "1-0", Event: queue.ModerationEvent{
				Type: model.EventCommentSubmitted, CommentID: 1, PostID: 1,
			}},
			{ID: "2-0", Event: queue.ModerationEvent{
				Type: model.EventCommentReviewed, CommentID: 1, PostID: 1,
				Action: "reject", Actor: "mod",
			}},
		},
	}

	m := worker.NewManager(consumer, worker.NewHandler(rec), worker.ManagerConfig{
		WorkerCount:  1,
		BatchSize:    10,
		BlockTimeout: 10 * time.Millisecond,
	})
	require.NoError(t, m.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return len(rec.recorded()) == 2 && len(consumer.ackedIDs()) == 2
	}, time.Second, 5*time.Millisecond)

	m.Stop()

	assert.ElementsMatch(t, []string{"1-0", "2-0"}, consumer.ackedIDs())
}

func TestManagerAcksPoisonMessages(t *testing.T) {
	rec := &mockRecorder{}
	consumer := &mockConsumer{
		messages: []queue.Message{
			{ID: "1-0", Event: queue.ModerationEvent{Type: "not-a-real-event"}},
		},
	}

	m := worker.NewManager(consumer, worker.NewHandler(rec), worker.ManagerConfig{
		WorkerCount:  1,
		BlockTimeout: 10 * time.Millisecond,
	})
	require.NoError(t, m.Start(context.Background()))

	// The unknown event is acknowledged anyway so it cannot wedge the
	// stream, and nothing is recorded.
	assert.Eventually(t, func() bool {
		return len(consumer.ackedIDs()) == 1
	}, time.Second, 5*time.Millisecond)

	m.Stop()
	assert.Empty(t, rec.recorded())
}

func TestManagerRecoversPendingAfterRestart(t *testing.T) {
	rec := &mockRecorder{}
	// Entries a crashed run left unacknowledged, keyed under the name its
	// worker slot registered with. A fresh manager must come back under
	// the same name to find them.
	consumer := &mockConsumer{
		pending: map[string][]queue.Message{
			"audit-1": {
				{ID: "1-0", Event: queue.ModerationEvent{
					Type: model.EventCommentSubmitted, CommentID: 5, PostID: 2,
				}},
			},
		},
	}

	m := worker.NewManager(consumer, worker.NewHandler(rec), worker.ManagerConfig{
		WorkerCount:  1,
		BlockTimeout: 10 * time.Millisecond,
	})
	require.NoError(t, m.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return len(rec.recorded()) == 1 && len(consumer.ackedIDs()) == 1
	}, time.Second, 5*time.Millisecond)

	m.Stop()

	rows := rec.recorded()
	require.Len(t, rows, 1)
	assert.Equal(t, int64(5), rows[0].CommentID)
	assert.Equal(t, []string{"1-0"}, consumer.ackedIDs())
}

func TestManagerStopTerminatesWorkers(t *testing.T) {
	rec := &mockRecorder{}
	consumer := &mockConsumer{}

	m := worker.NewManager(consumer, worker.NewHandler(rec), worker.ManagerConfig{
		WorkerCount:  3,
		BlockTimeout: 10 * time.Millisecond,
	})
	require.NoError(t, m.Start(context.Background()))

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop in time")
	}
}
