package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"commentmod/internal/model"
	"commentmod/internal/queue"
)

// EventRecorder persists audit-trail rows. Abstracting the repository
// keeps the worker free of any direct DB dependency.
type EventRecorder interface {
	Record(ctx context.Context, event *model.ModerationEvent) error
}

// Handler turns moderation stream events into audit-trail rows.
type Handler struct {
	recorder EventRecorder
}

// NewHandler creates a new event handler.
func NewHandler(recorder EventRecorder) *Handler {
	return &Handler{recorder: recorder}
}

// HandleEvent routes an event to the audit trail based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.ModerationEvent) error {
	switch event.Type {
	case model.EventCommentSubmitted:
		return h.record(ctx, event, &model.ModerationEvent{
			CommentID:  event.CommentID,
			PostID:     event.PostID,
			EventType:  event.Type,
			SpamScore:  &event.SpamScore,
			OccurredAt: time.Unix(event.Timestamp, 0).UTC(),
		})
	case model.EventCommentReviewed:
		return h.record(ctx, event, &model.ModerationEvent{
			CommentID:  event.CommentID,
			PostID:     event.PostID,
			EventType:  event.Type,
			Action:     &event.Action,
			Actor:      &event.Actor,
			OccurredAt: time.Unix(event.Timestamp, 0).UTC(),
		})
	case model.EventCommentDeleted:
		return h.record(ctx, event, &model.ModerationEvent{
			CommentID:  event.CommentID,
			PostID:     event.PostID,
			EventType:  event.Type,
			OccurredAt: time.Unix(event.Timestamp, 0).UTC(),
		})
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}
}

func (h *Handler) record(ctx context.Context, src queue.ModerationEvent, row *model.ModerationEvent) error {
	if err := h.recorder.Record(ctx, row); err != nil {
		return fmt.Errorf("record %s for comment %d: %w", src.Type, src.CommentID, err)
	}
	log.Printf("[Worker] Recorded %s: comment=%d post=%d", src.Type, src.CommentID, src.PostID)
	return nil
}
