package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"commentmod/internal/model"
)

type moderationEventRepository struct {
	db *sqlx.DB
}

func NewModerationEventRepository(db *sqlx.DB) ModerationEventRepository {
	return &moderationEventRepository{db: db}
}

// Record appends one event to the audit trail. The trail is append-only;
// nothing in the engine updates or deletes these rows.
func (r *moderationEventRepository) Record(ctx context.Context, event *model.ModerationEvent) error {
	query := `
		INSERT INTO moderation_events (comment_id, post_id, event_type, action, actor, spam_score, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		event.CommentID, event.PostID, event.EventType,
		event.Action, event.Actor, event.SpamScore, event.OccurredAt,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("insert moderation event: %w", err)
	}
	return nil
}
