package model

import "time"

// Moderation event types recorded in the audit trail.
const (
	EventCommentSubmitted = "comment_submitted"
	EventCommentReviewed  = "comment_reviewed"
	EventCommentDeleted   = "comment_deleted"
)

// ModerationEvent is one row of the moderation audit trail. Events are
// published after the comment write commits and persisted asynchronously,
// so the trail is best-effort and may lag the comments table.
type ModerationEvent struct {
	ID         int64     `db:"id" json:"id"`
	CommentID  int64     `db:"comment_id" json:"comment_id"`
	PostID     int64     `db:"post_id" json:"post_id"`
	EventType  string    `db:"event_type" json:"event_type"`
	Action     *string   `db:"action" json:"action,omitempty"`
	Actor      *string   `db:"actor" json:"actor,omitempty"`
	SpamScore  *float64  `db:"spam_score" json:"spam_score,omitempty"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}
