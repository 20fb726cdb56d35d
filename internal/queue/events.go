package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"commentmod/internal/model"
)

// Stream and consumer group names for the moderation audit trail.
const (
	StreamModeration        = "stream:moderation"
	ConsumerGroupModeration = "audit_workers"
)

// ModerationEvent is the envelope published to the moderation stream.
// One structure covers all event types; unused fields stay zero.
type ModerationEvent struct {
	Type      string `json:"type"` // model.EventComment*
	Timestamp int64  `json:"timestamp"`

	CommentID int64 `json:"comment_id"`
	PostID    int64 `json:"post_id"`

	// Submission events
	SpamScore float64             `json:"spam_score,omitempty"`
	Status    model.CommentStatus `json:"status,omitempty"`

	// Review and delete events
	Action string `json:"action,omitempty"`
	Actor  string `json:"actor,omitempty"`
}

// NewCommentSubmittedEvent records a comment entering the review queue,
// including the score and initial status the state machine decided.
func NewCommentSubmittedEvent(comment *model.Comment) ModerationEvent {
	return ModerationEvent{
		Type:      model.EventCommentSubmitted,
		Timestamp: time.Now().Unix(),
		CommentID: comment.ID,
		PostID:    comment.PostID,
		SpamScore: comment.SpamScore,
		Status:    comment.Status,
	}
}

// NewCommentReviewedEvent records a review decision, single or batch.
func NewCommentReviewedEvent(comment *model.Comment, action, reviewedBy string) ModerationEvent {
	return ModerationEvent{
		Type:      model.EventCommentReviewed,
		Timestamp: time.Now().Unix(),
		CommentID: comment.ID,
		PostID:    comment.PostID,
		Status:    comment.Status,
		Action:    action,
		Actor:     reviewedBy,
	}
}

// NewCommentDeletedEvent records a permanent delete.
func NewCommentDeletedEvent(commentID, postID int64) ModerationEvent {
	return ModerationEvent{
		Type:      model.EventCommentDeleted,
		Timestamp: time.Now().Unix(),
		CommentID: commentID,
		PostID:    postID,
	}
}

// ToMap converts the event to a map for Redis XADD. Streams store
// field-value pairs, so the event serializes to JSON in a "data" field.
func (e ModerationEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseModerationEvent parses an event from Redis stream message values.
func ParseModerationEvent(values map[string]interface{}) (ModerationEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return ModerationEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event ModerationEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return ModerationEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
