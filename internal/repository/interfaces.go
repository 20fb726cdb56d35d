package repository

import (
	"context"
	"time"

	"commentmod/internal/model"
)

// CommentRepository is the persistence surface for moderated comments.
// Implementations guarantee per-row atomic read-modify-write only; there
// are no cross-row transactions, and concurrent writers race with
// last-write-wins semantics.
type CommentRepository interface {
	// Create persists a new comment and fills ID and CreatedAt.
	Create(ctx context.Context, comment *model.Comment) error
	// GetByID returns the comment or model.ErrCommentNotFound.
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	// GetByIDs returns the subset of comments that exist. Missing ids are
	// silently omitted, never errored.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Comment, error)
	// GetAll returns the entire corpus, newest first.
	GetAll(ctx context.Context) ([]model.Comment, error)
	// UpdateModeration writes the moderation fields (status, approved,
	// is_spam, reviewed_at, reviewed_by) of an existing comment. The
	// immutable fields are never touched. Returns
	// model.ErrCommentNotFound when the row is gone.
	UpdateModeration(ctx context.Context, comment *model.Comment) error
	// Delete permanently removes a comment. No soft delete, no tombstone.
	Delete(ctx context.Context, id int64) error

	// Filtered reads consumed by the query facade.
	GetByPostID(ctx context.Context, postID int64, approvedOnly bool) ([]model.Comment, error)
	GetByStatus(ctx context.Context, status model.CommentStatus) ([]model.Comment, error)
	Search(ctx context.Context, keyword string) ([]model.Comment, error)
	GetHighRisk(ctx context.Context, threshold float64) ([]model.Comment, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]model.Comment, error)
	CountApprovedForPost(ctx context.Context, postID int64) (int64, error)

	// Aggregate counts consumed by the statistics snapshot.
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.CommentStatus) (int64, error)
	CountCreatedAfter(ctx context.Context, t time.Time) (int64, error)
}

// ModerationEventRepository persists the moderation audit trail written
// by the event workers.
type ModerationEventRepository interface {
	Record(ctx context.Context, event *model.ModerationEvent) error
}
