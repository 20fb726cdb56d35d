package model

import (
	"errors"
	"time"
)

// CommentStatus is the review state of a comment.
type CommentStatus string

const (
	StatusPending  CommentStatus = "PENDING"
	StatusApproved CommentStatus = "APPROVED"
	StatusRejected CommentStatus = "REJECTED"
)

// ParseCommentStatus validates a status string. Returns ErrInvalidStatus
// for anything outside the three known states.
func ParseCommentStatus(s string) (CommentStatus, error) {
	switch CommentStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return CommentStatus(s), nil
	}
	return "", ErrInvalidStatus
}

// Comment represents a user-submitted comment on a post.
//
// ID, PostID, Author, Content and CreatedAt are immutable once stored;
// only the moderation fields (Status, Approved, IsSpam, ReviewedAt,
// ReviewedBy) change after creation. Approved is a legacy mirror of
// Status == APPROVED kept for older callers and must stay consistent on
// every write path.
type Comment struct {
	ID         int64         `db:"id" json:"id"`
	PostID     int64         `db:"post_id" json:"post_id"`
	Author     string        `db:"author" json:"author"`
	Email      *string       `db:"email" json:"email,omitempty"`
	Content    string        `db:"content" json:"content"`
	ParentID   *int64        `db:"parent_id" json:"parent_id,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	Status     CommentStatus `db:"status" json:"status"`
	Approved   bool          `db:"approved" json:"approved"`
	IsSpam     bool          `db:"is_spam" json:"is_spam"`
	SpamScore  float64       `db:"spam_score" json:"spam_score"`
	ReviewedAt *time.Time    `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewedBy *string       `db:"reviewed_by" json:"reviewed_by,omitempty"`
	IPAddress  *string       `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent  *string       `db:"user_agent" json:"user_agent,omitempty"`
}

// SubmitCommentRequest is the request body for submitting a comment.
// PostID and ParentID are stored as-is: neither is checked against the
// posts or comments tables.
type SubmitCommentRequest struct {
	PostID    int64   `json:"post_id"`
	Author    string  `json:"author"`
	Email     *string `json:"email,omitempty"`
	Content   string  `json:"content"`
	ParentID  *int64  `json:"parent_id,omitempty"`
	IPAddress *string `json:"ip_address,omitempty"`
	UserAgent *string `json:"user_agent,omitempty"`
}

// Review actions accepted by the moderation state machine.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ReviewCommentRequest is the request body for a single review decision.
type ReviewCommentRequest struct {
	CommentID  int64  `json:"comment_id"`
	Action     string `json:"action"`
	ReviewedBy string `json:"reviewed_by"`
}

// BatchReviewRequest applies one action to many comments.
type BatchReviewRequest struct {
	CommentIDs []int64 `json:"comment_ids"`
	Action     string  `json:"action"`
	ReviewedBy string  `json:"reviewed_by"`
}

// BatchResult reports per-item outcomes of a batch operation.
//
// TotalCount is the length of the requested id list. Ids that resolve to
// no stored comment are dropped from both counters, so SuccessCount +
// FailCount can be less than TotalCount.
type BatchResult struct {
	SuccessCount int `json:"success_count"`
	FailCount    int `json:"fail_count"`
	TotalCount   int `json:"total_count"`
}

// BatchDeleteRequest names the comments to remove.
type BatchDeleteRequest struct {
	CommentIDs []int64 `json:"comment_ids"`
}

// CommentStatistics is a point-in-time snapshot over the whole corpus.
// Counts are taken with independent queries and are not isolated from
// concurrent writes.
type CommentStatistics struct {
	Total        int64   `json:"total"`
	Pending      int64   `json:"pending"`
	Approved     int64   `json:"approved"`
	Rejected     int64   `json:"rejected"`
	Recent       int64   `json:"recent"`
	ApprovalRate float64 `json:"approval_rate"`
}

// Comment constraints
const (
	MaxAuthorLength = 100
	MaxEmailLength  = 255
)

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidAction   = errors.New("invalid review action")
	ErrInvalidStatus   = errors.New("invalid comment status")
	ErrPostIDRequired  = errors.New("post id is required")
	ErrAuthorRequired  = errors.New("author is required")
	ErrContentRequired = errors.New("comment content is required")
	ErrAuthorTooLong   = errors.New("author name too long")
	ErrMalformedRange  = errors.New("malformed date range")
)
