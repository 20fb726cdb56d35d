package service

import (
	"context"
	"strings"
	"time"

	"commentmod/internal/model"
)

// Read-only retrieval surface. Every method goes straight to the store;
// results reflect whatever is committed at call time.

// GetCommentsForPost returns a post's comments oldest first. With
// approvedOnly the list is what a public page would render; without it,
// everything including pending and rejected comments comes back.
func (s *CommentService) GetCommentsForPost(ctx context.Context, postID int64, approvedOnly bool) ([]model.Comment, error) {
	return s.commentRepo.GetByPostID(ctx, postID, approvedOnly)
}

// GetPendingComments returns the review queue, newest first.
func (s *CommentService) GetPendingComments(ctx context.Context) ([]model.Comment, error) {
	return s.commentRepo.GetByStatus(ctx, model.StatusPending)
}

// GetCommentsByStatus returns comments in the given status, newest first.
func (s *CommentService) GetCommentsByStatus(ctx context.Context, status model.CommentStatus) ([]model.Comment, error) {
	return s.commentRepo.GetByStatus(ctx, status)
}

// GetComment returns a single comment by id.
func (s *CommentService) GetComment(ctx context.Context, commentID int64) (*model.Comment, error) {
	return s.commentRepo.GetByID(ctx, commentID)
}

// SearchComments matches the keyword as a substring of author or
// content. A blank keyword returns the entire corpus, not an empty list;
// the admin "all comments" view relies on this.
func (s *CommentService) SearchComments(ctx context.Context, keyword string) ([]model.Comment, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.commentRepo.GetAll(ctx)
	}
	return s.commentRepo.Search(ctx, keyword)
}

// GetHighRiskComments returns comments scored strictly above the
// threshold, riskiest first.
func (s *CommentService) GetHighRiskComments(ctx context.Context, threshold float64) ([]model.Comment, error) {
	return s.commentRepo.GetHighRisk(ctx, threshold)
}

// GetCommentsByDateRange returns comments created within [start, end]
// inclusive, newest first. Bound parsing is the transport layer's job;
// by the time a range reaches here it is two valid instants.
func (s *CommentService) GetCommentsByDateRange(ctx context.Context, start, end time.Time) ([]model.Comment, error) {
	return s.commentRepo.GetByDateRange(ctx, start, end)
}

// GetCommentCountForPost counts a post's approved comments.
func (s *CommentService) GetCommentCountForPost(ctx context.Context, postID int64) (int64, error) {
	return s.commentRepo.CountApprovedForPost(ctx, postID)
}
