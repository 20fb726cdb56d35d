package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"commentmod/internal/model"
	"commentmod/internal/queue"
	"commentmod/internal/repository"
	"commentmod/internal/spam"
)

// CommentService owns the moderation workflow: scoring at submission,
// single and batch review decisions, and permanent deletes. All durable
// state lives in the repository; the service itself is stateless between
// calls.
type CommentService struct {
	commentRepo     repository.CommentRepository
	scorer          *spam.Scorer
	rejectThreshold float64
	publisher       queue.Publisher
	now             func() time.Time
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	scorer *spam.Scorer,
	rejectThreshold float64,
	publisher queue.Publisher,
) *CommentService {
	return &CommentService{
		commentRepo:     commentRepo,
		scorer:          scorer,
		rejectThreshold: rejectThreshold,
		publisher:       publisher,
		now:             time.Now,
	}
}

// Submit validates and stores a new comment. The scorer runs exactly
// once, here; the score is never recomputed. Comments scored strictly
// above the reject threshold are created REJECTED and flagged as spam,
// everything else starts PENDING. PostID is stored unchecked: a comment
// may reference a post that does not exist.
func (s *CommentService) Submit(ctx context.Context, req model.SubmitCommentRequest) (*model.Comment, error) {
	if err := validateSubmission(req); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:    req.PostID,
		Author:    strings.TrimSpace(req.Author),
		Email:     req.Email,
		Content:   req.Content,
		ParentID:  req.ParentID,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		Status:    model.StatusPending,
		Approved:  false,
		IsSpam:    false,
	}

	comment.SpamScore = s.scorer.Score(comment.Content)
	if comment.SpamScore > s.rejectThreshold {
		comment.Status = model.StatusRejected
		comment.IsSpam = true
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	log.Printf("[CommentService] Comment %d submitted on post %d (score=%.2f status=%s)",
		comment.ID, comment.PostID, comment.SpamScore, comment.Status)

	s.publish(ctx, queue.NewCommentSubmittedEvent(comment))

	return comment, nil
}

// Review applies a single moderation decision. The action is validated
// before anything is read or written; an unknown comment id fails with
// model.ErrCommentNotFound and no mutation. Re-reviewing an already
// decided comment is allowed without restriction and refreshes the
// review stamp.
func (s *CommentService) Review(ctx context.Context, commentID int64, action, reviewedBy string) (*model.Comment, error) {
	action = strings.ToLower(action)
	if action != model.ActionApprove && action != model.ActionReject {
		return nil, model.ErrInvalidAction
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	s.applyDecision(comment, action, reviewedBy)

	if err := s.commentRepo.UpdateModeration(ctx, comment); err != nil {
		return nil, err
	}

	log.Printf("[CommentService] Comment %d reviewed: action=%s by=%s", commentID, action, reviewedBy)

	s.publish(ctx, queue.NewCommentReviewedEvent(comment, action, reviewedBy))

	return comment, nil
}

// BatchReview applies one action to every resolvable comment id,
// committing each item independently: one failure never rolls back or
// stops the rest.
//
// Ids that resolve to no stored comment are dropped silently - they are
// neither successes nor failures - while TotalCount stays the length of
// the input list, so the counters need not add up. An unrecognized
// action marks every resolved comment failed without touching it.
func (s *CommentService) BatchReview(ctx context.Context, commentIDs []int64, action, reviewedBy string) (model.BatchResult, error) {
	result := model.BatchResult{TotalCount: len(commentIDs)}

	comments, err := s.commentRepo.GetByIDs(ctx, commentIDs)
	if err != nil {
		return result, err
	}

	action = strings.ToLower(action)
	for i := range comments {
		comment := &comments[i]

		if action != model.ActionApprove && action != model.ActionReject {
			result.FailCount++
			continue
		}

		s.applyDecision(comment, action, reviewedBy)

		if err := s.commentRepo.UpdateModeration(ctx, comment); err != nil {
			log.Printf("[CommentService] Batch review: comment %d failed: %v", comment.ID, err)
			result.FailCount++
			continue
		}
		result.SuccessCount++

		s.publish(ctx, queue.NewCommentReviewedEvent(comment, action, reviewedBy))
	}

	log.Printf("[CommentService] Batch review done: action=%s by=%s total=%d ok=%d failed=%d",
		action, reviewedBy, result.TotalCount, result.SuccessCount, result.FailCount)

	return result, nil
}

// Approve is the legacy convenience path: a single review with the
// approve action attributed to "system".
func (s *CommentService) Approve(ctx context.Context, commentID int64) (*model.Comment, error) {
	return s.Review(ctx, commentID, model.ActionApprove, "system")
}

// Delete permanently removes a comment. There is no soft delete: a
// deleted comment is gone and its id will never resolve again.
func (s *CommentService) Delete(ctx context.Context, commentID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	log.Printf("[CommentService] Comment %d deleted from post %d", commentID, comment.PostID)

	s.publish(ctx, queue.NewCommentDeletedEvent(commentID, comment.PostID))

	return nil
}

// BatchDelete deletes each id independently and reports per-item
// outcomes. Unlike batch review, missing ids count as failures here:
// delete of a nonexistent comment is a NotFound, not a silent drop.
func (s *CommentService) BatchDelete(ctx context.Context, commentIDs []int64) model.BatchResult {
	result := model.BatchResult{TotalCount: len(commentIDs)}

	for _, id := range commentIDs {
		if err := s.Delete(ctx, id); err != nil {
			if !errors.Is(err, model.ErrCommentNotFound) {
				log.Printf("[CommentService] Batch delete: comment %d failed: %v", id, err)
			}
			result.FailCount++
			continue
		}
		result.SuccessCount++
	}

	return result
}

// applyDecision mutates the moderation fields for a validated action and
// stamps the review metadata, overwriting any earlier review. The
// approved mirror is set strictly from the new status.
func (s *CommentService) applyDecision(comment *model.Comment, action, reviewedBy string) {
	switch action {
	case model.ActionApprove:
		comment.Status = model.StatusApproved
		comment.Approved = true
		comment.IsSpam = false
	case model.ActionReject:
		comment.Status = model.StatusRejected
		comment.Approved = false
		comment.IsSpam = true
	}

	now := s.now()
	comment.ReviewedAt = &now
	comment.ReviewedBy = &reviewedBy
}

// publish sends an audit event, best-effort. A failed publish loses the
// audit record but never the comment write it describes.
func (s *CommentService) publish(ctx context.Context, event queue.ModerationEvent) {
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.Publish(ctx, queue.StreamModeration, event); err != nil {
		log.Printf("[CommentService] Failed to publish %s event for comment %d: %v",
			event.Type, event.CommentID, err)
	}
}

func validateSubmission(req model.SubmitCommentRequest) error {
	if req.PostID <= 0 {
		return model.ErrPostIDRequired
	}
	author := strings.TrimSpace(req.Author)
	if author == "" {
		return model.ErrAuthorRequired
	}
	if len(author) > model.MaxAuthorLength {
		return model.ErrAuthorTooLong
	}
	if strings.TrimSpace(req.Content) == "" {
		return model.ErrContentRequired
	}
	return nil
}
