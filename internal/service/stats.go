package service

import (
	"context"

	"commentmod/internal/model"
)

// recentWindowDays is the lookback for the "recent" statistic.
const recentWindowDays = 7

// GetStatistics computes a point-in-time snapshot of the corpus. The
// five counts are independent queries with no shared transaction, so a
// concurrent write can be reflected in some numbers and not others.
func (s *CommentService) GetStatistics(ctx context.Context) (model.CommentStatistics, error) {
	var stats model.CommentStatistics
	var err error

	if stats.Total, err = s.commentRepo.Count(ctx); err != nil {
		return stats, err
	}
	if stats.Pending, err = s.commentRepo.CountByStatus(ctx, model.StatusPending); err != nil {
		return stats, err
	}
	if stats.Approved, err = s.commentRepo.CountByStatus(ctx, model.StatusApproved); err != nil {
		return stats, err
	}
	if stats.Rejected, err = s.commentRepo.CountByStatus(ctx, model.StatusRejected); err != nil {
		return stats, err
	}

	lastWeek := s.now().AddDate(0, 0, -recentWindowDays)
	if stats.Recent, err = s.commentRepo.CountCreatedAfter(ctx, lastWeek); err != nil {
		return stats, err
	}

	// Zero on an empty corpus; never divide by zero.
	if stats.Total > 0 {
		stats.ApprovalRate = float64(stats.Approved) / float64(stats.Total) * 100
	}

	return stats, nil
}
