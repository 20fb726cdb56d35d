package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commentmod/internal/model"
)

func TestGetStatisticsEmptyCorpus(t *testing.T) {
	repo := newFakeCommentRepo()
	svc, _ := newTestService(repo)

	stats, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)

	// All zeros, and in particular no division by zero in the rate.
	assert.Equal(t, model.CommentStatistics{}, stats)
}

func TestGetStatisticsCountsAndRate(t *testing.T) {
	repo := newFakeCommentRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seed := func(status model.CommentStatus, age time.Duration) {
		c := &model.Comment{
			PostID:    1,
			Author:    "someone",
			Content:   "statistics fodder, long enough",
			Status:    status,
			Approved:  status == model.StatusApproved,
			CreatedAt: now.Add(-age),
		}
		require.NoError(t, repo.Create(ctx, c))
	}

	seed(model.StatusApproved, time.Hour)
	seed(model.StatusApproved, 2*time.Hour)
	seed(model.StatusApproved, 30*24*time.Hour) // old, outside the recent window
	seed(model.StatusPending, time.Hour)
	seed(model.StatusRejected, 10*24*time.Hour) // also old

	stats, err := svc.GetStatistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(3), stats.Approved)
	assert.Equal(t, int64(1), stats.Rejected)
	assert.Equal(t, int64(3), stats.Recent) // created within the last 7 days
	assert.InDelta(t, 60.0, stats.ApprovalRate, 1e-9)
}
