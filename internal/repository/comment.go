package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"commentmod/internal/model"
)

// commentColumns is the full column list of the comments table, in the
// order the model expects.
var commentColumns = []string{
	"id", "post_id", "author", "email", "content", "parent_id",
	"created_at", "status", "approved", "is_spam", "spam_score",
	"reviewed_at", "reviewed_by", "ip_address", "user_agent",
}

type commentRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new comment. The id and creation timestamp come back
// from the database so clocks stay consistent across instances.
func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	query := `
		INSERT INTO comments (post_id, author, email, content, parent_id,
		                      status, approved, is_spam, spam_score, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		comment.PostID, comment.Author, comment.Email, comment.Content, comment.ParentID,
		comment.Status, comment.Status == model.StatusApproved, comment.IsSpam, comment.SpamScore,
		comment.IPAddress, comment.UserAgent,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// GetByID retrieves a single comment.
func (r *commentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	query := `
		SELECT id, post_id, author, email, content, parent_id, created_at,
		       status, approved, is_spam, spam_score, reviewed_at, reviewed_by,
		       ip_address, user_agent
		FROM comments
		WHERE id = $1
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// GetByIDs returns the comments that exist for the given ids. Ids with no
// matching row are dropped without error; callers that care about the gap
// compare result length against the input.
func (r *commentRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, post_id, author, email, content, parent_id, created_at,
		       status, approved, is_spam, spam_score, reviewed_at, reviewed_by,
		       ip_address, user_agent
		FROM comments
		WHERE id = ANY($1)
		ORDER BY id
	`
	var comments []model.Comment
	if err := r.db.SelectContext(ctx, &comments, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("get comments by ids: %w", err)
	}
	return comments, nil
}

// GetAll returns the entire corpus, newest first.
func (r *commentRepository) GetAll(ctx context.Context) ([]model.Comment, error) {
	return r.selectComments(ctx, r.selectBuilder().OrderBy("created_at DESC", "id DESC"))
}

// UpdateModeration writes the moderation fields of a comment in a single
// statement, keeping the per-row write atomic. The approved column is
// derived from status at this boundary, never taken from the caller, so
// the two can never diverge in storage.
func (r *commentRepository) UpdateModeration(ctx context.Context, comment *model.Comment) error {
	query := `
		UPDATE comments
		SET status = $1, approved = $2, is_spam = $3, reviewed_at = $4, reviewed_by = $5
		WHERE id = $6
	`
	res, err := r.db.ExecContext(ctx, query,
		comment.Status, comment.Status == model.StatusApproved, comment.IsSpam,
		comment.ReviewedAt, comment.ReviewedBy, comment.ID,
	)
	if err != nil {
		return fmt.Errorf("update comment moderation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update comment moderation: %w", err)
	}
	if affected == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// Delete permanently removes a comment.
func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if affected == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// GetByPostID returns a post's comments oldest first, optionally limited
// to approved ones.
func (r *commentRepository) GetByPostID(ctx context.Context, postID int64, approvedOnly bool) ([]model.Comment, error) {
	b := r.selectBuilder().
		Where(squirrel.Eq{"post_id": postID}).
		OrderBy("created_at ASC", "id ASC")
	if approvedOnly {
		b = b.Where(squirrel.Eq{"status": model.StatusApproved})
	}
	return r.selectComments(ctx, b)
}

// GetByStatus returns comments in the given status, newest first.
func (r *commentRepository) GetByStatus(ctx context.Context, status model.CommentStatus) ([]model.Comment, error) {
	b := r.selectBuilder().
		Where(squirrel.Eq{"status": status}).
		OrderBy("created_at DESC", "id DESC")
	return r.selectComments(ctx, b)
}

// Search matches the keyword as a case-insensitive substring of author or
// content, newest first. Blank keywords are the caller's concern.
func (r *commentRepository) Search(ctx context.Context, keyword string) ([]model.Comment, error) {
	pattern := "%" + keyword + "%"
	b := r.selectBuilder().
		Where(squirrel.Or{
			squirrel.ILike{"author": pattern},
			squirrel.ILike{"content": pattern},
		}).
		OrderBy("created_at DESC", "id DESC")
	return r.selectComments(ctx, b)
}

// GetHighRisk returns comments scored strictly above the threshold,
// riskiest first.
func (r *commentRepository) GetHighRisk(ctx context.Context, threshold float64) ([]model.Comment, error) {
	b := r.selectBuilder().
		Where(squirrel.Gt{"spam_score": threshold}).
		OrderBy("spam_score DESC", "id DESC")
	return r.selectComments(ctx, b)
}

// GetByDateRange returns comments created within [start, end] inclusive,
// newest first.
func (r *commentRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]model.Comment, error) {
	b := r.selectBuilder().
		Where(squirrel.GtOrEq{"created_at": start}).
		Where(squirrel.LtOrEq{"created_at": end}).
		OrderBy("created_at DESC", "id DESC")
	return r.selectComments(ctx, b)
}

// CountApprovedForPost counts a post's visible comments. The legacy
// approved column is the lookup key here, matching the callers that
// predate the status enum.
func (r *commentRepository) CountApprovedForPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM comments WHERE post_id = $1 AND approved = TRUE`, postID)
	if err != nil {
		return 0, fmt.Errorf("count approved comments: %w", err)
	}
	return count, nil
}

func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM comments`); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return count, nil
}

func (r *commentRepository) CountByStatus(ctx context.Context, status model.CommentStatus) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM comments WHERE status = $1`, status)
	if err != nil {
		return 0, fmt.Errorf("count comments by status: %w", err)
	}
	return count, nil
}

func (r *commentRepository) CountCreatedAfter(ctx context.Context, t time.Time) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM comments WHERE created_at > $1`, t)
	if err != nil {
		return 0, fmt.Errorf("count recent comments: %w", err)
	}
	return count, nil
}

func (r *commentRepository) selectBuilder() squirrel.SelectBuilder {
	return r.sb.Select(commentColumns...).From("comments")
}

func (r *commentRepository) selectComments(ctx context.Context, b squirrel.SelectBuilder) ([]model.Comment, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build comment query: %w", err)
	}
	var comments []model.Comment
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, fmt.Errorf("select comments: %w", err)
	}
	return comments, nil
}
