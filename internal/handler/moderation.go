package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"commentmod/internal/httputil"
	"commentmod/internal/model"
	"commentmod/internal/service"
)

// dateOnly is the short form accepted by the date-range endpoint. A
// start in this form expands to the beginning of that day, an end to
// the last instant of it.
const dateOnly = "2006-01-02"

type ModerationHandler struct {
	commentService    *service.CommentService
	highRiskThreshold float64
}

func NewModerationHandler(commentService *service.CommentService, highRiskThreshold float64) *ModerationHandler {
	return &ModerationHandler{
		commentService:    commentService,
		highRiskThreshold: highRiskThreshold,
	}
}

// Review handles POST /api/comments/review
// Applies an approve or reject decision to a single comment.
func (h *ModerationHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req model.ReviewCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Review(r.Context(), req.CommentID, req.Action, req.ReviewedBy)
	if err != nil {
		h.writeReviewError(w, req.CommentID, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comment)
}

// BatchReview handles POST /api/comments/batch-review
// Applies one decision to many comments and reports per-item outcomes.
func (h *ModerationHandler) BatchReview(w http.ResponseWriter, r *http.Request) {
	var req model.BatchReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	result, err := h.commentService.BatchReview(r.Context(), req.CommentIDs, req.Action, req.ReviewedBy)
	if err != nil {
		log.Printf("[ERROR] Batch review handler: count=%d err=%v", len(req.CommentIDs), err)
		httputil.WriteInternalError(w, "Failed to batch review comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Approve handles PUT /api/comments/{id}/approve
// Shortcut that approves a comment on behalf of the system reviewer.
func (h *ModerationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	commentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	comment, err := h.commentService.Approve(r.Context(), commentID)
	if err != nil {
		h.writeReviewError(w, commentID, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE /api/comments/{id}
func (h *ModerationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	if err := h.commentService.Delete(r.Context(), commentID); err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			httputil.WriteNotFound(w, "Comment not found")
			return
		}
		log.Printf("[ERROR] Delete comment handler: comment=%d err=%v", commentID, err)
		httputil.WriteInternalError(w, "Failed to delete comment")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
}

// BatchDelete handles DELETE /api/comments/batch
func (h *ModerationHandler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req model.BatchDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	result := h.commentService.BatchDelete(r.Context(), req.CommentIDs)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// GetPending handles GET /api/comments/pending
// Returns the moderation queue, newest first.
func (h *ModerationHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.GetPendingComments(r.Context())
	if err != nil {
		log.Printf("[ERROR] Get pending comments handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to get pending comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// GetByStatus handles GET /api/comments/status/{status}
func (h *ModerationHandler) GetByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := model.ParseCommentStatus(chi.URLParam(r, "status"))
	if err != nil {
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeInvalidStatus,
			"Status must be one of PENDING, APPROVED, REJECTED")
		return
	}

	comments, err := h.commentService.GetCommentsByStatus(r.Context(), status)
	if err != nil {
		log.Printf("[ERROR] Get comments by status handler: status=%s err=%v", status, err)
		httputil.WriteInternalError(w, "Failed to get comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// Search handles GET /api/comments/search?keyword=
// A blank keyword returns the full corpus.
func (h *ModerationHandler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")

	comments, err := h.commentService.SearchComments(r.Context(), keyword)
	if err != nil {
		log.Printf("[ERROR] Search comments handler: keyword=%q err=%v", keyword, err)
		httputil.WriteInternalError(w, "Failed to search comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// GetHighRisk handles GET /api/comments/high-risk?threshold=
func (h *ModerationHandler) GetHighRisk(w http.ResponseWriter, r *http.Request) {
	threshold := h.highRiskThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid threshold")
			return
		}
		threshold = parsed
	}

	comments, err := h.commentService.GetHighRiskComments(r.Context(), threshold)
	if err != nil {
		log.Printf("[ERROR] Get high-risk comments handler: threshold=%.2f err=%v", threshold, err)
		httputil.WriteInternalError(w, "Failed to get high-risk comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// GetByDateRange handles GET /api/comments/date-range?startDate=&endDate=
func (h *ModerationHandler) GetByDateRange(w http.ResponseWriter, r *http.Request) {
	start, err := parseRangeBound(r.URL.Query().Get("startDate"), false)
	if err != nil {
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeMalformedRange,
			"startDate must be RFC 3339 or YYYY-MM-DD")
		return
	}
	end, err := parseRangeBound(r.URL.Query().Get("endDate"), true)
	if err != nil {
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeMalformedRange,
			"endDate must be RFC 3339 or YYYY-MM-DD")
		return
	}

	comments, err := h.commentService.GetCommentsByDateRange(r.Context(), start, end)
	if err != nil {
		log.Printf("[ERROR] Get comments by date range handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to get comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// GetStatistics handles GET /api/comments/statistics
func (h *ModerationHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.commentService.GetStatistics(r.Context())
	if err != nil {
		log.Printf("[ERROR] Get statistics handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to get statistics")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}

// GetAll handles GET /api/comments/admin/all
// Returns the entire corpus, newest first.
func (h *ModerationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.SearchComments(r.Context(), "")
	if err != nil {
		log.Printf("[ERROR] Get all comments handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to get comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// GetByID handles GET /api/comments/{id}
func (h *ModerationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	commentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	comment, err := h.commentService.GetComment(r.Context(), commentID)
	if err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			httputil.WriteNotFound(w, "Comment not found")
			return
		}
		log.Printf("[ERROR] Get comment handler: comment=%d err=%v", commentID, err)
		httputil.WriteInternalError(w, "Failed to get comment")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comment)
}

func (h *ModerationHandler) writeReviewError(w http.ResponseWriter, commentID int64, err error) {
	switch {
	case errors.Is(err, model.ErrCommentNotFound):
		httputil.WriteNotFound(w, "Comment not found")
	case errors.Is(err, model.ErrInvalidAction):
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeInvalidAction,
			"Action must be approve or reject")
	default:
		log.Printf("[ERROR] Review comment handler: comment=%d err=%v", commentID, err)
		httputil.WriteInternalError(w, "Failed to review comment")
	}
}

// parseRangeBound accepts either a full RFC 3339 timestamp or a bare
// date. Bare dates expand to day boundaries so a range of
// 2024-01-01..2024-01-01 covers that whole day.
func parseRangeBound(raw string, endOfDay bool) (time.Time, error) {
	if raw == "" {
		return time.Time{}, model.ErrMalformedRange
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	day, err := time.Parse(dateOnly, raw)
	if err != nil {
		return time.Time{}, model.ErrMalformedRange
	}
	if endOfDay {
		return day.Add(24*time.Hour - time.Nanosecond), nil
	}
	return day, nil
}
