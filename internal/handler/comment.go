package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"commentmod/internal/httputil"
	"commentmod/internal/model"
	"commentmod/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// Submit handles POST /api/comments
// Accepts a visitor comment, scores it, and stores it with an initial
// moderation status.
func (h *CommentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	fillProvenance(&req, r)

	comment, err := h.commentService.Submit(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostIDRequired):
			httputil.WriteBadRequestWithCode(w, httputil.ErrCodeValidation, "Post ID is required")
		case errors.Is(err, model.ErrAuthorRequired):
			httputil.WriteBadRequestWithCode(w, httputil.ErrCodeValidation, "Author is required")
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteBadRequestWithCode(w, httputil.ErrCodeValidation, "Content is required")
		case errors.Is(err, model.ErrAuthorTooLong):
			httputil.WriteBadRequestWithCode(w, httputil.ErrCodeValidation, "Author too long (max 100 characters)")
		default:
			log.Printf("[ERROR] Submit comment handler: post=%d err=%v", req.PostID, err)
			httputil.WriteInternalError(w, "Failed to submit comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// GetByPost handles GET /api/comments/post/{postId}
// Returns approved comments for a post, oldest first.
func (h *CommentHandler) GetByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	comments, err := h.commentService.GetCommentsForPost(r.Context(), postID, true)
	if err != nil {
		log.Printf("[ERROR] Get comments by post handler: post=%d err=%v", postID, err)
		httputil.WriteInternalError(w, "Failed to get comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// GetAllByPost handles GET /api/comments/post/{postId}/all
// Returns comments for a post in every status, oldest first.
func (h *CommentHandler) GetAllByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	comments, err := h.commentService.GetCommentsForPost(r.Context(), postID, false)
	if err != nil {
		log.Printf("[ERROR] Get all comments by post handler: post=%d err=%v", postID, err)
		httputil.WriteInternalError(w, "Failed to get comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// GetCountByPost handles GET /api/comments/post/{postId}/count
// Returns the number of approved comments for a post.
func (h *CommentHandler) GetCountByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	count, err := h.commentService.GetCommentCountForPost(r.Context(), postID)
	if err != nil {
		log.Printf("[ERROR] Get comment count handler: post=%d err=%v", postID, err)
		httputil.WriteInternalError(w, "Failed to count comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// fillProvenance backfills the provenance fields from the connection.
// Values supplied in the submission body win; the request is only a
// fallback for clients that omit them.
func fillProvenance(req *model.SubmitCommentRequest, r *http.Request) {
	if req.IPAddress == nil || strings.TrimSpace(*req.IPAddress) == "" {
		req.IPAddress = clientIP(r)
	}
	if req.UserAgent == nil || strings.TrimSpace(*req.UserAgent) == "" {
		req.UserAgent = nil
		if ua := r.UserAgent(); ua != "" {
			req.UserAgent = &ua
		}
	}
}

// clientIP extracts the submitting client's address, preferring the
// first entry of X-Forwarded-For when a proxy set it.
func clientIP(r *http.Request) *string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if ip != "" {
			return &ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr == "" {
			return nil
		}
		addr := r.RemoteAddr
		return &addr
	}
	return &host
}
