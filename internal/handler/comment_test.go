package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commentmod/internal/model"
)

func strPtr(s string) *string { return &s }

func TestFillProvenance(t *testing.T) {
	t.Run("body values win over the connection", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/comments", nil)
		r.RemoteAddr = "10.0.0.1:4455"
		r.Header.Set("User-Agent", "Go-http-client/1.1")

		req := model.SubmitCommentRequest{
			IPAddress: strPtr("198.51.100.7"),
			UserAgent: strPtr("OriginalClient/1.0"),
		}
		fillProvenance(&req, r)

		require.NotNil(t, req.IPAddress)
		assert.Equal(t, "198.51.100.7", *req.IPAddress)
		require.NotNil(t, req.UserAgent)
		assert.Equal(t, "OriginalClient/1.0", *req.UserAgent)
	})

	t.Run("absent fields fall back to the connection", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/comments", nil)
		r.RemoteAddr = "10.0.0.1:4455"
		r.Header.Set("User-Agent", "Mozilla/5.0")

		req := model.SubmitCommentRequest{}
		fillProvenance(&req, r)

		require.NotNil(t, req.IPAddress)
		assert.Equal(t, "10.0.0.1", *req.IPAddress)
		require.NotNil(t, req.UserAgent)
		assert.Equal(t, "Mozilla/5.0", *req.UserAgent)
	})

	t.Run("blank body values count as absent", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/comments", nil)
		r.RemoteAddr = "10.0.0.1:4455"

		req := model.SubmitCommentRequest{
			IPAddress: strPtr("  "),
			UserAgent: strPtr(""),
		}
		fillProvenance(&req, r)

		require.NotNil(t, req.IPAddress)
		assert.Equal(t, "10.0.0.1", *req.IPAddress)
		// httptest requests carry no User-Agent header by default.
		assert.Nil(t, req.UserAgent)
	})
}
