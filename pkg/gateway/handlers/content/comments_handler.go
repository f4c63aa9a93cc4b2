package content

import (
	"net/http"

	"github.com/DeBrosOfficial/social/pkg/errors"
	"github.com/DeBrosOfficial/social/pkg/gateway/ctxkeys"
	"github.com/DeBrosOfficial/social/pkg/httputil"
)

// CommentRequest is the request body for adding a comment
type CommentRequest struct {
	Content string `json:"content"`
}

// ListCommentsHandler returns a post's comments oldest first.
//
// GET /v1/posts/{id}/comments
func (h *Handlers) ListCommentsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	comments, err := h.feed.Comments(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

// AddCommentHandler appends a comment by the caller.
//
// POST /v1/posts/{id}/comments
// Request body: CommentRequest
func (h *Handlers) AddCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req CommentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, errors.NewValidationError("", errors.ReasonInvalidJSON, "invalid json body"))
		return
	}
	c, err := h.content.AddComment(r.Context(), ctxkeys.AddressFrom(r.Context()), id, req.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}
