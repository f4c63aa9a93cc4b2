package content

import (
	"net/http"

	"github.com/DeBrosOfficial/social/pkg/errors"
	"github.com/DeBrosOfficial/social/pkg/gateway/ctxkeys"
	"github.com/DeBrosOfficial/social/pkg/httputil"
	"github.com/DeBrosOfficial/social/pkg/social"
)

// FeedHandler returns the global feed, newest first. Authenticated viewers
// get liked_by_viewer on every post.
//
// GET /v1/posts?limit=
func (h *Handlers) FeedHandler(w http.ResponseWriter, r *http.Request) {
	limit := httputil.QueryParamInt(r, "limit", h.feed.MaxItems())
	posts, err := h.feed.Feed(r.Context(), ctxkeys.AddressFrom(r.Context()), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// CreateHandler publishes a post for the authenticated address.
//
// POST /v1/posts
// Request body: social.NewPost
func (h *Handlers) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req social.NewPost
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, errors.NewValidationError("", errors.ReasonInvalidJSON, "invalid json body"))
		return
	}
	post, err := h.content.CreatePost(r.Context(), ctxkeys.AddressFrom(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, post)
}

// DeleteHandler removes a post owned by the caller.
//
// DELETE /v1/posts/{id}
func (h *Handlers) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.content.DeletePost(r.Context(), ctxkeys.AddressFrom(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}
