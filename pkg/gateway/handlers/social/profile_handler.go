package social

import (
	"net/http"

	"github.com/DeBrosOfficial/social/pkg/errors"
	"github.com/DeBrosOfficial/social/pkg/gateway/ctxkeys"
	"github.com/DeBrosOfficial/social/pkg/httputil"
	socialstore "github.com/DeBrosOfficial/social/pkg/social"
)

// MyProfileHandler returns the caller's own profile page.
//
// GET /v1/profile
func (h *Handlers) MyProfileHandler(w http.ResponseWriter, r *http.Request) {
	addr := ctxkeys.AddressFrom(r.Context())
	view, err := h.feed.Profile(r.Context(), addr, "")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// UpdateProfileHandler replaces the caller's username, bio and avatar.
// Fields missing from the body are cleared.
//
// PUT /v1/profile
// Request body: social.ProfileUpdate
func (h *Handlers) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req socialstore.ProfileUpdate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, errors.NewValidationError("", errors.ReasonInvalidJSON, "invalid json body"))
		return
	}
	id, err := h.identities.Update(r.Context(), ctxkeys.AddressFrom(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, id)
}

// UserProfileHandler returns any address's profile page. Authenticated
// viewers also get is_following.
//
// GET /v1/users/{address}
func (h *Handlers) UserProfileHandler(w http.ResponseWriter, r *http.Request) {
	addr, err := targetAddress(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view, err := h.feed.Profile(r.Context(), addr, ctxkeys.AddressFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// UserPostsHandler returns one address's posts, newest first.
//
// GET /v1/users/{address}/posts?limit=
func (h *Handlers) UserPostsHandler(w http.ResponseWriter, r *http.Request) {
	addr, err := targetAddress(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	limit := httputil.QueryParamInt(r, "limit", h.feed.MaxItems())
	posts, err := h.feed.UserPosts(r.Context(), addr, ctxkeys.AddressFrom(r.Context()), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"posts": posts})
}
