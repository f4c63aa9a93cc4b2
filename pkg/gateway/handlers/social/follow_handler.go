package social

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DeBrosOfficial/social/pkg/gateway/ctxkeys"
	"github.com/DeBrosOfficial/social/pkg/httputil"
)

// FollowHandler makes the caller follow {address}. Following twice is not
// an error.
//
// POST /v1/users/{address}/follow
// Response: { "following": true, "follower_count" }
func (h *Handlers) FollowHandler(w http.ResponseWriter, r *http.Request) {
	res, err := h.graph.Follow(r.Context(), ctxkeys.AddressFrom(r.Context()), chi.URLParam(r, "address"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// UnfollowHandler removes the caller's follow of {address}.
//
// DELETE /v1/users/{address}/follow
// Response: { "following": false, "follower_count" }
func (h *Handlers) UnfollowHandler(w http.ResponseWriter, r *http.Request) {
	res, err := h.graph.Unfollow(r.Context(), ctxkeys.AddressFrom(r.Context()), chi.URLParam(r, "address"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// FollowersHandler lists addresses following {address}.
//
// GET /v1/users/{address}/followers?limit=
func (h *Handlers) FollowersHandler(w http.ResponseWriter, r *http.Request) {
	h.listEdges(w, r, true)
}

// FollowingHandler lists addresses {address} follows.
//
// GET /v1/users/{address}/following?limit=
func (h *Handlers) FollowingHandler(w http.ResponseWriter, r *http.Request) {
	h.listEdges(w, r, false)
}

func (h *Handlers) listEdges(w http.ResponseWriter, r *http.Request, followers bool) {
	addr, err := targetAddress(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	limit := httputil.ClampLimit(httputil.QueryParamInt(r, "limit", DefaultListLimit), DefaultListLimit)

	var list []string
	if followers {
		list, err = h.graph.Followers(r.Context(), addr, limit)
	} else {
		list, err = h.graph.Following(r.Context(), addr, limit)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"address": addr, "addresses": list})
}
