package content

import (
	"net/http"

	"github.com/DeBrosOfficial/social/pkg/gateway/ctxkeys"
	"github.com/DeBrosOfficial/social/pkg/httputil"
)

// LikeHandler toggles the caller's like on a post.
//
// POST /v1/posts/{id}/like
// Response: { "liked", "like_count" }
func (h *Handlers) LikeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.content.ToggleLike(r.Context(), ctxkeys.AddressFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}
