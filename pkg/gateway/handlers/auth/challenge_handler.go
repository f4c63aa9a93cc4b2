package auth

import (
	"net/http"

	"github.com/DeBrosOfficial/social/pkg/errors"
	"github.com/DeBrosOfficial/social/pkg/httputil"
)

// ChallengeHandler issues a sign-in message containing a fresh nonce.
// This is the first step in the authentication flow where clients request a
// message to sign with their wallet.
//
// POST /v1/auth/challenge
// Request body: ChallengeRequest
// Response: ChallengeResponse
func (h *Handlers) ChallengeHandler(w http.ResponseWriter, r *http.Request) {
	var req ChallengeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, errors.NewValidationError("", errors.ReasonInvalidJSON, "invalid json body"))
		return
	}
	if httputil.IsEmpty(req.Address) {
		httputil.WriteError(w, r, errors.NewValidationError("address", errors.ReasonMissingFields, "address is required"))
		return
	}

	ch, err := h.authService.CreateChallenge(r.Context(), req.Address)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ChallengeResponse{
		Address:   ch.Address,
		Message:   ch.Message,
		Nonce:     ch.Nonce,
		ExpiresAt: ch.ExpiresAt,
	})
}
