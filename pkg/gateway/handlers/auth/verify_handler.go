package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/errors"
	"github.com/DeBrosOfficial/social/pkg/httputil"
	"github.com/DeBrosOfficial/social/pkg/logging"
)

// VerifyHandler verifies a wallet signature over a message and issues a
// bearer session for the address.
//
// POST /v1/auth/verify
// Request body: VerifyRequest
// Response: VerifyResponse
func (h *Handlers) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.record(errors.ReasonInvalidJSON)
		httputil.WriteError(w, r, errors.NewValidationError("", errors.ReasonInvalidJSON, "invalid json body"))
		return
	}

	sess, err := h.authService.Authenticate(r.Context(), req.Address, req.Message, req.Signature)
	if err != nil {
		h.record(outcome(err))
		if errors.StatusCode(err) >= http.StatusInternalServerError {
			h.logger.ComponentError(logging.ComponentAuth, "Sign-in failed", zap.Error(err))
		}
		httputil.WriteError(w, r, err)
		return
	}

	h.record("ok")
	httputil.WriteJSON(w, http.StatusOK, VerifyResponse{
		Token:     sess.Token,
		TokenType: sess.TokenType,
		ExpiresAt: sess.ExpiresAt,
		Address:   sess.Address,
	})
}

func (h *Handlers) record(outcome string) {
	if h.recorder != nil {
		h.recorder.RecordAuth(outcome)
	}
}

func outcome(err error) string {
	if reason := errors.ReasonOf(err); reason != "" {
		return reason
	}
	return strings.ToLower(errors.GetErrorCode(err))
}
