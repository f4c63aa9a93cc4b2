// Package auth provides HTTP handlers for wallet sign-in: challenge
// issuance, signature verification into a bearer session, whoami and the
// JWKS document for the session signing key.
package auth

import (
	"net/http"

	authsvc "github.com/DeBrosOfficial/social/pkg/gateway/auth"
	"github.com/DeBrosOfficial/social/pkg/gateway/ctxkeys"
	"github.com/DeBrosOfficial/social/pkg/httputil"
	"github.com/DeBrosOfficial/social/pkg/logging"
)

// AttemptRecorder counts sign-in outcomes.
type AttemptRecorder interface {
	RecordAuth(outcome string)
}

// Handlers holds dependencies for authentication HTTP handlers
type Handlers struct {
	logger      *logging.ColoredLogger
	authService *authsvc.Service
	recorder    AttemptRecorder
}

// NewHandlers creates a new authentication handlers instance. recorder may be nil.
func NewHandlers(logger *logging.ColoredLogger, authService *authsvc.Service, recorder AttemptRecorder) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{logger: logger, authService: authService, recorder: recorder}
}

// WhoamiHandler reports the address the request authenticated as.
//
// GET /v1/auth/whoami
func (h *Handlers) WhoamiHandler(w http.ResponseWriter, r *http.Request) {
	addr := ctxkeys.AddressFrom(r.Context())
	if addr == "" {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"address":       addr,
	})
}

// JWKSHandler publishes the session verification key.
//
// GET /.well-known/jwks.json
func (h *Handlers) JWKSHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	httputil.WriteJSON(w, http.StatusOK, h.authService.Sessions().JWKS())
}
