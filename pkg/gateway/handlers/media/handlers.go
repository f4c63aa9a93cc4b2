// Package media provides the upload-URL handshake handler. Clients PUT
// media straight to object storage and then reference the public URL in a
// post.
package media

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/errors"
	"github.com/DeBrosOfficial/social/pkg/gateway/ctxkeys"
	"github.com/DeBrosOfficial/social/pkg/httputil"
	"github.com/DeBrosOfficial/social/pkg/logging"
	mediasvc "github.com/DeBrosOfficial/social/pkg/media"
)

// Presigner issues upload tickets.
type Presigner interface {
	PresignUpload(ctx context.Context, owner, contentType, kind string) (mediasvc.Ticket, error)
}

// UploadRequest is the request body for an upload ticket
type UploadRequest struct {
	ContentType string `json:"content_type"`
	Kind        string `json:"kind"`
}

// Handlers holds dependencies for media HTTP handlers
type Handlers struct {
	logger    *logging.ColoredLogger
	presigner Presigner
}

// NewHandlers creates a new media handlers instance
func NewHandlers(logger *logging.ColoredLogger, presigner Presigner) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{logger: logger, presigner: presigner}
}

// UploadHandler returns a presigned PUT for the caller.
//
// POST /v1/uploads
// Request body: UploadRequest
// Response: media.Ticket
func (h *Handlers) UploadHandler(w http.ResponseWriter, r *http.Request) {
	var req UploadRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, errors.NewValidationError("", errors.ReasonInvalidJSON, "invalid json body"))
		return
	}
	if httputil.IsEmpty(req.ContentType) {
		httputil.WriteError(w, r, errors.NewValidationError("content_type", errors.ReasonMissingFields, "content_type is required"))
		return
	}

	ticket, err := h.presigner.PresignUpload(r.Context(), ctxkeys.AddressFrom(r.Context()), req.ContentType, req.Kind)
	if err != nil {
		if errors.StatusCode(err) >= http.StatusInternalServerError {
			h.logger.ComponentError(logging.ComponentStorage, "Upload ticket failed", zap.Error(err))
		}
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ticket)
}
