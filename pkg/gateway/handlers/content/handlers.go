// Package content provides HTTP handlers for posts, likes and comments.
package content

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/errors"
	"github.com/DeBrosOfficial/social/pkg/feed"
	"github.com/DeBrosOfficial/social/pkg/httputil"
	"github.com/DeBrosOfficial/social/pkg/logging"
	"github.com/DeBrosOfficial/social/pkg/social"
)

// Handlers holds dependencies for content HTTP handlers
type Handlers struct {
	logger  *logging.ColoredLogger
	content *social.ContentStore
	feed    *feed.Aggregator
}

// NewHandlers creates a new content handlers instance
func NewHandlers(logger *logging.ColoredLogger, content *social.ContentStore, agg *feed.Aggregator) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{logger: logger, content: content, feed: agg}
}

// postID parses the {id} route parameter.
func postID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("id", errors.ReasonInvalidPostID, "post id must be a positive integer")
	}
	return id, nil
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.StatusCode(err) >= http.StatusInternalServerError {
		h.logger.ComponentError(logging.ComponentGateway, "Content request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	httputil.WriteError(w, r, err)
}
