// Package social provides HTTP handlers for profiles and follow edges.
package social

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/errors"
	"github.com/DeBrosOfficial/social/pkg/feed"
	"github.com/DeBrosOfficial/social/pkg/httputil"
	"github.com/DeBrosOfficial/social/pkg/logging"
	socialstore "github.com/DeBrosOfficial/social/pkg/social"
)

// DefaultListLimit bounds follower and following lists.
const DefaultListLimit = 100

// Handlers holds dependencies for profile and graph HTTP handlers
type Handlers struct {
	logger     *logging.ColoredLogger
	identities *socialstore.IdentityStore
	graph      *socialstore.GraphStore
	feed       *feed.Aggregator
}

// NewHandlers creates a new social handlers instance
func NewHandlers(logger *logging.ColoredLogger, identities *socialstore.IdentityStore, graph *socialstore.GraphStore, agg *feed.Aggregator) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{logger: logger, identities: identities, graph: graph, feed: agg}
}

// targetAddress parses and normalizes the {address} route parameter.
func targetAddress(r *http.Request) (string, error) {
	addr, ok := httputil.NormalizeAddress(chi.URLParam(r, "address"))
	if !ok {
		return "", errors.NewValidationError("address", errors.ReasonInvalidAddress, "invalid wallet address")
	}
	return addr, nil
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.StatusCode(err) >= http.StatusInternalServerError {
		h.logger.ComponentError(logging.ComponentGateway, "Social request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	httputil.WriteError(w, r, err)
}
