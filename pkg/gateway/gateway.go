// Package gateway serves the social HTTP API: wallet sign-in, posts, likes,
// comments, profiles, follows and upload tickets.
package gateway

import (
	"net/http"
	"time"

	"github.com/DeBrosOfficial/social/pkg/config"
	authhandlers "github.com/DeBrosOfficial/social/pkg/gateway/handlers/auth"
	contenthandlers "github.com/DeBrosOfficial/social/pkg/gateway/handlers/content"
	mediahandlers "github.com/DeBrosOfficial/social/pkg/gateway/handlers/media"
	socialhandlers "github.com/DeBrosOfficial/social/pkg/gateway/handlers/social"
	"github.com/DeBrosOfficial/social/pkg/logging"
)

type Gateway struct {
	logger    *logging.ColoredLogger
	cfg       *config.Config
	deps      *Dependencies
	startedAt time.Time
	handler   http.Handler

	authHandlers    *authhandlers.Handlers
	contentHandlers *contenthandlers.Handlers
	socialHandlers  *socialhandlers.Handlers
	mediaHandlers   *mediahandlers.Handlers

	servers []*http.Server
}

// New creates a Gateway over deps and builds its router.
func New(logger *logging.ColoredLogger, cfg *config.Config, deps *Dependencies) *Gateway {
	if logger == nil {
		logger = logging.NewNop()
	}
	g := &Gateway{
		logger:    logger,
		cfg:       cfg,
		deps:      deps,
		startedAt: time.Now(),
	}

	var recorder authhandlers.AttemptRecorder
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}
	g.authHandlers = authhandlers.NewHandlers(logger, deps.AuthService, recorder)
	g.contentHandlers = contenthandlers.NewHandlers(logger, deps.Content, deps.Feed)
	g.socialHandlers = socialhandlers.NewHandlers(logger, deps.Identities, deps.Graph, deps.Feed)
	if deps.Presigner != nil {
		g.mediaHandlers = mediahandlers.NewHandlers(logger, deps.Presigner)
	}

	g.handler = g.Routes()
	return g
}

// Handler returns the fully wrapped router.
func (g *Gateway) Handler() http.Handler { return g.handler }
