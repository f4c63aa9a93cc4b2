package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DeBrosOfficial/social/pkg/errors"
	"github.com/DeBrosOfficial/social/pkg/httputil"
)

// Routes returns the http.Handler with all routes and middleware configured
func (g *Gateway) Routes() http.Handler {
	r := chi.NewRouter()

	// Order: request id -> logging -> recover -> metrics -> CORS -> timeout -> token resolution
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(g.loggingMiddleware)
	r.Use(middleware.Recoverer)
	if g.deps.Metrics != nil {
		r.Use(g.deps.Metrics.Instrument)
	}
	r.Use(g.corsMiddleware)
	if t := g.cfg.Server.RequestTimeout; t > 0 {
		r.Use(middleware.Timeout(t))
	}
	r.Use(g.authMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, r, errors.NewNotFoundError("route", ""))
	})
	r.MethodNotAllowed(httputil.MethodNotAllowed)

	// health/status
	r.Get("/health", g.healthHandler)
	r.Get("/v1/health", g.healthHandler)
	r.Get("/v1/status", g.statusHandler)
	if g.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", g.deps.Metrics.Handler())
	}

	// auth endpoints
	r.Get("/.well-known/jwks.json", g.authHandlers.JWKSHandler)
	r.Get("/v1/auth/jwks", g.authHandlers.JWKSHandler)
	r.Post("/v1/auth/challenge", g.authHandlers.ChallengeHandler)
	r.Post("/v1/auth/verify", g.authHandlers.VerifyHandler)
	r.Get("/v1/auth/whoami", g.authHandlers.WhoamiHandler)

	// public and viewer-aware reads
	r.Get("/v1/posts", g.contentHandlers.FeedHandler)
	r.Get("/v1/posts/{id}/comments", g.contentHandlers.ListCommentsHandler)
	r.Get("/v1/users/{address}", g.socialHandlers.UserProfileHandler)
	r.Get("/v1/users/{address}/posts", g.socialHandlers.UserPostsHandler)
	r.Get("/v1/users/{address}/followers", g.socialHandlers.FollowersHandler)
	r.Get("/v1/users/{address}/following", g.socialHandlers.FollowingHandler)

	// mutations and the caller's own profile
	r.Group(func(r chi.Router) {
		r.Use(g.requireAuth)

		r.Post("/v1/posts", g.contentHandlers.CreateHandler)
		r.Delete("/v1/posts/{id}", g.contentHandlers.DeleteHandler)
		r.Post("/v1/posts/{id}/like", g.contentHandlers.LikeHandler)
		r.Post("/v1/posts/{id}/comments", g.contentHandlers.AddCommentHandler)

		r.Get("/v1/profile", g.socialHandlers.MyProfileHandler)
		r.Put("/v1/profile", g.socialHandlers.UpdateProfileHandler)

		r.Post("/v1/users/{address}/follow", g.socialHandlers.FollowHandler)
		r.Delete("/v1/users/{address}/follow", g.socialHandlers.UnfollowHandler)

		if g.mediaHandlers != nil {
			r.Post("/v1/uploads", g.mediaHandlers.UploadHandler)
		}
	})

	return r
}
