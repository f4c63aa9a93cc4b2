package gateway

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/errors"
	"github.com/DeBrosOfficial/social/pkg/gateway/ctxkeys"
	"github.com/DeBrosOfficial/social/pkg/httputil"
	"github.com/DeBrosOfficial/social/pkg/logging"
)

// loggingMiddleware logs basic request info and duration
func (g *Gateway) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(srw, r)
		g.logger.ComponentInfo(logging.ComponentGateway, "request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", srw.status),
			zap.Int("bytes", srw.bytes),
			zap.String("duration", time.Since(start).String()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// authMiddleware resolves a bearer session into the request context. It
// never rejects: a missing or invalid token leaves the request anonymous,
// and requireAuth decides whether that is acceptable.
func (g *Gateway) authMiddleware(next http.Handler) http.Handler {
	sessions := g.deps.AuthService.Sessions()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := httputil.ExtractBearerToken(r)
		if tok == "" || !httputil.IsJWT(tok) {
			next.ServeHTTP(w, r)
			return
		}
		addr, ok := sessions.Resolve(tok)
		if !ok {
			g.logger.ComponentDebug(logging.ComponentAuth, "Ignoring invalid bearer token",
				zap.String("path", r.URL.Path))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithAddress(r.Context(), addr)))
	})
}

// requireAuth rejects anonymous requests with 401.
func (g *Gateway) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.AddressFrom(r.Context()) == "" {
			httputil.WriteError(w, r, errors.NewUnauthorizedError("a valid bearer token is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware answers preflights and tags responses for the configured
// origins. An empty list or "*" allows any origin.
func (g *Gateway) corsMiddleware(next http.Handler) http.Handler {
	origins := g.cfg.Server.CORSOrigins
	allowAll := len(origins) == 0
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "":
			w.Header().Add("Vary", "Origin")
			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "WWW-Authenticate")
		w.Header().Set("Access-Control-Max-Age", strconv.Itoa(600))
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
