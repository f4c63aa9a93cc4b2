package gateway

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/net/netutil"

	"github.com/DeBrosOfficial/social/pkg/logging"
)

const (
	letsEncryptStaging = "https://acme-staging-v02.api.letsencrypt.org/directory"
	shutdownTimeout    = 10 * time.Second
)

// Serve listens until ctx is cancelled, then shuts down gracefully. With
// HTTPS enabled it serves TLS on :443 using Let's Encrypt and answers ACME
// challenges and redirects on :80.
func (g *Gateway) Serve(ctx context.Context) error {
	errCh := make(chan error, 2)

	if g.cfg.Server.HTTPS.Enabled {
		if err := g.startHTTPS(errCh); err != nil {
			return err
		}
	} else {
		ln, err := g.listen(g.cfg.Server.ListenAddr)
		if err != nil {
			return err
		}
		srv := g.newServer(g.handler)
		g.servers = append(g.servers, srv)
		g.logger.ComponentInfo(logging.ComponentGateway, "Gateway HTTP server starting",
			zap.String("addr", ln.Addr().String()),
			zap.Int("max_connections", g.cfg.Server.MaxConnections),
		)
		go func() { errCh <- srv.Serve(ln) }()
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			g.logger.ComponentError(logging.ComponentGateway, "HTTP server error", zap.Error(err))
			_ = g.Shutdown()
			return err
		}
	}
	return g.Shutdown()
}

func (g *Gateway) listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if n := g.cfg.Server.MaxConnections; n > 0 {
		ln = netutil.LimitListener(ln, n)
	}
	return ln, nil
}

func (g *Gateway) newServer(h http.Handler) *http.Server {
	return &http.Server{
		Handler:           h,
		ReadTimeout:       g.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      g.cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}
}

func (g *Gateway) startHTTPS(errCh chan<- error) error {
	https := g.cfg.Server.HTTPS

	directoryURL := acme.LetsEncryptURL
	if os.Getenv("SOCIAL_ACME_STAGING") != "" {
		directoryURL = letsEncryptStaging
		g.logger.ComponentWarn(logging.ComponentGateway,
			"Using Let's Encrypt STAGING - certificates will not be trusted by production clients",
			zap.String("domain", https.Domain),
		)
	}
	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(https.Domain),
		Cache:      autocert.DirCache(https.CacheDir),
		Email:      https.Email,
		Client:     &acme.Client{DirectoryURL: directoryURL},
	}

	httpLn, err := g.listen(":80")
	if err != nil {
		return err
	}
	tcpLn, err := g.listen(":443")
	if err != nil {
		httpLn.Close()
		return err
	}
	tlsConfig := &tls.Config{
		MinVersion:     tls.VersionTLS12,
		GetCertificate: manager.GetCertificate,
		NextProtos:     []string{"h2", "http/1.1", acme.ALPNProto},
	}

	redirect := g.newServer(manager.HTTPHandler(http.HandlerFunc(redirectToHTTPS)))
	secure := g.newServer(g.handler)
	secure.TLSConfig = tlsConfig
	g.servers = append(g.servers, redirect, secure)

	g.logger.ComponentInfo(logging.ComponentGateway, "HTTPS Gateway starting",
		zap.String("domain", https.Domain),
		zap.String("cache_dir", https.CacheDir),
	)
	go func() { errCh <- redirect.Serve(httpLn) }()
	go func() { errCh <- secure.Serve(tls.NewListener(tcpLn, tlsConfig)) }()
	return nil
}

func redirectToHTTPS(w http.ResponseWriter, r *http.Request) {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	target := "https://" + strings.TrimSuffix(host, ".") + r.URL.RequestURI()
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

// Shutdown stops every server, waiting up to 10s for in-flight requests.
func (g *Gateway) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	g.logger.ComponentInfo(logging.ComponentGateway, "Gateway shutting down")
	var errs []error
	for _, srv := range g.servers {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	g.servers = nil
	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	g.logger.ComponentInfo(logging.ComponentGateway, "Gateway shutdown complete")
	return nil
}
