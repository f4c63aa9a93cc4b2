package database

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rqlite/gorqlite"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/logging"
)

// rqliteReadyAttempts bounds how long Open waits for a cluster to answer.
const rqliteReadyAttempts = 30

// WaitForRQLite blocks until the rqlite node behind dsn answers /status and
// the cluster has a leader able to serve a query.
func WaitForRQLite(ctx context.Context, dsn string, logger *logging.ColoredLogger) error {
	u, err := url.Parse(dsn)
	if err != nil {
		return fmt.Errorf("invalid rqlite dsn: %w", err)
	}
	statusURL := fmt.Sprintf("%s://%s/status", u.Scheme, u.Host)
	client := &http.Client{Timeout: 2 * time.Second}

	ready := false
	for i := 0; i < rqliteReadyAttempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
		if err != nil {
			return err
		}
		if resp, err := client.Do(req); err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				ready = true
				break
			}
		}
		if err := sleepCtx(ctx, time.Second); err != nil {
			return err
		}
	}
	if !ready {
		return fmt.Errorf("rqlite at %s did not become ready", u.Host)
	}

	conn, err := gorqlite.Open(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to rqlite: %w", err)
	}
	defer conn.Close()

	logger.ComponentInfo(logging.ComponentDatabase, "Waiting for rqlite leadership", zap.String("host", u.Host))
	for i := 0; i < rqliteReadyAttempts; i++ {
		_, err := conn.QueryOne("SELECT 1")
		if err == nil {
			return nil
		}
		logger.ComponentDebug(logging.ComponentDatabase, "rqlite not serving yet", zap.Error(err))
		if err := sleepCtx(ctx, time.Second); err != nil {
			return err
		}
	}
	return fmt.Errorf("rqlite at %s has no leader", u.Host)
}

// NewRQLiteConnection opens a native gorqlite connection, used by the
// migration driver.
func NewRQLiteConnection(dsn string) (*gorqlite.Connection, error) {
	if !strings.HasPrefix(dsn, "http://") && !strings.HasPrefix(dsn, "https://") {
		return nil, fmt.Errorf("rqlite dsn must be an http(s) URL, got %q", dsn)
	}
	return gorqlite.Open(dsn)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
