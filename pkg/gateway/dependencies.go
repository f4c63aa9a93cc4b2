package gateway

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/config"
	"github.com/DeBrosOfficial/social/pkg/database"
	"github.com/DeBrosOfficial/social/pkg/feed"
	"github.com/DeBrosOfficial/social/pkg/gateway/auth"
	"github.com/DeBrosOfficial/social/pkg/logging"
	"github.com/DeBrosOfficial/social/pkg/media"
	"github.com/DeBrosOfficial/social/pkg/metrics"
	"github.com/DeBrosOfficial/social/pkg/social"
)

// Dependencies holds every store and service the Gateway routes to.
type Dependencies struct {
	DB *database.Client

	Identities *social.IdentityStore
	Content    *social.ContentStore
	Graph      *social.GraphStore
	Feed       *feed.Aggregator

	AuthService *auth.Service

	// Presigner is nil when media uploads are disabled.
	Presigner *media.Presigner

	// Metrics is nil when the prometheus endpoint is disabled.
	Metrics *metrics.Metrics
}

// NewDependencies opens the store, applies migrations when configured, loads
// the signing key and builds the services on top.
func NewDependencies(ctx context.Context, logger *logging.ColoredLogger, cfg *config.Config) (*Dependencies, error) {
	logger.ComponentInfo(logging.ComponentDatabase, "Opening database...",
		zap.String("driver", cfg.Database.Driver),
	)
	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(db, cfg.Database.DSN, logger); err != nil {
			db.Close()
			return nil, err
		}
	}

	key, err := loadOrGenerateKey(logger, cfg.Auth.SigningKeyPath)
	if err != nil {
		db.Close()
		return nil, err
	}

	deps, err := BuildDependencies(logger, cfg, db, key, time.Now)
	if err != nil {
		db.Close()
		return nil, err
	}
	return deps, nil
}

// BuildDependencies wires services over an already opened database.
func BuildDependencies(logger *logging.ColoredLogger, cfg *config.Config, db *database.Client, key *rsa.PrivateKey, now func() time.Time) (*Dependencies, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	opts := []social.Option{social.WithLogger(logger), social.WithClock(now)}
	deps := &Dependencies{
		DB:         db,
		Identities: social.NewIdentityStore(db, opts...),
		Content:    social.NewContentStore(db, opts...),
		Graph:      social.NewGraphStore(db, opts...),
	}
	deps.Feed = feed.NewAggregator(feed.Deps{
		DB:         db,
		Identities: deps.Identities,
		Content:    deps.Content,
		Graph:      deps.Graph,
		MaxItems:   cfg.Feed.MaxItems,
		Logger:     logger,
	})

	sessions, err := auth.NewSessionManager(auth.SessionConfig{
		Key:      key,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		TTL:      cfg.Auth.SessionTTL,
		Now:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("session manager: %w", err)
	}
	nonces := auth.NewNonceStore(db, cfg.Auth.AppName, cfg.Auth.NonceTTL, now)
	deps.AuthService = auth.NewService(logger, sessions, nonces, deps.Identities, cfg.Auth.RequireServerNonce)

	if cfg.Media.Enabled {
		deps.Presigner, err = media.NewPresigner(cfg.Media, logger)
		if err != nil {
			return nil, fmt.Errorf("media presigner: %w", err)
		}
		logger.ComponentInfo(logging.ComponentStorage, "Media uploads enabled",
			zap.String("bucket", cfg.Media.Bucket),
			zap.String("endpoint", cfg.Media.Endpoint),
		)
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New()
	}
	return deps, nil
}

func loadOrGenerateKey(logger *logging.ColoredLogger, path string) (*rsa.PrivateKey, error) {
	if path != "" {
		key, err := auth.LoadSigningKey(path)
		if err != nil {
			return nil, err
		}
		logger.ComponentInfo(logging.ComponentAuth, "Signing key loaded",
			zap.String("path", path),
			zap.String("kid", auth.KeyID(&key.PublicKey)),
		)
		return key, nil
	}

	logger.ComponentWarn(logging.ComponentAuth, "No signing key configured; generating an ephemeral key. Sessions will not survive a restart")
	key, err := auth.GenerateSigningKey()
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return key, nil
}
