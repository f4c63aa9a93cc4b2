package social

import (
	"context"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/database"
	"github.com/DeBrosOfficial/social/pkg/errors"
	"github.com/DeBrosOfficial/social/pkg/httputil"
	"github.com/DeBrosOfficial/social/pkg/logging"
)

// FollowResult is the edge state after a follow or unfollow.
type FollowResult struct {
	Following     bool `json:"following"`
	FollowerCount int  `json:"follower_count"`
}

// GraphStore manages directed follow edges. Either end may be an address
// with no identity row.
type GraphStore struct {
	db database.Database
	options
}

// NewGraphStore creates a GraphStore.
func NewGraphStore(db database.Database, opts ...Option) *GraphStore {
	return &GraphStore{db: db, options: buildOptions(opts)}
}

func normalizeTarget(follower, target string) (string, error) {
	addr, ok := httputil.NormalizeAddress(target)
	if !ok {
		return "", errors.NewValidationError("address", errors.ReasonInvalidAddress, "a valid target address is required")
	}
	if addr == follower {
		return "", errors.NewValidationError("address", errors.ReasonSelfFollow, "cannot follow yourself")
	}
	return addr, nil
}

// Follow records follower -> target. Following twice is a no-op.
func (s *GraphStore) Follow(ctx context.Context, follower, target string) (FollowResult, error) {
	addr, err := normalizeTarget(follower, target)
	if err != nil {
		return FollowResult{}, err
	}
	if _, err := s.db.Exec(ctx,
		`INSERT INTO follows (follower, following, created_at) VALUES (?, ?, ?) ON CONFLICT(follower, following) DO NOTHING`,
		follower, addr, s.stamp(),
	); err != nil {
		return FollowResult{}, errors.NewDatabaseError("follow", err)
	}
	s.logger.ComponentDebug(logging.ComponentDatabase, "Follow recorded", zap.String("follower", follower), zap.String("following", addr))

	count, err := s.FollowerCount(ctx, addr)
	if err != nil {
		return FollowResult{}, err
	}
	return FollowResult{Following: true, FollowerCount: count}, nil
}

// Unfollow removes follower -> target if present.
func (s *GraphStore) Unfollow(ctx context.Context, follower, target string) (FollowResult, error) {
	addr, err := normalizeTarget(follower, target)
	if err != nil {
		return FollowResult{}, err
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM follows WHERE follower = ? AND following = ?`, follower, addr); err != nil {
		return FollowResult{}, errors.NewDatabaseError("unfollow", err)
	}
	count, err := s.FollowerCount(ctx, addr)
	if err != nil {
		return FollowResult{}, err
	}
	return FollowResult{Following: false, FollowerCount: count}, nil
}

// IsFollowing reports whether follower currently follows target.
func (s *GraphStore) IsFollowing(ctx context.Context, follower, target string) (bool, error) {
	var n int
	if err := s.db.QueryOne(ctx, &n,
		`SELECT COUNT(*) FROM follows WHERE follower = ? AND following = ?`, follower, target); err != nil {
		return false, errors.NewDatabaseError("is following", err)
	}
	return n > 0, nil
}

// FollowerCount counts addresses following address.
func (s *GraphStore) FollowerCount(ctx context.Context, address string) (int, error) {
	var n int
	if err := s.db.QueryOne(ctx, &n, `SELECT COUNT(*) FROM follows WHERE following = ?`, address); err != nil {
		return 0, errors.NewDatabaseError("follower count", err)
	}
	return n, nil
}

// FollowingCount counts addresses address follows.
func (s *GraphStore) FollowingCount(ctx context.Context, address string) (int, error) {
	var n int
	if err := s.db.QueryOne(ctx, &n, `SELECT COUNT(*) FROM follows WHERE follower = ?`, address); err != nil {
		return 0, errors.NewDatabaseError("following count", err)
	}
	return n, nil
}

// Followers lists up to limit addresses following address, newest first.
func (s *GraphStore) Followers(ctx context.Context, address string, limit int) ([]string, error) {
	out := []string{}
	if err := s.db.Query(ctx, &out,
		`SELECT follower FROM follows WHERE following = ? ORDER BY created_at DESC, follower ASC LIMIT ?`,
		address, limit,
	); err != nil {
		return nil, errors.NewDatabaseError("followers", err)
	}
	return out, nil
}

// Following lists up to limit addresses address follows, newest first.
func (s *GraphStore) Following(ctx context.Context, address string, limit int) ([]string, error) {
	out := []string{}
	if err := s.db.Query(ctx, &out,
		`SELECT following FROM follows WHERE follower = ? ORDER BY created_at DESC, following ASC LIMIT ?`,
		address, limit,
	); err != nil {
		return nil, errors.NewDatabaseError("following", err)
	}
	return out, nil
}
