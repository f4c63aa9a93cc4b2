// Package feed composes the social stores into viewer-aware read models:
// the global feed, a user's posts, a post's comment thread and profile pages.
package feed

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/database"
	"github.com/DeBrosOfficial/social/pkg/errors"
	"github.com/DeBrosOfficial/social/pkg/httputil"
	"github.com/DeBrosOfficial/social/pkg/logging"
	"github.com/DeBrosOfficial/social/pkg/social"
)

// DefaultMaxItems bounds a feed page when no limit is configured.
const DefaultMaxItems = 200

// FeedPost is a post denormalized with its author and derived counts.
type FeedPost struct {
	ID           int64              `db:"id" json:"id"`
	Author       string             `db:"author" json:"author"`
	MediaURL     string             `db:"media_url" json:"media_url"`
	MediaType    string             `db:"media_type" json:"media_type"`
	Caption      *string            `db:"caption" json:"caption"`
	CreatedAt    database.Timestamp `db:"created_at" json:"created_at"`
	Username     *string            `db:"username" json:"username"`
	AvatarURL    *string            `db:"avatar_url" json:"avatar_url"`
	LikeCount    int                `db:"like_count" json:"like_count"`
	CommentCount int                `db:"comment_count" json:"comment_count"`

	DisplayName string `db:"-" json:"display_name"`
	// LikedByViewer is nil for anonymous reads.
	LikedByViewer *bool `db:"-" json:"liked_by_viewer,omitempty"`
}

// Deps are the collaborators an Aggregator reads through.
type Deps struct {
	DB         database.Database
	Identities *social.IdentityStore
	Content    *social.ContentStore
	Graph      *social.GraphStore
	MaxItems   int
	Logger     *logging.ColoredLogger
}

// Aggregator builds read models. It holds no state of its own.
type Aggregator struct {
	db         database.Database
	identities *social.IdentityStore
	content    *social.ContentStore
	graph      *social.GraphStore
	maxItems   int
	logger     *logging.ColoredLogger
}

// NewAggregator creates an Aggregator.
func NewAggregator(d Deps) *Aggregator {
	if d.MaxItems <= 0 {
		d.MaxItems = DefaultMaxItems
	}
	if d.Logger == nil {
		d.Logger = logging.NewNop()
	}
	return &Aggregator{
		db:         d.DB,
		identities: d.Identities,
		content:    d.Content,
		graph:      d.Graph,
		maxItems:   d.MaxItems,
		logger:     d.Logger,
	}
}

// MaxItems is the upper bound applied to every page.
func (a *Aggregator) MaxItems() int { return a.maxItems }

const feedSelect = `
	SELECT p.id, p.author, p.media_url, p.media_type, p.caption, p.created_at,
		i.username, i.avatar_url,
		(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
	FROM posts p
	LEFT JOIN identities i ON i.address = p.author`

// Feed returns the most recent posts, newest first. limit is clamped to the
// configured maximum. When viewer is empty no post carries LikedByViewer.
func (a *Aggregator) Feed(ctx context.Context, viewer string, limit int) ([]FeedPost, error) {
	start := time.Now()
	limit = httputil.ClampLimit(limit, a.maxItems)

	posts := []FeedPost{}
	if err := a.db.Query(ctx, &posts,
		feedSelect+` ORDER BY p.created_at DESC, p.id DESC LIMIT ?`, limit); err != nil {
		return nil, errors.NewDatabaseError("feed", err)
	}
	if err := a.enrich(ctx, posts, viewer); err != nil {
		return nil, err
	}

	a.logger.ComponentDebug(logging.ComponentFeed, "Feed built",
		zap.Int("posts", len(posts)),
		zap.Bool("viewer", viewer != ""),
		zap.Duration("took", time.Since(start)),
	)
	return posts, nil
}

// UserPosts is Feed restricted to one author.
func (a *Aggregator) UserPosts(ctx context.Context, author, viewer string, limit int) ([]FeedPost, error) {
	limit = httputil.ClampLimit(limit, a.maxItems)

	posts := []FeedPost{}
	if err := a.db.Query(ctx, &posts,
		feedSelect+` WHERE p.author = ? ORDER BY p.created_at DESC, p.id DESC LIMIT ?`, author, limit); err != nil {
		return nil, errors.NewDatabaseError("user posts", err)
	}
	if err := a.enrich(ctx, posts, viewer); err != nil {
		return nil, err
	}
	return posts, nil
}

// enrich fills display names and, for a known viewer, the liked flag from a
// single lookup of the viewer's likes.
func (a *Aggregator) enrich(ctx context.Context, posts []FeedPost, viewer string) error {
	var liked map[int64]struct{}
	if viewer != "" && len(posts) > 0 {
		var err error
		if liked, err = a.content.LikedPostIDs(ctx, viewer); err != nil {
			return err
		}
	}
	for i := range posts {
		p := &posts[i]
		p.DisplayName = DisplayName(p.Author, p.Username)
		if viewer != "" {
			_, ok := liked[p.ID]
			p.LikedByViewer = &ok
		}
	}
	return nil
}

// DisplayName is the username when set, else the shortened address.
func DisplayName(address string, username *string) string {
	if username != nil && *username != "" {
		return *username
	}
	return httputil.ShortAddress(address)
}
