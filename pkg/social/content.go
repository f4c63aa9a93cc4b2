package social

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/database"
	"github.com/DeBrosOfficial/social/pkg/errors"
	"github.com/DeBrosOfficial/social/pkg/logging"
)

// Media kinds a post may carry.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// Post is a published media item.
type Post struct {
	ID        int64              `db:"id" json:"id"`
	Author    string             `db:"author" json:"author"`
	MediaURL  string             `db:"media_url" json:"media_url"`
	MediaType string             `db:"media_type" json:"media_type"`
	Caption   *string            `db:"caption" json:"caption"`
	CreatedAt database.Timestamp `db:"created_at" json:"created_at"`
}

// NewPost is the input to CreatePost.
type NewPost struct {
	MediaURL  string `json:"media_url"`
	MediaType string `json:"media_type"`
	Caption   string `json:"caption"`
}

// Comment belongs to exactly one post.
type Comment struct {
	ID        int64              `db:"id" json:"id"`
	PostID    int64              `db:"post_id" json:"post_id"`
	Author    string             `db:"author" json:"author"`
	Content   string             `db:"content" json:"content"`
	CreatedAt database.Timestamp `db:"created_at" json:"created_at"`
}

// LikeResult is the state after a toggle.
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// ContentStore manages posts, likes and comments.
type ContentStore struct {
	db database.Database
	options
}

// NewContentStore creates a ContentStore.
func NewContentStore(db database.Database, opts ...Option) *ContentStore {
	return &ContentStore{db: db, options: buildOptions(opts)}
}

func postNotFound(id int64) error {
	return errors.NewNotFoundError("post", strconv.FormatInt(id, 10))
}

// CreatePost publishes a post by author. MediaType defaults to image.
func (s *ContentStore) CreatePost(ctx context.Context, author string, in NewPost) (Post, error) {
	if author == "" {
		return Post{}, errors.NewUnauthorizedError("")
	}
	mediaURL := strings.TrimSpace(in.MediaURL)
	if mediaURL == "" {
		return Post{}, errors.NewValidationError("media_url", errors.ReasonMediaURLRequired, "media_url is required")
	}
	mediaType := strings.ToLower(strings.TrimSpace(in.MediaType))
	switch mediaType {
	case "":
		mediaType = MediaImage
	case MediaImage, MediaVideo:
	default:
		return Post{}, errors.NewValidationError("media_type", errors.ReasonInvalidMediaType, "media_type must be image or video")
	}

	post := Post{
		Author:    author,
		MediaURL:  mediaURL,
		MediaType: mediaType,
		CreatedAt: s.stamp(),
	}
	if c := strings.TrimSpace(in.Caption); c != "" {
		post.Caption = &c
	}

	res, err := s.db.Exec(ctx,
		`INSERT INTO posts (author, media_url, media_type, caption, created_at) VALUES (?, ?, ?, ?, ?)`,
		post.Author, post.MediaURL, post.MediaType, post.Caption, post.CreatedAt,
	)
	if err != nil {
		return Post{}, errors.NewDatabaseError("create post", err)
	}
	if post.ID, err = res.LastInsertId(); err != nil {
		return Post{}, errors.NewDatabaseError("create post", err)
	}
	s.logger.ComponentDebug(logging.ComponentDatabase, "Post created", zap.Int64("id", post.ID), zap.String("author", author))
	return post, nil
}

// GetPost returns a single post.
func (s *ContentStore) GetPost(ctx context.Context, id int64) (Post, error) {
	var p Post
	err := s.db.QueryOne(ctx, &p,
		`SELECT id, author, media_url, media_type, caption, created_at FROM posts WHERE id = ?`, id)
	if database.IsNoRows(err) {
		return Post{}, postNotFound(id)
	}
	if err != nil {
		return Post{}, errors.NewDatabaseError("get post", err)
	}
	return p, nil
}

// PostExists reports whether a post with id exists.
func (s *ContentStore) PostExists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := s.db.QueryOne(ctx, &n, `SELECT COUNT(*) FROM posts WHERE id = ?`, id); err != nil {
		return false, errors.NewDatabaseError("post exists", err)
	}
	return n > 0, nil
}

// DeletePost removes a post owned by requester. Likes and comments go with
// it through ON DELETE CASCADE.
func (s *ContentStore) DeletePost(ctx context.Context, requester string, id int64) error {
	res, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id = ? AND author = ?`, id, requester)
	if err != nil {
		return errors.NewDatabaseError("delete post", err)
	}
	if database.RowsAffected(res) == 1 {
		s.logger.ComponentInfo(logging.ComponentDatabase, "Post deleted", zap.Int64("id", id), zap.String("author", requester))
		return nil
	}

	exists, err := s.PostExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return postNotFound(id)
	}
	return errors.NewForbiddenError("post", "delete")
}

// ToggleLike flips address's like on a post. A concurrent twin toggle that
// loses the insert race observes the like its twin created and reports
// liked; exactly one row results.
func (s *ContentStore) ToggleLike(ctx context.Context, address string, postID int64) (LikeResult, error) {
	res, err := s.db.Exec(ctx, `DELETE FROM likes WHERE post_id = ? AND address = ?`, postID, address)
	if err != nil {
		return LikeResult{}, errors.NewDatabaseError("unlike", err)
	}

	liked := false
	if database.RowsAffected(res) == 0 {
		res, err = s.db.Exec(ctx,
			`INSERT INTO likes (post_id, address, created_at) SELECT id, ?, ? FROM posts WHERE id = ?`,
			address, s.stamp(), postID,
		)
		switch {
		case database.IsUniqueViolation(err):
			s.logger.ComponentDebug(logging.ComponentDatabase, "Concurrent like collapsed", zap.Int64("post_id", postID), zap.String("address", address))
		case database.IsForeignKeyViolation(err):
			return LikeResult{}, postNotFound(postID)
		case err != nil:
			return LikeResult{}, errors.NewDatabaseError("like", err)
		case database.RowsAffected(res) == 0:
			return LikeResult{}, postNotFound(postID)
		}
		liked = true
	}

	count, err := s.LikeCount(ctx, postID)
	if err != nil {
		return LikeResult{}, err
	}
	return LikeResult{Liked: liked, LikeCount: count}, nil
}

// LikeCount counts live like rows for a post.
func (s *ContentStore) LikeCount(ctx context.Context, postID int64) (int, error) {
	var n int
	if err := s.db.QueryOne(ctx, &n, `SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID); err != nil {
		return 0, errors.NewDatabaseError("like count", err)
	}
	return n, nil
}

// HasLiked reports whether address currently likes postID.
func (s *ContentStore) HasLiked(ctx context.Context, address string, postID int64) (bool, error) {
	var n int
	if err := s.db.QueryOne(ctx, &n, `SELECT COUNT(*) FROM likes WHERE post_id = ? AND address = ?`, postID, address); err != nil {
		return false, errors.NewDatabaseError("has liked", err)
	}
	return n > 0, nil
}

// LikedPostIDs returns the full set of posts address likes, in one query.
func (s *ContentStore) LikedPostIDs(ctx context.Context, address string) (map[int64]struct{}, error) {
	var ids []int64
	if err := s.db.Query(ctx, &ids, `SELECT post_id FROM likes WHERE address = ?`, address); err != nil {
		return nil, errors.NewDatabaseError("liked posts", err)
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// AddComment appends a comment. The insert is conditioned on the post
// existing, so a comment racing a delete either lands before the cascade
// or fails as not found.
func (s *ContentStore) AddComment(ctx context.Context, author string, postID int64, content string) (Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Comment{}, errors.NewValidationError("content", errors.ReasonContentRequired, "content is required")
	}

	c := Comment{PostID: postID, Author: author, Content: content, CreatedAt: s.stamp()}
	res, err := s.db.Exec(ctx,
		`INSERT INTO comments (post_id, author, content, created_at) SELECT id, ?, ?, ? FROM posts WHERE id = ?`,
		c.Author, c.Content, c.CreatedAt, postID,
	)
	if database.IsForeignKeyViolation(err) {
		return Comment{}, postNotFound(postID)
	}
	if err != nil {
		return Comment{}, errors.NewDatabaseError("add comment", err)
	}
	if database.RowsAffected(res) == 0 {
		return Comment{}, postNotFound(postID)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return Comment{}, errors.NewDatabaseError("add comment", err)
	}
	return c, nil
}

// ListComments returns a post's comments oldest first. A missing post is
// not found, not an empty list.
func (s *ContentStore) ListComments(ctx context.Context, postID int64) ([]Comment, error) {
	exists, err := s.PostExists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, postNotFound(postID)
	}
	comments := []Comment{}
	if err := s.db.Query(ctx, &comments,
		`SELECT id, post_id, author, content, created_at FROM comments WHERE post_id = ? ORDER BY created_at ASC, id ASC`,
		postID,
	); err != nil {
		return nil, errors.NewDatabaseError("list comments", err)
	}
	return comments, nil
}

// CommentCount counts live comments for a post.
func (s *ContentStore) CommentCount(ctx context.Context, postID int64) (int, error) {
	var n int
	if err := s.db.QueryOne(ctx, &n, `SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID); err != nil {
		return 0, errors.NewDatabaseError("comment count", err)
	}
	return n, nil
}

// PostCount counts posts by author.
func (s *ContentStore) PostCount(ctx context.Context, author string) (int, error) {
	var n int
	if err := s.db.QueryOne(ctx, &n, `SELECT COUNT(*) FROM posts WHERE author = ?`, author); err != nil {
		return 0, errors.NewDatabaseError("post count", err)
	}
	return n, nil
}
