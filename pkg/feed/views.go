package feed

import (
	"context"

	"github.com/DeBrosOfficial/social/pkg/social"
)

// CommentView is a comment with its author's display fields.
type CommentView struct {
	social.Comment
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

// Comments returns a post's thread oldest first, or not found when the post
// does not exist.
func (a *Aggregator) Comments(ctx context.Context, postID int64) ([]CommentView, error) {
	comments, err := a.content.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(comments))
	authors := make([]string, 0, len(comments))
	for _, c := range comments {
		if _, ok := seen[c.Author]; !ok {
			seen[c.Author] = struct{}{}
			authors = append(authors, c.Author)
		}
	}
	profiles, err := a.identities.Lookup(ctx, authors)
	if err != nil {
		return nil, err
	}

	out := make([]CommentView, len(comments))
	for i, c := range comments {
		p := profiles[c.Author]
		out[i] = CommentView{
			Comment:     c,
			DisplayName: DisplayName(c.Author, p.Username),
			AvatarURL:   p.AvatarURL,
		}
	}
	return out, nil
}

// ProfileView is an address's public page.
type ProfileView struct {
	social.Identity
	DisplayName    string `json:"display_name"`
	PostCount      int    `json:"post_count"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
	// IsFollowing is nil for anonymous reads.
	IsFollowing *bool `json:"is_following,omitempty"`
}

// Profile assembles target's page. Addresses that never signed in still get
// a page with their counts.
func (a *Aggregator) Profile(ctx context.Context, target, viewer string) (ProfileView, error) {
	id, err := a.identities.Get(ctx, target)
	if err != nil {
		return ProfileView{}, err
	}
	view := ProfileView{Identity: id, DisplayName: DisplayName(target, id.Username)}

	if view.PostCount, err = a.content.PostCount(ctx, target); err != nil {
		return ProfileView{}, err
	}
	if view.FollowerCount, err = a.graph.FollowerCount(ctx, target); err != nil {
		return ProfileView{}, err
	}
	if view.FollowingCount, err = a.graph.FollowingCount(ctx, target); err != nil {
		return ProfileView{}, err
	}
	if viewer != "" {
		following, err := a.graph.IsFollowing(ctx, viewer, target)
		if err != nil {
			return ProfileView{}, err
		}
		view.IsFollowing = &following
	}
	return view, nil
}
