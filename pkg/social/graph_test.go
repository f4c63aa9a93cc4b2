package social

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeBrosOfficial/social/pkg/errors"
)

func TestFollowRejectsSelfBeforeWriting(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()

	_, err := s.graph.Follow(ctx, alice, "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	require.Error(t, err)
	assert.Equal(t, errors.ReasonSelfFollow, errors.ReasonOf(err))

	var n int
	require.NoError(t, s.db.QueryOne(ctx, &n, `SELECT COUNT(*) FROM follows`))
	assert.Zero(t, n)
}

func TestFollowValidatesTarget(t *testing.T) {
	s := newStores(t)
	for _, target := range []string{"", "bob", "0x123"} {
		_, err := s.graph.Follow(context.Background(), alice, target)
		assert.Equal(t, errors.ReasonInvalidAddress, errors.ReasonOf(err), "target %q", target)
	}
}

func TestFollowUnfollowRestoresCounts(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()

	before, err := s.graph.FollowerCount(ctx, bob)
	require.NoError(t, err)

	res, err := s.graph.Follow(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, FollowResult{Following: true, FollowerCount: before + 1}, res)

	// idempotent
	res, err = s.graph.Follow(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, before+1, res.FollowerCount)

	following, err := s.graph.IsFollowing(ctx, alice, bob)
	require.NoError(t, err)
	assert.True(t, following)

	reverse, err := s.graph.IsFollowing(ctx, bob, alice)
	require.NoError(t, err)
	assert.False(t, reverse, "edges are directed")

	res, err = s.graph.Unfollow(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, FollowResult{Following: false, FollowerCount: before}, res)

	res, err = s.graph.Unfollow(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, before, res.FollowerCount)
}

func TestFollowerLists(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()

	_, err := s.graph.Follow(ctx, alice, carol)
	require.NoError(t, err)
	_, err = s.graph.Follow(ctx, bob, carol)
	require.NoError(t, err)
	_, err = s.graph.Follow(ctx, carol, alice)
	require.NoError(t, err)

	followers, err := s.graph.Followers(ctx, carol, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{bob, alice}, followers, "newest first")

	limited, err := s.graph.Followers(ctx, carol, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{bob}, limited)

	following, err := s.graph.Following(ctx, carol, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{alice}, following)

	n, err := s.graph.FollowingCount(ctx, carol)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	none, err := s.graph.Followers(ctx, bob, 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
