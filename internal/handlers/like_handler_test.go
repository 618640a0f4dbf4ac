package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func likeRequest(t *testing.T, handler *LikeHandler, action, postID, userID string) {
	t.Helper()
	c, _ := newTestContext(http.MethodPut, "/", "", nil)
	c.SetParamNames("id", "userId")
	c.SetParamValues(postID, userID)

	var err error
	if action == "like" {
		err = handler.LikePost(c)
	} else {
		err = handler.UnlikePost(c)
	}
	require.NoError(t, err)
}

func TestLikePost(t *testing.T) {
	posts := newFakePostRepo()
	notifier := &fakeNotifier{}
	post := posts.addPost("owner-1", "Go generics")
	handler := NewLikeHandler(posts, notifier)

	likeRequest(t, handler, "like", post.ID.Hex(), "liker-1")

	stored, err := posts.GetPostByID(nil, post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{"liker-1"}, stored.Likes)
	assert.Equal(t, []string{"owner-1:liker-1:" + post.ID.Hex()}, notifier.likes)
}

func TestLikePostIdempotent(t *testing.T) {
	posts := newFakePostRepo()
	notifier := &fakeNotifier{}
	post := posts.addPost("owner-1", "Go generics")
	handler := NewLikeHandler(posts, notifier)

	likeRequest(t, handler, "like", post.ID.Hex(), "liker-1")
	likeRequest(t, handler, "like", post.ID.Hex(), "liker-1")

	stored, err := posts.GetPostByID(nil, post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{"liker-1"}, stored.Likes)
	// The repeated like produces no second notification
	assert.Len(t, notifier.likes, 1)
}

func TestSelfLikeDoesNotNotify(t *testing.T) {
	posts := newFakePostRepo()
	notifier := &fakeNotifier{}
	post := posts.addPost("owner-1", "Go generics")
	handler := NewLikeHandler(posts, notifier)

	likeRequest(t, handler, "like", post.ID.Hex(), "owner-1")

	stored, err := posts.GetPostByID(nil, post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{"owner-1"}, stored.Likes)
	assert.Empty(t, notifier.likes)
}

func TestUnlikePost(t *testing.T) {
	posts := newFakePostRepo()
	notifier := &fakeNotifier{}
	post := posts.addPost("owner-1", "Go generics")
	handler := NewLikeHandler(posts, notifier)

	likeRequest(t, handler, "like", post.ID.Hex(), "liker-1")
	likeRequest(t, handler, "unlike", post.ID.Hex(), "liker-1")

	stored, err := posts.GetPostByID(nil, post.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, stored.Likes)
	assert.Equal(t, []string{"owner-1:liker-1:" + post.ID.Hex()}, notifier.unlikes)
}

func TestUnlikeWithoutLikeIsNoOp(t *testing.T) {
	posts := newFakePostRepo()
	notifier := &fakeNotifier{}
	post := posts.addPost("owner-1", "Go generics")
	handler := NewLikeHandler(posts, notifier)

	likeRequest(t, handler, "unlike", post.ID.Hex(), "liker-1")

	stored, err := posts.GetPostByID(nil, post.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, stored.Likes)
	assert.Empty(t, notifier.unlikes)
}
