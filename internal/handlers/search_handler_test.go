package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchUsers(t *testing.T) {
	users := newFakeUserRepo()
	users.addUser("gopher_jane")
	users.addUser("gopher_joe")
	users.addUser("rustacean")
	handler := NewSearchHandler(users, newFakePostRepo())

	c, rec := newTestContext(http.MethodGet, "/?keyword=gopher", "", nil)
	require.NoError(t, handler.SearchUsers(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gopher_jane")
	assert.Contains(t, rec.Body.String(), "gopher_joe")
	assert.NotContains(t, rec.Body.String(), "rustacean")
}

func TestSearchPostsEnrichedWithAuthor(t *testing.T) {
	users := newFakeUserRepo()
	author := users.addUser("alice")
	author.ProfilePicUrl = "https://cdn.example.com/alice.png"

	posts := newFakePostRepo()
	posts.addPost(author.ID.Hex(), "Generics in Go")
	posts.addPost("vanished-user", "Generics deep dive")
	posts.addPost(author.ID.Hex(), "Unrelated")

	handler := NewSearchHandler(users, posts)

	c, rec := newTestContext(http.MethodGet, "/?keyword=generics", "", nil)
	require.NoError(t, handler.SearchPosts(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var results []PostSearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 2)

	byTitle := map[string]PostSearchResult{}
	for _, r := range results {
		byTitle[r.Post.Title] = r
	}

	assert.Equal(t, "alice", byTitle["Generics in Go"].Username)
	assert.Equal(t, "https://cdn.example.com/alice.png", byTitle["Generics in Go"].Avatar)
	// Posts whose author is gone still surface, flagged as unknown
	assert.Equal(t, "Unknown User", byTitle["Generics deep dive"].Username)
}

func TestSearchPostsNoMatches(t *testing.T) {
	handler := NewSearchHandler(newFakeUserRepo(), newFakePostRepo())

	c, rec := newTestContext(http.MethodGet, "/?keyword=nothing", "", nil)
	require.NoError(t, handler.SearchPosts(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
