package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/skilly-social/backend/internal/models"
	"github.com/skilly-social/backend/internal/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

type fakeProvider struct {
	profile     *oauth.Profile
	exchangeErr error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Exchange(_ context.Context, _ string) (*oauth2.Token, error) {
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return &oauth2.Token{AccessToken: "access"}, nil
}

func (p *fakeProvider) FetchProfile(_ context.Context, _ *oauth2.Token) (*oauth.Profile, error) {
	return p.profile, nil
}

func registeredUser(t *testing.T, repo *fakeUserRepo, username, password string) *models.User {
	t.Helper()
	user := repo.addUser(username)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user.Password = string(hash)
	return user
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	registeredUser(t, repo, "alice", "hunter2hunter2")
	handler := NewAuthHandler(repo, nil, "secret")

	c, rec := newTestContext(http.MethodPost, "/", echo.MIMEApplicationJSON,
		strings.NewReader(`{"email":"alice@example.com","password":"hunter2hunter2"}`))

	require.NoError(t, handler.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "token")
	assert.Contains(t, body, "user")
	// The password hash is never serialized
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	registeredUser(t, repo, "alice", "hunter2hunter2")
	handler := NewAuthHandler(repo, nil, "secret")

	c, _ := newTestContext(http.MethodPost, "/", echo.MIMEApplicationJSON,
		strings.NewReader(`{"email":"alice@example.com","password":"wrong-password"}`))

	err := handler.Login(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "Invalid email or password", httpErr.Message)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	handler := NewAuthHandler(repo, nil, "secret")

	c, _ := newTestContext(http.MethodPost, "/", echo.MIMEApplicationJSON,
		strings.NewReader(`{"email":"nobody@example.com","password":"whatever1"}`))

	err := handler.Login(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestOAuthLoginCreatesAccount(t *testing.T) {
	repo := newFakeUserRepo()
	provider := &fakeProvider{profile: &oauth.Profile{
		Email: "octo@example.com", Name: "octocat", PictureURL: "https://avatars.example.com/octocat",
	}}
	handler := NewAuthHandler(repo, map[string]oauth.Provider{"github": provider}, "secret")

	c, rec := newTestContext(http.MethodPost, "/", echo.MIMEApplicationJSON,
		strings.NewReader(`{"code":"fresh-code"}`))

	require.NoError(t, handler.OAuthLogin("github")(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	created, err := repo.GetUserByEmail(nil, "octo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "octocat", created.Username)
	assert.Equal(t, "USER", created.Role)
	assert.Empty(t, created.Password)
}

func TestOAuthLoginReusedExistingAccount(t *testing.T) {
	repo := newFakeUserRepo()
	existing := repo.addUser("octocat")
	existing.Email = "octo@example.com"
	provider := &fakeProvider{profile: &oauth.Profile{Email: "octo@example.com", Name: "renamed"}}
	handler := NewAuthHandler(repo, map[string]oauth.Provider{"github": provider}, "secret")

	c, rec := newTestContext(http.MethodPost, "/", echo.MIMEApplicationJSON,
		strings.NewReader(`{"code":"fresh-code"}`))

	require.NoError(t, handler.OAuthLogin("github")(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	users, err := repo.GetUsers(nil)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "octocat", users[0].Username)
}

func TestOAuthLoginRejectsReplayedCode(t *testing.T) {
	repo := newFakeUserRepo()
	provider := &fakeProvider{profile: &oauth.Profile{Email: "octo@example.com", Name: "octocat"}}
	handler := NewAuthHandler(repo, map[string]oauth.Provider{"github": provider}, "secret")

	login := func() (*httptest.ResponseRecorder, error) {
		c, rec := newTestContext(http.MethodPost, "/", echo.MIMEApplicationJSON,
			strings.NewReader(`{"code":"same-code"}`))
		return rec, handler.OAuthLogin("github")(c)
	}

	_, err := login()
	require.NoError(t, err)

	rec, err := login()
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "code_already_used")
}

func TestOAuthLoginUnconfiguredProvider(t *testing.T) {
	handler := NewAuthHandler(newFakeUserRepo(), map[string]oauth.Provider{}, "secret")

	c, _ := newTestContext(http.MethodPost, "/", echo.MIMEApplicationJSON,
		strings.NewReader(`{"code":"whatever"}`))

	err := handler.OAuthLogin("google")(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Code)
}

func TestUserDetails(t *testing.T) {
	repo := newFakeUserRepo()
	registeredUser(t, repo, "alice", "hunter2hunter2")
	handler := NewAuthHandler(repo, nil, "secret")

	// Log in to get a token
	c, rec := newTestContext(http.MethodPost, "/", echo.MIMEApplicationJSON,
		strings.NewReader(`{"email":"alice@example.com","password":"hunter2hunter2"}`))
	require.NoError(t, handler.Login(c))
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	var token string
	require.NoError(t, json.Unmarshal(body["token"], &token))

	c, rec = newTestContext(http.MethodGet, "/", "", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	require.NoError(t, handler.UserDetails(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "userId")
	assert.Contains(t, rec.Body.String(), `"userRole":"USER"`)
}

func TestUserDetailsMissingToken(t *testing.T) {
	handler := NewAuthHandler(newFakeUserRepo(), nil, "secret")

	c, _ := newTestContext(http.MethodGet, "/", "", nil)
	err := handler.UserDetails(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
