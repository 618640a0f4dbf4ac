package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GithubProvider exchanges GitHub authorization codes and fetches the user
// profile from the GitHub REST API.
type GithubProvider struct {
	config  *oauth2.Config
	baseURL string // Overridable for tests
}

// NewGithubProvider creates a GithubProvider
func NewGithubProvider(clientID, clientSecret, redirectURL string) *GithubProvider {
	return &GithubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		baseURL: "https://api.github.com",
	}
}

func (p *GithubProvider) Name() string { return "github" }

// Exchange trades an authorization code for an access token
func (p *GithubProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("github returned an empty access token")
	}
	return token, nil
}

type githubUser struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email   string `json:"email"`
	Primary bool   `json:"primary"`
}

// FetchProfile fetches the GitHub user for an exchanged token. GitHub may
// withhold the account email, in which case the primary address from
// /user/emails is used, falling back to a synthesized placeholder.
func (p *GithubProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	client := p.config.Client(ctx, token)

	var user githubUser
	if err := p.getJSON(ctx, client, "/user", &user); err != nil {
		return nil, fmt.Errorf("failed to fetch github user: %w", err)
	}

	email := user.Email
	if email == "" {
		var emails []githubEmail
		if err := p.getJSON(ctx, client, "/user/emails", &emails); err == nil {
			for _, e := range emails {
				if e.Primary {
					email = e.Email
					break
				}
			}
			if email == "" && len(emails) > 0 {
				email = emails[0].Email
			}
		}
	}
	if email == "" {
		// GitHub can hide the email entirely; synthesize a stable placeholder
		email = user.Login + "@github.com"
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	avatar := user.AvatarURL
	if avatar == "" {
		avatar = "https://github.com/identicons/" + user.Login
	}

	return &Profile{Email: email, Name: name, PictureURL: avatar}, nil
}

func (p *GithubProvider) getJSON(ctx context.Context, client *http.Client, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github API returned status %d for %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
