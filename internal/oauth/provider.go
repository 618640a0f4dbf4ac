package oauth

import (
	"context"

	"golang.org/x/oauth2"
)

// Profile is the identity a provider asserts after a successful code exchange
type Profile struct {
	Email      string
	Name       string
	PictureURL string
}

// Provider is an external identity provider capable of exchanging an
// authorization code for a token and fetching the profile behind it.
type Provider interface {
	Name() string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error)
}
