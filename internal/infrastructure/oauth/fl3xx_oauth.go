package oauth

import (
	"context"
	"net/http"

	"flightwatch-service/pkg/logger"

	"golang.org/x/oauth2"
)

// Fl3xxAuth supplies authenticated HTTP clients for the FL3XX external API.
// The API uses a long-lived bearer token, so a static token source is enough.
type Fl3xxAuth struct {
	token  string
	logger logger.Logger
}

// NewFl3xxAuth creates a new FL3XX auth handler
func NewFl3xxAuth(token string, logger logger.Logger) *Fl3xxAuth {
	return &Fl3xxAuth{
		token:  token,
		logger: logger,
	}
}

// GetTokenSource returns a token source for the FL3XX API
func (a *Fl3xxAuth) GetTokenSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: a.token})
}

// HTTPClient returns an HTTP client that injects the bearer token on every
// request. Without a token the default client is returned and requests go out
// unauthenticated.
func (a *Fl3xxAuth) HTTPClient(ctx context.Context) *http.Client {
	if a.token == "" {
		a.logger.Warn("No FL3XX API token configured, requests will be unauthenticated")
		return http.DefaultClient
	}
	return oauth2.NewClient(ctx, a.GetTokenSource())
}
