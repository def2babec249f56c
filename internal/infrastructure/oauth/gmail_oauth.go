package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"cpaptracker-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// DefaultRedirectURL is where the local token helper listens for the callback
const DefaultRedirectURL = "http://localhost:8090/oauth2callback"

// Credentials identify the OAuth client allowed to send reminder email
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	// RedirectURL defaults to DefaultRedirectURL
	RedirectURL string
}

// GmailOAuth handles OAuth authentication with Gmail
type GmailOAuth struct {
	config       *oauth2.Config
	refreshToken string
	logger       logger.Logger
}

// NewGmailOAuth creates a new Gmail OAuth handler that may only send mail
func NewGmailOAuth(creds Credentials, logger logger.Logger) *GmailOAuth {
	redirectURL := creds.RedirectURL
	if redirectURL == "" {
		redirectURL = DefaultRedirectURL
	}

	config := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{gmail.GmailSendScope},
	}

	return &GmailOAuth{
		config:       config,
		refreshToken: creds.RefreshToken,
		logger:       logger,
	}
}

// CallbackListener returns the listen address and path the redirect URL points at
func (o *GmailOAuth) CallbackListener() (addr string, path string, err error) {
	u, err := url.Parse(o.config.RedirectURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid redirect url: %w", err)
	}
	if u.Port() == "" {
		return "", "", fmt.Errorf("redirect url %q has no port", o.config.RedirectURL)
	}
	path = u.Path
	if path == "" {
		path = "/"
	}
	return ":" + u.Port(), path, nil
}

// GetTokenSource returns a token source that can be used with Gmail API
func (o *GmailOAuth) GetTokenSource(ctx context.Context) oauth2.TokenSource {
	token := &oauth2.Token{
		RefreshToken: o.refreshToken,
		Expiry:       time.Now(), // Force refresh
	}

	return o.config.TokenSource(ctx, token)
}

// GenerateAuthURL generates a URL for the user to authorize the application
func (o *GmailOAuth) GenerateAuthURL(state string) string {
	return o.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeCode exchanges an authorization code for a token
func (o *GmailOAuth) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	o.logger.Info("Refresh token obtained", "expiry", token.Expiry)

	return token, nil
}

// TokenToJSON converts a token to JSON
func (o *GmailOAuth) TokenToJSON(token *oauth2.Token) (string, error) {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
