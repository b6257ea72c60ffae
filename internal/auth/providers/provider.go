package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
)

// OAuthUser is the normalized user info returned by all OAuth providers.
type OAuthUser struct {
	ID            string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
}

// OAuthProvider is the interface that all OAuth providers implement.
type OAuthProvider interface {
	Name() string
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthUser, error)
}

// exchange trades an authorization code for a token.
func exchange(ctx context.Context, config *oauth2.Config, provider, code string) (*oauth2.Token, error) {
	logger := slog.With("provider", provider, "operation", "exchange_code")
	logger.Debug("Exchanging authorization code for access token")

	token, err := config.Exchange(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code", "error", err)
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

// getJSON decodes the JSON body of an authenticated GET into dst.
func getJSON(client *http.Client, provider, url string, dst interface{}) error {
	logger := slog.With("provider", provider, "operation", "get_json", "url", url)

	resp, err := client.Get(url)
	if err != nil {
		logger.Error("Provider request failed", "error", err)
		return fmt.Errorf("failed to request %s: %w", provider, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		logger.Error("Provider API returned error status",
			"status_code", resp.StatusCode,
			"status", resp.Status)
		return fmt.Errorf("%s API returned status %d", provider, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		logger.Error("Failed to decode provider response", "error", err)
		return fmt.Errorf("failed to decode %s response: %w", provider, err)
	}
	return nil
}
