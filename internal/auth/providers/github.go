package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
)

const githubAPIURL = "https://api.github.com"

type githubUserInfo struct {
	ID        int    `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

type GitHubProvider struct {
	config *oauth2.Config
	apiURL string
}

func NewGitHubProvider(config *oauth2.Config) *GitHubProvider {
	return &GitHubProvider{config: config, apiURL: githubAPIURL}
}

func (p *GitHubProvider) Name() string { return "github" }

func (p *GitHubProvider) GetAuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *GitHubProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return exchange(ctx, p.config, p.Name(), code)
}

// GetUserInfo reads the profile and picks the primary verified email, or
// any verified email when the primary one is not verified.
func (p *GitHubProvider) GetUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthUser, error) {
	client := p.config.Client(ctx, token)
	logger := slog.With("provider", "github", "operation", "get_user_info")

	var info githubUserInfo
	if err := getJSON(client, p.Name(), p.apiURL+"/user", &info); err != nil {
		return nil, err
	}
	if info.ID == 0 {
		return nil, fmt.Errorf("github user info missing user ID")
	}

	user := &OAuthUser{
		ID:        strconv.Itoa(info.ID),
		Name:      info.Name,
		AvatarURL: info.AvatarURL,
	}
	if user.Name == "" {
		user.Name = info.Login
	}

	if err := p.fillEmail(client, user); err != nil {
		// the caller rejects users without a verified email
		logger.Warn("Failed to fetch GitHub user email", "error", err)
	}

	logger.Debug("Successfully retrieved GitHub user info",
		"user_id", user.ID,
		"has_email", user.Email != "",
		"email_verified", user.EmailVerified)

	return user, nil
}

func (p *GitHubProvider) fillEmail(client *http.Client, user *OAuthUser) error {
	var emails []githubEmail
	if err := getJSON(client, p.Name(), p.apiURL+"/user/emails", &emails); err != nil {
		return err
	}

	var fallback *githubEmail
	for i, email := range emails {
		if !email.Verified {
			continue
		}
		if email.Primary {
			user.Email, user.EmailVerified = email.Email, true
			return nil
		}
		if fallback == nil {
			fallback = &emails[i]
		}
	}
	if fallback != nil {
		user.Email, user.EmailVerified = fallback.Email, true
		return nil
	}
	return fmt.Errorf("no verified email found")
}
