package providers

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleProvider(config *oauth2.Config) *GoogleProvider {
	return &GoogleProvider{config: config, userInfoURL: googleUserInfoURL}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) GetAuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return exchange(ctx, p.config, p.Name(), code)
}

func (p *GoogleProvider) GetUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthUser, error) {
	logger := slog.With("provider", "google", "operation", "get_user_info")

	var info googleUserInfo
	if err := getJSON(p.config.Client(ctx, token), p.Name(), p.userInfoURL, &info); err != nil {
		return nil, err
	}

	if info.ID == "" {
		return nil, fmt.Errorf("google user info missing user ID")
	}

	logger.Debug("Successfully retrieved Google user info",
		"user_id", info.ID,
		"has_email", info.Email != "",
		"email_verified", info.VerifiedEmail)

	return &OAuthUser{
		ID:            info.ID,
		Email:         info.Email,
		EmailVerified: info.VerifiedEmail,
		Name:          info.Name,
		AvatarURL:     info.Picture,
	}, nil
}
