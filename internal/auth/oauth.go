package auth

import (
	"log/slog"

	"sectors-server/internal/auth/providers"
	"sectors-server/internal/shared/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// ConfiguredProvider pairs a provider with whether its credentials are set.
type ConfiguredProvider struct {
	Provider   providers.OAuthProvider
	Configured bool
}

type OAuthConfig struct {
	Providers []ConfiguredProvider
}

func InitOAuth() *OAuthConfig {
	cfg := config.GlobalConfig
	logger := slog.With("component", "oauth", "operation", "init")
	logger.Debug("Initializing OAuth configurations")

	googleProvider := ConfiguredProvider{
		Provider:   providers.NewGoogleProvider(oauth2Config(cfg.OAuth.Google, google.Endpoint)),
		Configured: cfg.OAuth.Google.Configured(),
	}

	githubProvider := ConfiguredProvider{
		Provider:   providers.NewGitHubProvider(oauth2Config(cfg.OAuth.GitHub, github.Endpoint)),
		Configured: cfg.OAuth.GitHub.Configured(),
	}

	discord := ConfiguredProvider{
		Provider:   providers.NewDiscordProvider(oauth2Config(cfg.OAuth.Discord, providers.DiscordEndpoint)),
		Configured: cfg.OAuth.Discord.Configured(),
	}

	oauthConfig := &OAuthConfig{Providers: []ConfiguredProvider{googleProvider, githubProvider, discord}}
	for _, p := range oauthConfig.Providers {
		if !p.Configured {
			logger.Warn("OAuth provider not configured - missing client credentials", "provider", p.Provider.Name())
		}
	}

	logger.Info("OAuth configuration completed",
		"github_redirect_url", cfg.OAuth.GitHub.RedirectURL,
		"google_configured", googleProvider.Configured,
		"github_configured", githubProvider.Configured,
		"discord_configured", discord.Configured,
	)

	return oauthConfig
}

func oauth2Config(p config.OAuthProviderConfig, endpoint oauth2.Endpoint) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		RedirectURL:  p.RedirectURL,
		Scopes:       p.Scopes,
		Endpoint:     endpoint,
	}
}
