package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"sectors-server/internal/auth"
	"sectors-server/internal/auth/providers"
	"sectors-server/internal/shared/cookies"
	"sectors-server/internal/shared/errors"
	"sectors-server/internal/shared/response"
	"sectors-server/internal/user"
)

const callbackTimeout = 30 * time.Second

type UserService interface {
	GetUserByID(ctx context.Context, id int) (*user.User, error)
	FindOrCreateUserByOAuth(ctx context.Context, provider, email, displayName string, avatarURL *string) (*user.User, error)
}

type AuthService interface {
	CreateAuthProvider(ctx context.Context, userID int, provider, providerUserID, providerEmail string) error
	FindUserByAuthProvider(ctx context.Context, provider, providerUserID string) (int, error)
}

// OAuthHandler runs the authorization code flow of one provider.
type OAuthHandler struct {
	provider     providers.OAuthProvider
	userService  UserService
	authService  AuthService
	isConfigured bool
}

func NewOAuthHandler(provider providers.OAuthProvider, userService UserService, authService AuthService, isConfigured bool) *OAuthHandler {
	return &OAuthHandler{
		provider:     provider,
		userService:  userService,
		authService:  authService,
		isConfigured: isConfigured,
	}
}

func (h *OAuthHandler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	name := h.provider.Name()
	logger := slog.With("handler", name+"_oauth_init")

	if !h.isConfigured {
		response.Error(w, r, logger, errors.External(fmt.Sprintf("%s OAuth is not properly configured", name)))
		return
	}

	redirectURI := resolveRedirectURI(r.URL.Query().Get("redirect_uri"))

	state, err := auth.GenerateOAuthState(name, r.UserAgent(), redirectURI)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to initialize OAuth flow", err))
		return
	}

	http.Redirect(w, r, h.provider.GetAuthURL(state), http.StatusTemporaryRedirect)
}

func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	name := h.provider.Name()
	query := r.URL.Query()
	code := query.Get("code")

	logger := slog.With(
		"handler", name+"_oauth_callback",
		"ip", r.RemoteAddr,
		"has_code", code != "",
	)

	entry, err := auth.ValidateOAuthState(query.Get("state"), name, r.UserAgent())
	if err != nil {
		logger.Warn("OAuth state validation failed", "error", err)
		redirectWithError(w, r, "", "invalid_state")
		return
	}
	redirectURI := entry.RedirectURI

	if oauthErr := query.Get("error"); oauthErr != "" {
		logger.Warn("OAuth authorization denied",
			"oauth_error", oauthErr,
			"error_description", query.Get("error_description"))
		redirectWithError(w, r, redirectURI, "oauth_denied")
		return
	}

	if code == "" {
		logger.Error("OAuth callback missing authorization code")
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), callbackTimeout)
	defer cancel()

	token, err := h.provider.ExchangeCode(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code", "error", err)
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	info, err := h.provider.GetUserInfo(ctx, token)
	if err != nil {
		logger.Error("Failed to get user info", "error", err)
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	userLogger := logger.With("provider_user_id", info.ID)

	if info.Email == "" || !info.EmailVerified {
		userLogger.Warn("User missing verified email")
		redirectWithError(w, r, redirectURI, "email_not_verified")
		return
	}

	u, err := h.resolveUser(ctx, name, info)
	if err != nil {
		userLogger.Error("Failed to resolve user account", "error", err)
		redirectWithError(w, r, redirectURI, "database_error")
		return
	}

	jwtToken, err := auth.GenerateJWT(u.ID, u.Username, u.Email)
	if err != nil {
		userLogger.Error("Failed to generate JWT token", "error", err)
		redirectWithError(w, r, redirectURI, "auth_error")
		return
	}

	cookies.SetAuthCookie(w, jwtToken)

	userLogger.Info("OAuth authentication successful", "user_id", u.ID, "username", u.Username)

	http.Redirect(w, r, redirectURI+"/auth/callback?success=true", http.StatusTemporaryRedirect)
}

// resolveUser returns the user linked to the provider identity, linking a
// new or existing account by email when there is none yet.
func (h *OAuthHandler) resolveUser(ctx context.Context, provider string, info *providers.OAuthUser) (*user.User, error) {
	userID, err := h.authService.FindUserByAuthProvider(ctx, provider, info.ID)
	if err == nil {
		return h.userService.GetUserByID(ctx, userID)
	}
	if !errors.Is(err, errors.ErrorTypeNotFound) {
		return nil, err
	}

	var avatarURL *string
	if info.AvatarURL != "" {
		avatarURL = &info.AvatarURL
	}

	u, err := h.userService.FindOrCreateUserByOAuth(ctx, provider, info.Email, info.Name, avatarURL)
	if err != nil {
		return nil, err
	}

	if err := h.authService.CreateAuthProvider(ctx, u.ID, provider, info.ID, info.Email); err != nil {
		return nil, err
	}
	return u, nil
}
