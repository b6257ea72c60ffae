package user

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"sectors-server/internal/shared/errors"
)

const maxUsernameAttempts = 20

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	logger.Debug("Initializing user service")

	return &Service{
		store:  store,
		logger: logger,
	}
}

func (s *Service) GetUserByID(ctx context.Context, id int) (*User, error) {
	u, err := s.store.GetByID(ctx, id)
	if stderrors.Is(err, ErrNotFound) {
		return nil, errors.NotFoundf("user not found with id: %d", id)
	}
	if err != nil {
		return nil, errors.WrapInternal("failed to get user", err)
	}
	return u, nil
}

// FindOrCreateUserByOAuth returns the user registered with email, creating
// one with a username derived from the email when none exists.
func (s *Service) FindOrCreateUserByOAuth(ctx context.Context, provider, email, displayName string, avatarURL *string) (*User, error) {
	logger := s.logger.With(
		"component", "user_service",
		"operation", "find_or_create_oauth",
		"provider", provider,
	)

	existing, err := s.store.GetByEmail(ctx, email)
	if err == nil {
		logger.Debug("Found existing user by email", "user_id", existing.ID)
		return existing, nil
	}
	if !stderrors.Is(err, ErrNotFound) {
		return nil, errors.WrapInternal("failed to look up user", err)
	}

	base := usernameFromEmail(email)
	if displayName == "" {
		displayName = base
	}

	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		username := base
		if attempt > 0 {
			username = fmt.Sprintf("%s%d", base, attempt+1)
		}

		created, err := s.store.Create(ctx, NewUser{
			Username:    username,
			Email:       email,
			DisplayName: displayName,
			AvatarURL:   avatarURL,
		})
		if stderrors.Is(err, ErrUsernameTaken) {
			continue
		}
		if err != nil {
			return nil, errors.WrapInternal("failed to create user", err)
		}

		logger.Info("Created user from OAuth", "user_id", created.ID, "username", created.Username)
		return created, nil
	}

	return nil, errors.Conflictf("no free username derived from %q", base)
}

// usernameFromEmail derives a lowercase username from the local part of
// email, dropping characters not allowed in usernames.
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")

	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
