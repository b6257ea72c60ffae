package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	stateTTL             = 10 * time.Minute
	stateCleanupInterval = 5 * time.Minute
)

// StateManager issues one-time OAuth state tokens.
type StateManager struct {
	states map[string]StateEntry
	mutex  sync.Mutex
	ttl    time.Duration
	now    func() time.Time
}

type StateEntry struct {
	CreatedAt   time.Time
	Provider    string
	UserAgent   string
	RedirectURI string
}

var globalStateManager = NewStateManager()

func NewStateManager() *StateManager {
	return &StateManager{
		states: make(map[string]StateEntry),
		ttl:    stateTTL,
		now:    time.Now,
	}
}

// GenerateState creates a new state token and stores it for validation.
func (sm *StateManager) GenerateState(provider, userAgent, redirectURI string) (string, error) {
	logger := slog.With("component", "state_manager", "operation", "generate", "provider", provider)

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		logger.Error("Failed to generate random bytes for state token", "error", err)
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}
	state := base64.URLEncoding.EncodeToString(b)

	sm.mutex.Lock()
	sm.states[state] = StateEntry{
		CreatedAt:   sm.now(),
		Provider:    provider,
		UserAgent:   userAgent,
		RedirectURI: redirectURI,
	}
	sm.mutex.Unlock()

	logger.Debug("OAuth state token generated")
	return state, nil
}

// ValidateState checks a state token and consumes it.
func (sm *StateManager) ValidateState(state, provider, userAgent string) (*StateEntry, error) {
	logger := slog.With("component", "state_manager", "operation", "validate", "provider", provider)

	if state == "" {
		return nil, fmt.Errorf("state token is required")
	}

	sm.mutex.Lock()
	entry, exists := sm.states[state]
	delete(sm.states, state)
	sm.mutex.Unlock()

	if !exists {
		logger.Warn("Invalid or expired state token")
		return nil, fmt.Errorf("invalid or expired state token")
	}

	if age := sm.now().Sub(entry.CreatedAt); age > sm.ttl {
		logger.Warn("Expired state token", "age_minutes", age.Minutes())
		return nil, fmt.Errorf("state token has expired")
	}

	if entry.Provider != provider {
		logger.Warn("State token provider mismatch",
			"expected_provider", entry.Provider,
			"received_provider", provider)
		return nil, fmt.Errorf("state token provider mismatch")
	}

	if entry.UserAgent != userAgent {
		// browsers update between redirects, so this is only logged
		logger.Warn("State token user agent mismatch")
	}

	return &entry, nil
}

// StartCleanup drops expired state tokens until ctx is done.
func (sm *StateManager) StartCleanup(ctx context.Context) {
	ticker := time.NewTicker(stateCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sm.cleanupExpiredStates()
		}
	}
}

func (sm *StateManager) cleanupExpiredStates() int {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	now := sm.now()
	expired := 0
	for state, entry := range sm.states {
		if now.Sub(entry.CreatedAt) > sm.ttl {
			delete(sm.states, state)
			expired++
		}
	}

	if expired > 0 {
		slog.Debug("Cleaned up expired state tokens",
			"component", "state_manager",
			"expired_count", expired,
			"remaining_count", len(sm.states))
	}
	return expired
}

func GenerateOAuthState(provider, userAgent, redirectURI string) (string, error) {
	return globalStateManager.GenerateState(provider, userAgent, redirectURI)
}

func ValidateOAuthState(state, provider, userAgent string) (*StateEntry, error) {
	return globalStateManager.ValidateState(state, provider, userAgent)
}

// StartStateCleanup runs the cleanup loop of the shared state manager.
func StartStateCleanup(ctx context.Context) {
	globalStateManager.StartCleanup(ctx)
}
