package auth

import (
	"testing"
	"time"
)

func TestStateManager_OneTimeUse(t *testing.T) {
	sm := NewStateManager()

	state, err := sm.GenerateState("github", "agent", "http://localhost:3000")
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}

	entry, err := sm.ValidateState(state, "github", "agent")
	if err != nil {
		t.Fatalf("ValidateState() error = %v", err)
	}
	if entry.RedirectURI != "http://localhost:3000" {
		t.Errorf("RedirectURI = %q", entry.RedirectURI)
	}

	if _, err := sm.ValidateState(state, "github", "agent"); err == nil {
		t.Error("state token accepted twice")
	}
}

func TestStateManager_Rejects(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	sm := NewStateManager()
	sm.now = func() time.Time { return now }

	wrongProvider, _ := sm.GenerateState("google", "agent", "")
	expired, _ := sm.GenerateState("google", "agent", "")
	now = now.Add(stateTTL + time.Second)

	if _, err := sm.ValidateState("", "google", "agent"); err == nil {
		t.Error("empty state accepted")
	}
	if _, err := sm.ValidateState("unknown", "google", "agent"); err == nil {
		t.Error("unknown state accepted")
	}
	if _, err := sm.ValidateState(expired, "google", "agent"); err == nil {
		t.Error("expired state accepted")
	}

	now = now.Add(-stateTTL)
	if _, err := sm.ValidateState(wrongProvider, "discord", "agent"); err == nil {
		t.Error("state accepted for another provider")
	}
}

func TestStateManager_UserAgentMismatchIsAllowed(t *testing.T) {
	sm := NewStateManager()
	state, _ := sm.GenerateState("discord", "agent-a", "")

	if _, err := sm.ValidateState(state, "discord", "agent-b"); err != nil {
		t.Errorf("ValidateState() error = %v", err)
	}
}

func TestStateManager_Cleanup(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	sm := NewStateManager()
	sm.now = func() time.Time { return now }

	_, _ = sm.GenerateState("github", "", "")
	now = now.Add(stateTTL / 2)
	fresh, _ := sm.GenerateState("github", "", "")
	now = now.Add(stateTTL/2 + time.Second)

	if removed := sm.cleanupExpiredStates(); removed != 1 {
		t.Errorf("cleanupExpiredStates() = %d, want 1", removed)
	}
	if _, err := sm.ValidateState(fresh, "github", ""); err != nil {
		t.Errorf("fresh state removed: %v", err)
	}
}
