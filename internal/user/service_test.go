package user

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"sectors-server/internal/shared/errors"
)

type memoryStore struct {
	users  []User
	nextID int
}

func (m *memoryStore) GetByID(_ context.Context, id int) (*User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryStore) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryStore) Create(_ context.Context, nu NewUser) (*User, error) {
	for _, u := range m.users {
		if u.Username == nu.Username {
			return nil, ErrUsernameTaken
		}
	}
	m.nextID++
	u := User{ID: m.nextID, Username: nu.Username, Email: nu.Email, DisplayName: nu.DisplayName, AvatarURL: nu.AvatarURL}
	m.users = append(m.users, u)
	return &u, nil
}

func newTestService() (*Service, *memoryStore) {
	store := &memoryStore{}
	return NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func TestUsernameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"Ada.Lovelace@example.com", "ada.lovelace"},
		{"first+tag@example.com", "firsttag"},
		{"+++@example.com", "user"},
		{"no-at-sign", "no-at-sign"},
	}

	for _, tt := range tests {
		if got := usernameFromEmail(tt.email); got != tt.want {
			t.Errorf("usernameFromEmail(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestFindOrCreateUserByOAuth(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	created, err := svc.FindOrCreateUserByOAuth(ctx, "github", "sam@example.com", "Sam", nil)
	if err != nil {
		t.Fatalf("create error = %v", err)
	}
	if created.Username != "sam" || created.DisplayName != "Sam" {
		t.Errorf("created = %+v", created)
	}

	again, err := svc.FindOrCreateUserByOAuth(ctx, "google", "sam@example.com", "Samuel", nil)
	if err != nil {
		t.Fatalf("find error = %v", err)
	}
	if again.ID != created.ID || len(store.users) != 1 {
		t.Errorf("expected existing user, got %+v (%d users)", again, len(store.users))
	}
}

func TestFindOrCreateUserByOAuth_UsernameClash(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.FindOrCreateUserByOAuth(ctx, "github", "sam@example.com", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.FindOrCreateUserByOAuth(ctx, "discord", "sam@example.org", "", nil)
	if err != nil {
		t.Fatal(err)
	}

	if first.Username != "sam" || second.Username != "sam2" {
		t.Errorf("usernames = %q, %q, want sam, sam2", first.Username, second.Username)
	}
	if second.DisplayName != "sam" {
		t.Errorf("DisplayName = %q, want fallback to username base", second.DisplayName)
	}
}

func TestGetUserByID(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetUserByID(context.Background(), 42)
	if !errors.Is(err, errors.ErrorTypeNotFound) {
		t.Errorf("error = %v, want not found", err)
	}
}
