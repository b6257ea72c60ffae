package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sectors-server/internal/auth"
	"sectors-server/internal/middleware"
	"sectors-server/internal/shared/errors"
	"sectors-server/internal/user"
)

type usersStub map[int]user.User

func (s usersStub) GetUserByID(_ context.Context, id int) (*user.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, errors.NotFoundf("user not found with id: %d", id)
	}
	return &u, nil
}

func TestMeHandler(t *testing.T) {
	h := NewMeHandler(usersStub{1: {ID: 1, Username: "sam", Email: "sam@example.com"}})

	tests := []struct {
		name   string
		claims *auth.Claims
		want   int
	}{
		{name: "signed in", claims: &auth.Claims{UserID: 1}, want: http.StatusOK},
		{name: "deleted user", claims: &auth.Claims{UserID: 2}, want: http.StatusNotFound},
		{name: "no claims", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.claims != nil {
				req = req.WithContext(middleware.WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK {
				var got user.User
				if err := json.NewDecoder(rec.Body).Decode(&got); err != nil || got.Username != "sam" {
					t.Errorf("body = %+v, %v", got, err)
				}
			}
		})
	}
}
