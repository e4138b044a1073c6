package services

import (
	"errors"
	"testing"

	"github.com/themizzi/swaglabs/internal/models"
)

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid credentials", username: "standard_user", password: "secret_sauce", wantErr: nil},
		{name: "wrong password", username: "standard_user", password: "wrong", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "ghost_user", password: "secret_sauce", wantErr: ErrInvalidCredentials},
		{name: "locked out user", username: "locked_out_user", password: "secret_sauce", wantErr: ErrUserLockedOut},
		{name: "locked out user with wrong password", username: "locked_out_user", password: "wrong", wantErr: ErrInvalidCredentials},
		{name: "missing username", username: "", password: "secret_sauce", wantErr: models.ErrEmptyUsername},
		{name: "missing password", username: "standard_user", password: "", wantErr: models.ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := NewSessionStore()
			service := NewAuthService(models.DefaultUsers(), sessions, nil)

			session, err := service.Login(tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr != nil {
				if sessions.Len() != 0 {
					t.Errorf("failed login should not open a session")
				}
				return
			}

			if session.Token == "" {
				t.Error("session token should not be empty")
			}
			username, err := service.SessionUser(session.Token)
			if err != nil {
				t.Fatalf("SessionUser() error = %v", err)
			}
			if username != tt.username {
				t.Errorf("expected session for %s, got %s", tt.username, username)
			}
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	service := NewAuthService(models.DefaultUsers(), NewSessionStore(), nil)

	session, err := service.Login("standard_user", "secret_sauce")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := service.Logout(session.Token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := service.SessionUser(session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after logout, got %v", err)
	}
	if err := service.Logout(session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on second logout, got %v", err)
	}
}

func TestSessionStore_TokensAreUnique(t *testing.T) {
	store := NewSessionStore()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s := store.Create("standard_user")
		if seen[s.Token] {
			t.Fatalf("duplicate token %s", s.Token)
		}
		seen[s.Token] = true
	}
	if store.Len() != 50 {
		t.Errorf("expected 50 sessions, got %d", store.Len())
	}
}
