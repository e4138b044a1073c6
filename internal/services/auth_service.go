package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/themizzi/swaglabs/internal/models"
	"go.uber.org/zap"
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("username and password do not match any user in this service")
	ErrUserLockedOut      = errors.New("user has been locked out")
	ErrSessionNotFound    = errors.New("session not found")
)

// Session binds a browser token to an authenticated user
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
}

// AuthService handles login, session lookup and logout
type AuthService interface {
	Login(username, password string) (*Session, error)
	SessionUser(token string) (string, error)
	Logout(token string) error
}

// AuthServiceImpl implements AuthService against a fixed set of users
type AuthServiceImpl struct {
	users    map[string]models.User
	sessions *SessionStore
	logger   *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(users []models.User, sessions *SessionStore, logger *zap.Logger) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}

	byName := make(map[string]models.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}

	return &AuthServiceImpl{
		users:    byName,
		sessions: sessions,
		logger:   logger,
	}
}

// Login authenticates a user and opens a session
func (s *AuthServiceImpl) Login(username, password string) (*Session, error) {
	if err := models.ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	user, ok := s.users[username]
	if !ok || !user.PasswordMatches(password) {
		s.logger.Info("Rejected login", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	if user.LockedOut {
		s.logger.Info("Rejected login for locked out user", zap.String("username", username))
		return nil, ErrUserLockedOut
	}

	session := s.sessions.Create(username)
	s.logger.Info("User logged in", zap.String("username", username))
	return session, nil
}

// SessionUser returns the username bound to token
func (s *AuthServiceImpl) SessionUser(token string) (string, error) {
	session, err := s.sessions.Get(token)
	if err != nil {
		return "", err
	}
	return session.Username, nil
}

// Logout ends a session
func (s *AuthServiceImpl) Logout(token string) error {
	if err := s.sessions.Delete(token); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return nil
}

// SessionStore keeps sessions in memory, keyed by a random token
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create opens a new session for username
func (s *SessionStore) Create(username string) *Session {
	session := Session{
		Token:     uuid.New().String(),
		Username:  username,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return &session
}

// Get looks up a session by token
func (s *SessionStore) Get(token string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// Delete removes a session
func (s *SessionStore) Delete(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, token)
	return nil
}

// Len returns the number of open sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
