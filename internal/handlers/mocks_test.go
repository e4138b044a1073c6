package handlers

import (
	"github.com/themizzi/swaglabs/internal/models"
	"github.com/themizzi/swaglabs/internal/services"
)

// MockAuthService is a mock implementation of AuthService for testing
type MockAuthService struct {
	LoginFunc       func(string, string) (*services.Session, error)
	SessionUserFunc func(string) (string, error)
	LogoutFunc      func(string) error
}

func (m *MockAuthService) Login(username, password string) (*services.Session, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(username, password)
	}
	return &services.Session{Token: "token-123", Username: username}, nil
}

func (m *MockAuthService) SessionUser(token string) (string, error) {
	if m.SessionUserFunc != nil {
		return m.SessionUserFunc(token)
	}
	return "", services.ErrSessionNotFound
}

func (m *MockAuthService) Logout(token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(token)
	}
	return nil
}

// MockCartService is a mock implementation of CartService for testing
type MockCartService struct {
	AddToCartFunc      func(string, string) error
	RemoveFromCartFunc func(string, string) error
	CartFunc           func(string) (*models.Cart, error)
	LinesFunc          func(string) ([]services.CartLine, error)
}

func (m *MockCartService) AddToCart(username, productSlug string) error {
	if m.AddToCartFunc != nil {
		return m.AddToCartFunc(username, productSlug)
	}
	return nil
}

func (m *MockCartService) RemoveFromCart(username, productSlug string) error {
	if m.RemoveFromCartFunc != nil {
		return m.RemoveFromCartFunc(username, productSlug)
	}
	return nil
}

func (m *MockCartService) Cart(username string) (*models.Cart, error) {
	if m.CartFunc != nil {
		return m.CartFunc(username)
	}
	return &models.Cart{Username: username}, nil
}

func (m *MockCartService) Lines(username string) ([]services.CartLine, error) {
	if m.LinesFunc != nil {
		return m.LinesFunc(username)
	}
	return nil, nil
}

func (m *MockCartService) Count(username string) (int, error) {
	cart, err := m.Cart(username)
	if err != nil {
		return 0, err
	}
	return cart.Count(), nil
}

func (m *MockCartService) Clear(username string) error {
	return nil
}
