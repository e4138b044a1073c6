package pages

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// LoginPage is the storefront sign-in form.
// The username and login button selectors are out of date and get healed.
type LoginPage struct {
	Page   playwright.Page
	finder Finder
}

// NewLoginPage creates a login page object
func NewLoginPage(page playwright.Page, finder Finder) *LoginPage {
	return &LoginPage{Page: page, finder: finder}
}

// Goto opens the login form relative to the context's base URL
func (p *LoginPage) Goto() error {
	if _, err := p.Page.Goto("/"); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}
	return nil
}

func (p *LoginPage) UsernameInput(ctx context.Context) (playwright.Locator, error) {
	return find(ctx, p.finder, p.Page, "#user-name-Wrong", "Username input field")
}

func (p *LoginPage) PasswordInput(ctx context.Context) (playwright.Locator, error) {
	return find(ctx, p.finder, p.Page, "#password", "Password input field")
}

func (p *LoginPage) LoginButton(ctx context.Context) (playwright.Locator, error) {
	return find(ctx, p.finder, p.Page, "#login-button-Wrong", "Login button")
}

// Login fills in the credentials and submits the form
func (p *LoginPage) Login(ctx context.Context, username, password string) error {
	usernameInput, err := p.UsernameInput(ctx)
	if err != nil {
		return err
	}
	passwordInput, err := p.PasswordInput(ctx)
	if err != nil {
		return err
	}
	loginButton, err := p.LoginButton(ctx)
	if err != nil {
		return err
	}

	if err := usernameInput.Fill(username); err != nil {
		return fmt.Errorf("failed to fill username: %w", err)
	}
	if err := passwordInput.Fill(password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}
	if err := loginButton.Click(); err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}
	return nil
}

// ErrorMessage returns the text of the login error banner
func (p *LoginPage) ErrorMessage(ctx context.Context) (string, error) {
	banner, err := find(ctx, p.finder, p.Page, `[data-test="error"]`, "Login error message")
	if err != nil {
		return "", err
	}
	text, err := banner.TextContent()
	if err != nil {
		return "", fmt.Errorf("failed to read login error: %w", err)
	}
	return text, nil
}
