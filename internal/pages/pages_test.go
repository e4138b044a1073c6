package pages

import (
	"context"
	"errors"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("element not found")

type findCall struct {
	selector    string
	description string
}

// MockFinder records lookups and fails every one of them
type MockFinder struct {
	calls []findCall
}

func (m *MockFinder) Find(_ context.Context, _ playwright.Page, selector, description string) (playwright.Locator, error) {
	m.calls = append(m.calls, findCall{selector, description})
	return nil, errNotFound
}

func TestPageObjects_Selectors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		call func(f Finder) error
		want findCall
	}{
		{
			name: "username input",
			call: func(f Finder) error { _, err := NewLoginPage(nil, f).UsernameInput(ctx); return err },
			want: findCall{"#user-name-Wrong", "Username input field"},
		},
		{
			name: "password input",
			call: func(f Finder) error { _, err := NewLoginPage(nil, f).PasswordInput(ctx); return err },
			want: findCall{"#password", "Password input field"},
		},
		{
			name: "login button",
			call: func(f Finder) error { _, err := NewLoginPage(nil, f).LoginButton(ctx); return err },
			want: findCall{"#login-button-Wrong", "Login button"},
		},
		{
			name: "login error",
			call: func(f Finder) error { _, err := NewLoginPage(nil, f).ErrorMessage(ctx); return err },
			want: findCall{`[data-test="error"]`, "Login error message"},
		},
		{
			name: "inventory title",
			call: func(f Finder) error { _, err := NewInventoryPage(nil, f).PageTitle(ctx); return err },
			want: findCall{".title", "Products page title"},
		},
		{
			name: "add to cart",
			call: func(f Finder) error { return NewInventoryPage(nil, f).AddProductToCart(ctx, "sauce-labs-backpack") },
			want: findCall{`[data-test="add-to-cart-sauce-labs-backpack"]`, "Add to cart button for sauce-labs-backpack"},
		},
		{
			name: "remove from cart",
			call: func(f Finder) error {
				return NewInventoryPage(nil, f).RemoveProductFromCart(ctx, "sauce-labs-backpack")
			},
			want: findCall{`[data-test="remove-sauce-labs-backpack"]`, "Remove button for sauce-labs-backpack"},
		},
		{
			name: "cart badge",
			call: func(f Finder) error { _, err := NewInventoryPage(nil, f).CartItemCount(ctx); return err },
			want: findCall{".shopping_cart_badge", "Shopping cart badge"},
		},
		{
			name: "cart link",
			call: func(f Finder) error { return NewInventoryPage(nil, f).OpenCart(ctx) },
			want: findCall{".shopping_cart_link", "Shopping cart link"},
		},
		{
			name: "cart title",
			call: func(f Finder) error { _, err := NewCartPage(nil, f).Title(ctx); return err },
			want: findCall{".title", "Cart page title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &MockFinder{}

			err := tt.call(finder)
			require.ErrorIs(t, err, errNotFound)
			assert.Equal(t, []findCall{tt.want}, finder.calls)
		})
	}
}

func TestLoginPage_LoginStopsAtFirstMissingElement(t *testing.T) {
	finder := &MockFinder{}

	err := NewLoginPage(nil, finder).Login(context.Background(), "standard_user", "secret_sauce")
	require.ErrorIs(t, err, errNotFound)
	assert.ErrorContains(t, err, "failed to find username input field")
	assert.Len(t, finder.calls, 1)
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		text    string
		want    int
		wantErr bool
	}{
		{text: "1", want: 1},
		{text: " 12\n", want: 12},
		{text: "", want: 0},
		{text: "Cart", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := parseCount(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
