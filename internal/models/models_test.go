package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "both provided", username: "standard_user", password: "secret_sauce", wantErr: nil},
		{name: "missing username", username: "", password: "secret_sauce", wantErr: ErrEmptyUsername},
		{name: "missing password", username: "standard_user", password: "", wantErr: ErrEmptyPassword},
		{name: "missing both reports username first", username: "", password: "", wantErr: ErrEmptyUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCredentials() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultUsers(t *testing.T) {
	users := DefaultUsers()

	var lockedOut int
	for _, u := range users {
		if !u.PasswordMatches(DefaultPassword) {
			t.Errorf("user %s should accept the default password", u.Username)
		}
		if u.LockedOut {
			lockedOut++
			if u.Username != "locked_out_user" {
				t.Errorf("unexpected locked out user %s", u.Username)
			}
		}
	}
	if lockedOut != 1 {
		t.Errorf("expected exactly one locked out user, got %d", lockedOut)
	}
}

func TestProduct_FormattedPrice(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{cents: 2999, want: "$29.99"},
		{cents: 999, want: "$9.99"},
		{cents: 100, want: "$1.00"},
		{cents: 5, want: "$0.05"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p := Product{PriceCents: tt.cents}
			if got := p.FormattedPrice(); got != tt.want {
				t.Errorf("FormattedPrice() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewCatalog(t *testing.T) {
	valid := Product{Slug: "a", Name: "A", PriceCents: 100}

	tests := []struct {
		name     string
		products []Product
		wantErr  error
	}{
		{name: "valid", products: []Product{valid}, wantErr: nil},
		{name: "empty", products: nil, wantErr: ErrEmptyCatalog},
		{name: "duplicate slug", products: []Product{valid, valid}, wantErr: ErrDuplicateProduct},
		{name: "missing slug", products: []Product{{Name: "A", PriceCents: 1}}, wantErr: ErrInvalidProduct},
		{name: "missing name", products: []Product{{Slug: "a", PriceCents: 1}}, wantErr: ErrInvalidProduct},
		{name: "zero price", products: []Product{{Slug: "a", Name: "A"}}, wantErr: ErrInvalidProduct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.products)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewCatalog() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	if c.Len() != 6 {
		t.Fatalf("expected 6 products, got %d", c.Len())
	}

	backpack, err := c.Lookup("sauce-labs-backpack")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if backpack.Name != "Sauce Labs Backpack" {
		t.Errorf("unexpected name %q", backpack.Name)
	}
	if backpack.FormattedPrice() != "$29.99" {
		t.Errorf("unexpected price %s", backpack.FormattedPrice())
	}

	if _, err := c.Lookup("sauce-labs-umbrella"); !errors.Is(err, ErrUnknownProduct) {
		t.Errorf("expected ErrUnknownProduct, got %v", err)
	}

	// Products returns a copy
	products := c.Products()
	products[0].Name = "changed"
	if first := c.Products()[0]; first.Name == "changed" {
		t.Error("Products() should not expose internal state")
	}
}

func TestReadCatalog(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		input := `
products:
  - slug: premium-widget
    name: Premium Widget
    description: A high-quality widget
    price_cents: 100
    image_url: /static/img/widget.svg
`
		c, err := ReadCatalog(strings.NewReader(input))
		if err != nil {
			t.Fatalf("ReadCatalog() error = %v", err)
		}
		p, err := c.Lookup("premium-widget")
		if err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
		if p.FormattedPrice() != "$1.00" {
			t.Errorf("unexpected price %s", p.FormattedPrice())
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := ReadCatalog(strings.NewReader("products:\n  - slug: a\n    colour: red\n"))
		if err == nil {
			t.Error("expected error for unknown field")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadCatalog(strings.NewReader(""))
		if !errors.Is(err, ErrEmptyCatalog) {
			t.Errorf("expected ErrEmptyCatalog, got %v", err)
		}
	})
}

func TestCart_AddRemove(t *testing.T) {
	cart, err := NewCart("standard_user")
	if err != nil {
		t.Fatalf("NewCart() error = %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatal("new cart should be empty")
	}

	now := time.Now()
	if err := cart.Add("sauce-labs-backpack", now); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := cart.Add("sauce-labs-onesie", now); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := cart.Add("sauce-labs-backpack", now); !errors.Is(err, ErrProductAlreadyInCart) {
		t.Errorf("expected ErrProductAlreadyInCart, got %v", err)
	}
	if cart.Count() != 2 {
		t.Errorf("expected 2 items, got %d", cart.Count())
	}

	if err := cart.Remove("sauce-labs-backpack"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := cart.Remove("sauce-labs-backpack"); !errors.Is(err, ErrProductNotInCart) {
		t.Errorf("expected ErrProductNotInCart, got %v", err)
	}

	slugs := cart.Slugs()
	if len(slugs) != 1 || slugs[0] != "sauce-labs-onesie" {
		t.Errorf("unexpected slugs %v", slugs)
	}
}

func TestNewCart_EmptyUsername(t *testing.T) {
	if _, err := NewCart(""); !errors.Is(err, ErrEmptyUsername) {
		t.Errorf("expected ErrEmptyUsername, got %v", err)
	}
}

func TestCart_Total(t *testing.T) {
	catalog := DefaultCatalog()
	cart := &Cart{Username: "standard_user"}
	cart.Add("sauce-labs-backpack", time.Now())
	cart.Add("sauce-labs-bike-light", time.Now())

	total, err := cart.Total(catalog)
	if err != nil {
		t.Fatalf("Total() error = %v", err)
	}
	if total != 3998 {
		t.Errorf("expected 3998, got %d", total)
	}

	cart.Add("discontinued", time.Now())
	if _, err := cart.Total(catalog); !errors.Is(err, ErrUnknownProduct) {
		t.Errorf("expected ErrUnknownProduct, got %v", err)
	}
}
