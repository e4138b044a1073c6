package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/themizzi/swaglabs/internal/models"
)

// cartStore is the behaviour shared by every cart repository
type cartStore interface {
	GetCart(username string) (*models.Cart, error)
	AddItem(username, productSlug string, addedAt time.Time) error
	RemoveItem(username, productSlug string) error
	ClearCart(username string) error
}

// runCartStoreContract exercises a cart repository through its full lifecycle
func runCartStoreContract(t *testing.T, repo cartStore) {
	t.Helper()

	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("unknown user has empty cart", func(t *testing.T) {
		cart, err := repo.GetCart("nobody")
		if err != nil {
			t.Fatalf("GetCart() error = %v", err)
		}
		if cart.Username != "nobody" || !cart.IsEmpty() {
			t.Errorf("expected empty cart for nobody, got %+v", cart)
		}
	})

	t.Run("add and read items", func(t *testing.T) {
		if err := repo.AddItem("standard_user", "sauce-labs-onesie", base.Add(time.Second)); err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
		if err := repo.AddItem("standard_user", "sauce-labs-backpack", base); err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}

		cart, err := repo.GetCart("standard_user")
		if err != nil {
			t.Fatalf("GetCart() error = %v", err)
		}
		if cart.Count() != 2 {
			t.Fatalf("expected 2 items, got %d", cart.Count())
		}
		if !cart.Contains("sauce-labs-backpack") || !cart.Contains("sauce-labs-onesie") {
			t.Errorf("unexpected items %v", cart.Slugs())
		}
	})

	t.Run("duplicate item rejected", func(t *testing.T) {
		err := repo.AddItem("standard_user", "sauce-labs-backpack", base)
		if !errors.Is(err, models.ErrProductAlreadyInCart) {
			t.Errorf("expected ErrProductAlreadyInCart, got %v", err)
		}
	})

	t.Run("carts are per user", func(t *testing.T) {
		cart, err := repo.GetCart("problem_user")
		if err != nil {
			t.Fatalf("GetCart() error = %v", err)
		}
		if !cart.IsEmpty() {
			t.Errorf("expected empty cart, got %v", cart.Slugs())
		}
	})

	t.Run("remove item", func(t *testing.T) {
		if err := repo.RemoveItem("standard_user", "sauce-labs-onesie"); err != nil {
			t.Fatalf("RemoveItem() error = %v", err)
		}
		err := repo.RemoveItem("standard_user", "sauce-labs-onesie")
		if !errors.Is(err, models.ErrProductNotInCart) {
			t.Errorf("expected ErrProductNotInCart, got %v", err)
		}
	})

	t.Run("clear cart", func(t *testing.T) {
		if err := repo.ClearCart("standard_user"); err != nil {
			t.Fatalf("ClearCart() error = %v", err)
		}
		cart, err := repo.GetCart("standard_user")
		if err != nil {
			t.Fatalf("GetCart() error = %v", err)
		}
		if !cart.IsEmpty() {
			t.Errorf("expected empty cart after clear, got %v", cart.Slugs())
		}
	})
}

func TestMemoryCartRepository(t *testing.T) {
	runCartStoreContract(t, NewMemoryCartRepository())
}

func TestMemoryCartRepository_GetCartReturnsCopy(t *testing.T) {
	repo := NewMemoryCartRepository()
	if err := repo.AddItem("standard_user", "sauce-labs-backpack", time.Now()); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	cart, _ := repo.GetCart("standard_user")
	cart.Items = nil

	again, _ := repo.GetCart("standard_user")
	if again.Count() != 1 {
		t.Errorf("mutating a returned cart should not change the stored one")
	}
}
