// Package pages holds page objects for the storefront. Elements are looked up
// through a Finder so that renamed selectors are healed at runtime.
package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Finder resolves a selector, healing it when it no longer matches
type Finder interface {
	Find(ctx context.Context, page playwright.Page, selector, description string) (playwright.Locator, error)
}

func find(ctx context.Context, f Finder, page playwright.Page, selector, description string) (playwright.Locator, error) {
	loc, err := f.Find(ctx, page, selector, description)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", strings.ToLower(description), err)
	}
	return loc, nil
}

func click(ctx context.Context, f Finder, page playwright.Page, selector, description string) error {
	loc, err := find(ctx, f, page, selector, description)
	if err != nil {
		return err
	}
	if err := loc.Click(); err != nil {
		return fmt.Errorf("failed to click %s: %w", strings.ToLower(description), err)
	}
	return nil
}

// parseCount reads a badge counter; an empty badge counts as zero
func parseCount(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("badge text %q is not a number: %w", text, err)
	}
	return n, nil
}
