package autoheal

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Target is the page surface the locator inspects
type Target interface {
	URL() string
	Content() (string, error)
	Screenshot() ([]byte, error)
	// Resolve waits up to timeout for selector to match at least one attached element
	Resolve(selector string, timeout time.Duration) (bool, error)
	Locator(selector string) playwright.Locator
}

// PageTarget adapts a playwright.Page to Target
type PageTarget struct {
	Page playwright.Page
}

// NewPageTarget wraps page
func NewPageTarget(page playwright.Page) *PageTarget {
	return &PageTarget{Page: page}
}

func (t *PageTarget) URL() string {
	return t.Page.URL()
}

func (t *PageTarget) Content() (string, error) {
	html, err := t.Page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

func (t *PageTarget) Screenshot() ([]byte, error) {
	png, err := t.Page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %w", err)
	}
	return png, nil
}

func (t *PageTarget) Resolve(selector string, timeout time.Duration) (bool, error) {
	err := t.Page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err == nil {
		return true, nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return false, nil
	}
	return false, fmt.Errorf("failed to resolve %q: %w", selector, err)
}

func (t *PageTarget) Locator(selector string) playwright.Locator {
	return t.Page.Locator(selector)
}
