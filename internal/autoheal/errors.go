package autoheal

import "errors"

var (
	// ErrElementNotFound is returned when neither the original selector nor any healing stage located the element
	ErrElementNotFound = errors.New("element not found")
	// ErrShutdown is returned by Find once the locator has been shut down
	ErrShutdown = errors.New("locator is shut down")
	// ErrUnknownProvider is returned for an AI provider name the locator does not support
	ErrUnknownProvider = errors.New("unknown AI provider")
	// ErrMissingAPIKey is returned when an AI provider is configured without credentials
	ErrMissingAPIKey = errors.New("missing AI provider API key")
	// ErrUnknownStrategy is returned for an unsupported healing strategy
	ErrUnknownStrategy = errors.New("unknown healing strategy")
	// ErrNoPage is returned when a locator is built or used without a page
	ErrNoPage = errors.New("no playwright page")
	// ErrNoSuggestion is returned by providers whose answer holds no usable selector
	ErrNoSuggestion = errors.New("provider returned no selector")
)
