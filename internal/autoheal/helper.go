package autoheal

import (
	"fmt"
	"os"
	"sync"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/swaglabs/internal/config"
	"go.uber.org/zap"
)

// DefaultReportsDir is used by GenerateReports when no directory is given
const DefaultReportsDir = "./autoheal-reports"

// LoadConfigFunc supplies the locator configuration to a Helper
type LoadConfigFunc func() (config.AutoHealConfig, error)

// Helper owns at most one Locator for a test run. The first AutoHeal or
// AutoHealWithConfig call builds it; later calls return the same instance
// until Reset or GenerateReports. It is safe for concurrent use.
type Helper struct {
	mu         sync.Mutex
	locator    *Locator
	loadConfig LoadConfigFunc
	getenv     func(string) string
	logger     *zap.Logger
	// options applied to every build, e.g. an HTTP client in tests
	options []func(*Builder)
}

// NewHelper creates a Helper. A nil loadConfig reads the AUTOHEAL_* environment
// and a nil getenv looks vendor API keys up in the process environment.
func NewHelper(loadConfig LoadConfigFunc, getenv func(string) string, logger *zap.Logger, options ...func(*Builder)) *Helper {
	if loadConfig == nil {
		loadConfig = config.LoadAutoHealConfig
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Helper{loadConfig: loadConfig, getenv: getenv, logger: logger, options: options}
}

// AutoHeal returns the shared locator, building it with the gemini provider and
// the SMART_SEQUENTIAL strategy. Without an API key the locator is built without
// AI and heals with the DOM heuristic only.
func (h *Helper) AutoHeal(page playwright.Page) (*Locator, error) {
	return h.get(func() (*Locator, error) {
		cfg, err := h.loadConfig()
		if err != nil {
			return nil, err
		}
		if cfg.AIProvider != ProviderGemini {
			cfg.AIAPIKey = config.ProviderAPIKey(ProviderGemini, h.getenv)
		}
		cfg.AIProvider = ProviderGemini
		cfg.Strategy = string(StrategySmartSequential)
		if cfg.AIAPIKey == "" {
			h.logger.Warn("No API key for gemini, AI healing disabled")
			cfg.AIProvider = ProviderNone
		}
		return h.build(page, cfg)
	})
}

// AutoHealWithConfig returns the shared locator, building it entirely from configuration
func (h *Helper) AutoHealWithConfig(page playwright.Page) (*Locator, error) {
	return h.get(func() (*Locator, error) {
		cfg, err := h.loadConfig()
		if err != nil {
			return nil, err
		}
		return h.build(page, cfg)
	})
}

func (h *Helper) get(build func() (*Locator, error)) (*Locator, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.locator != nil {
		return h.locator, nil
	}
	l, err := build()
	if err != nil {
		return nil, fmt.Errorf("failed to build locator: %w", err)
	}
	h.locator = l
	return l, nil
}

func (h *Helper) build(page playwright.Page, cfg config.AutoHealConfig) (*Locator, error) {
	b := NewBuilder().
		WithPlaywrightPage(page).
		WithConfig(cfg).
		WithLogger(h.logger)
	for _, opt := range h.options {
		opt(b)
	}
	return b.Build()
}

// Reset shuts the current locator down without writing reports and forgets it
func (h *Helper) Reset() error {
	h.mu.Lock()
	l := h.locator
	h.locator = nil
	h.mu.Unlock()

	if l == nil {
		return nil
	}
	return l.Shutdown("")
}

// ClearCache clears the current locator's cache, if there is one
func (h *Helper) ClearCache() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.locator != nil {
		h.locator.ClearCache()
	}
}

// Metrics returns the cache metrics of the current locator; false when none exists
func (h *Helper) Metrics() (CacheMetrics, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.locator == nil {
		return CacheMetrics{}, false
	}
	return h.locator.CacheMetrics(), true
}

// GenerateReports shuts the current locator down, writing reports to dir
// (DefaultReportsDir when empty), and forgets it
func (h *Helper) GenerateReports(dir string) error {
	if dir == "" {
		dir = DefaultReportsDir
	}

	h.mu.Lock()
	l := h.locator
	h.locator = nil
	h.mu.Unlock()

	if l == nil {
		return nil
	}
	return l.Shutdown(dir)
}
