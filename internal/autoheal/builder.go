package autoheal

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/swaglabs/internal/config"
	"go.uber.org/zap"
)

// Builder assembles a Locator. Settings not given explicitly come from the
// AUTOHEAL_* environment unless WithConfig supplies a configuration.
type Builder struct {
	page         playwright.Page
	cfg          *config.AutoHealConfig
	providerName string
	provider     Provider
	strategy     Strategy
	logger       *zap.Logger
	httpClient   *http.Client
	now          func() time.Time
}

// NewBuilder starts a locator configuration
func NewBuilder() *Builder {
	return &Builder{}
}

// WithPlaywrightPage sets the page Find uses when it is called without one
func (b *Builder) WithPlaywrightPage(page playwright.Page) *Builder {
	b.page = page
	return b
}

// WithAIProvider selects a provider by name: gemini, openai, anthropic or none
func (b *Builder) WithAIProvider(name string) *Builder {
	b.providerName = strings.ToLower(strings.TrimSpace(name))
	return b
}

// WithProvider uses p instead of building a provider from configuration
func (b *Builder) WithProvider(p Provider) *Builder {
	b.provider = p
	return b
}

// WithStrategy sets the healing strategy
func (b *Builder) WithStrategy(s Strategy) *Builder {
	b.strategy = s
	return b
}

// WithConfig replaces environment loading with cfg
func (b *Builder) WithConfig(cfg config.AutoHealConfig) *Builder {
	b.cfg = &cfg
	return b
}

// WithLogger sets the logger
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithHTTPClient sets the client used for AI provider requests
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// Build validates the configuration and creates the Locator
func (b *Builder) Build() (*Locator, error) {
	var cfg config.AutoHealConfig
	if b.cfg != nil {
		cfg = *b.cfg
	} else {
		loaded, err := config.LoadAutoHealConfig()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if b.providerName != "" && b.providerName != cfg.AIProvider {
		cfg.AIProvider = b.providerName
		if cfg.AIAPIKey == "" {
			cfg.AIAPIKey = config.ProviderAPIKey(cfg.AIProvider, os.Getenv)
		}
	}
	if b.strategy != "" {
		cfg.Strategy = string(b.strategy)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	strategy, err := ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("autoheal")

	provider := b.provider
	if provider == nil {
		provider, err = NewProvider(cfg.AIProvider, ProviderOptions{
			APIKey:     cfg.AIAPIKey,
			Model:      cfg.AIModel,
			BaseURL:    cfg.AIAPIURL,
			Timeout:    cfg.AITimeout,
			MaxRetries: cfg.AIMaxRetries,
			HTTPClient: b.httpClient,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
	}

	l := &Locator{
		cfg:      cfg,
		strategy: strategy,
		provider: provider,
		metrics:  newMetricsRecorder(),
		logger:   logger,
		page:     b.page,
		now:      time.Now,
	}
	if b.now != nil {
		l.now = b.now
	}

	if cfg.CacheEnabled {
		l.cache = NewCache(cfg.CacheTTL, cfg.CacheMaxSize)
		l.cache.now = l.now
		if cfg.CacheFile != "" {
			n, err := l.cache.Load(cfg.CacheFile)
			if err != nil {
				logger.Warn("Ignoring unreadable cache file", zap.String("path", cfg.CacheFile), zap.Error(err))
			} else if n > 0 {
				logger.Info("Cache restored", zap.String("path", cfg.CacheFile), zap.Int("entries", n))
			}
		}
	}

	logger.Info("Locator ready",
		zap.Bool("enabled", cfg.Enabled),
		zap.String("provider", l.ProviderName()),
		zap.String("strategy", string(strategy)),
		zap.Bool("cache", cfg.CacheEnabled))
	return l, nil
}
