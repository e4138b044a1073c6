package autoheal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"github.com/samber/lo"
	"github.com/themizzi/swaglabs/internal/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// verifyTimeout bounds the wait for a selector that came from the current DOM
const verifyTimeout = time.Second

// Result is a resolved selector and where it came from
type Result struct {
	Selector   string
	Source     Source
	Confidence float64
}

// Locator finds elements by selector, healing selectors that no longer match.
// It is safe for concurrent use.
type Locator struct {
	cfg      config.AutoHealConfig
	strategy Strategy
	provider Provider
	cache    *Cache
	metrics  *metricsRecorder
	logger   *zap.Logger
	page     playwright.Page
	now      func() time.Time

	mu       sync.Mutex
	events   []HealEvent
	shutdown bool
}

// Find returns a playwright locator for the element, healing selector when it
// no longer matches. page may be nil when the locator was built with a page.
func (l *Locator) Find(ctx context.Context, page playwright.Page, selector, description string) (playwright.Locator, error) {
	if page == nil {
		page = l.page
	}
	if page == nil {
		return nil, ErrNoPage
	}
	if !l.cfg.Enabled {
		if l.isShutdown() {
			return nil, ErrShutdown
		}
		return page.Locator(selector), nil
	}

	target := NewPageTarget(page)
	res, err := l.Locate(ctx, target, selector, description)
	if err != nil {
		return nil, err
	}
	return target.Locator(res.Selector), nil
}

// Locate resolves selector on target. The cache is consulted first, then the
// original selector, then the healing stages of the configured strategy.
func (l *Locator) Locate(ctx context.Context, target Target, selector, description string) (Result, error) {
	if l.isShutdown() {
		return Result{}, ErrShutdown
	}
	if !l.cfg.Enabled {
		return Result{Selector: selector, Source: SourceOriginal, Confidence: 1}, nil
	}

	start := l.now()
	logger := l.logger.With(zap.String("selector", selector), zap.String("description", description))
	key := CacheKey(pagePath(target.URL()), selector, description)

	if l.cache != nil {
		if entry, ok := l.cache.Get(key); ok {
			if found, _ := target.Resolve(entry.Selector, l.verifyTimeout()); found {
				logger.Debug("Cache hit", zap.String("cached", entry.Selector))
				l.metrics.request(SourceCache, true, l.now().Sub(start))
				return Result{Selector: entry.Selector, Source: SourceCache, Confidence: entry.Confidence}, nil
			}
			logger.Info("Cached selector is stale", zap.String("cached", entry.Selector))
			l.cache.Reject(key)
		}
	}

	found, err := target.Resolve(selector, l.cfg.ElementTimeout)
	if err != nil {
		logger.Debug("Original selector failed", zap.Error(err))
	}
	if found {
		res := Result{Selector: selector, Source: SourceOriginal, Confidence: 1}
		l.remember(key, res)
		l.metrics.request(SourceOriginal, true, l.now().Sub(start))
		return res, nil
	}

	logger.Info("Selector did not match, healing", zap.String("strategy", string(l.strategy)))
	res, stages, err := l.heal(ctx, target, selector, description)
	elapsed := l.now().Sub(start)

	event := HealEvent{
		ID:          uuid.NewString(),
		Time:        start,
		URL:         target.URL(),
		Selector:    selector,
		Description: description,
		Stages:      stages,
		Success:     err == nil,
		Duration:    elapsed,
	}
	if err != nil {
		event.Error = err.Error()
		l.record(event)
		l.metrics.request("", false, elapsed)
		logger.Warn("Healing failed", zap.Error(err))
		return Result{}, err
	}

	event.HealedSelector = res.Selector
	event.Source = res.Source
	event.Confidence = res.Confidence
	l.record(event)
	l.remember(key, res)
	l.metrics.request(res.Source, true, elapsed)
	logger.Info("Selector healed",
		zap.String("healed", res.Selector),
		zap.String("source", string(res.Source)),
		zap.Float64("confidence", res.Confidence),
		zap.Duration("elapsed", elapsed))
	return res, nil
}

func (l *Locator) heal(ctx context.Context, target Target, selector, description string) (Result, []Stage, error) {
	stages := lo.Filter(l.strategy.Stages(), func(st Stage, _ int) bool {
		return !st.usesAI() || l.provider != nil
	})
	if len(stages) == 0 {
		return Result{}, nil, fmt.Errorf("%w: %q (%s): no healing stage available", ErrElementNotFound, selector, description)
	}

	req := SuggestRequest{Selector: selector, Description: description, URL: target.URL()}
	if lo.ContainsBy(stages, func(st Stage) bool { return st != StageAIVisual }) {
		html, err := target.Content()
		if err != nil {
			return Result{}, nil, err
		}
		req.HTML = html
	}

	results := make([]Result, len(stages))
	errs := make([]error, len(stages))

	if l.strategy.Concurrent() {
		g, gctx := errgroup.WithContext(ctx)
		for i, st := range stages {
			i, st := i, st
			g.Go(func() error {
				results[i], errs[i] = l.runStage(gctx, st, target, req)
				// a failed stage must not cancel the others
				return nil
			})
		}
		_ = g.Wait()

		ok := lo.Filter(lo.Range(len(stages)), func(i int, _ int) bool { return errs[i] == nil })
		if len(ok) > 0 {
			best := lo.MaxBy(ok, func(a, b int) bool { return results[a].Confidence > results[b].Confidence })
			return results[best], stages, nil
		}
	} else {
		for i, st := range stages {
			if err := ctx.Err(); err != nil {
				return Result{}, stages[:i], err
			}
			results[i], errs[i] = l.runStage(ctx, st, target, req)
			if errs[i] == nil {
				return results[i], stages[:i+1], nil
			}
			l.logger.Debug("Healing stage failed", zap.String("stage", string(st)), zap.Error(errs[i]))
		}
	}

	names := lo.Map(stages, func(st Stage, _ int) string { return string(st) })
	return Result{}, stages, fmt.Errorf("%w: %q (%s) after %s: %w",
		ErrElementNotFound, selector, description, strings.Join(names, ", "), errors.Join(errs...))
}

func (l *Locator) runStage(ctx context.Context, st Stage, target Target, req SuggestRequest) (Result, error) {
	switch st {
	case StageHeuristic:
		candidates, err := HeuristicMatch(req.HTML, req.Selector, req.Description)
		if err != nil {
			return Result{}, err
		}
		for _, c := range candidates {
			if c.Score < l.cfg.MinConfidence {
				break
			}
			if c.Ambiguous {
				return Result{}, fmt.Errorf("%s: %q ties with another element, refusing to guess", st, c.Selector)
			}
			if found, _ := target.Resolve(c.Selector, l.verifyTimeout()); found {
				return Result{Selector: c.Selector, Source: SourceHeuristic, Confidence: c.Score}, nil
			}
		}
		return Result{}, fmt.Errorf("%s: no candidate reached confidence %.2f", st, l.cfg.MinConfidence)

	case StageAIDOM, StageAIVisual:
		if st == StageAIVisual {
			png, err := target.Screenshot()
			if err != nil {
				return Result{}, err
			}
			req.Screenshot = png
			req.HTML = ""
		}
		suggestion, err := l.provider.Suggest(ctx, req)
		l.metrics.aiCall(err)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", st, err)
		}
		if suggestion.Confidence < l.cfg.MinConfidence {
			return Result{}, fmt.Errorf("%s: suggestion %q has confidence %.2f below %.2f",
				st, suggestion.Selector, suggestion.Confidence, l.cfg.MinConfidence)
		}
		found, err := target.Resolve(suggestion.Selector, l.verifyTimeout())
		if err != nil {
			return Result{}, fmt.Errorf("%s: suggestion %q is not usable: %w", st, suggestion.Selector, err)
		}
		if !found {
			return Result{}, fmt.Errorf("%s: suggestion %q does not match the page", st, suggestion.Selector)
		}
		return Result{Selector: suggestion.Selector, Source: Source(st), Confidence: suggestion.Confidence}, nil
	}
	return Result{}, fmt.Errorf("unsupported stage %q", st)
}

func (l *Locator) verifyTimeout() time.Duration {
	return min(verifyTimeout, l.cfg.ElementTimeout)
}

func (l *Locator) remember(key string, res Result) {
	if l.cache == nil {
		return
	}
	l.cache.Put(CacheEntry{Key: key, Selector: res.Selector, Source: res.Source, Confidence: res.Confidence})
}

func (l *Locator) record(event HealEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *Locator) isShutdown() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shutdown
}

// ClearCache drops every cached selector
func (l *Locator) ClearCache() {
	if l.cache != nil {
		l.cache.Clear()
	}
}

// CacheMetrics returns the cache counters; all zero when caching is disabled
func (l *Locator) CacheMetrics() CacheMetrics {
	if l.cache == nil {
		return CacheMetrics{}
	}
	return l.cache.Metrics()
}

// Metrics returns the healing counters
func (l *Locator) Metrics() HealingMetrics {
	return l.metrics.snapshot()
}

// Events returns the healing attempts recorded so far
func (l *Locator) Events() []HealEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]HealEvent(nil), l.events...)
}

// Strategy returns the configured healing strategy
func (l *Locator) Strategy() Strategy {
	return l.strategy
}

// ProviderName returns the AI provider in use, or "none"
func (l *Locator) ProviderName() string {
	if l.provider == nil {
		return ProviderNone
	}
	return l.provider.Name()
}

// Shutdown persists the cache and, when reportDir is set and reports are
// enabled, writes the JSON and HTML reports. Later calls do nothing.
func (l *Locator) Shutdown(reportDir string) error {
	l.mu.Lock()
	if l.shutdown {
		l.mu.Unlock()
		return nil
	}
	l.shutdown = true
	events := append([]HealEvent(nil), l.events...)
	l.mu.Unlock()

	var errs []error
	if l.cache != nil && l.cfg.CacheFile != "" {
		if err := l.cache.Save(l.cfg.CacheFile); err != nil {
			errs = append(errs, err)
		} else {
			l.logger.Debug("Cache saved", zap.String("path", l.cfg.CacheFile), zap.Int("entries", l.cache.Len()))
		}
	}

	if reportDir != "" && l.cfg.ReportsEnabled {
		jsonPath, htmlPath, err := WriteReports(reportDir, Report{
			GeneratedAt: l.now(),
			Strategy:    l.strategy,
			Provider:    l.ProviderName(),
			Healing:     l.Metrics(),
			Cache:       l.CacheMetrics(),
			Events:      events,
		})
		if err != nil {
			errs = append(errs, err)
		} else {
			l.logger.Info("Self-healing reports written", zap.String("json", jsonPath), zap.String("html", htmlPath))
		}
	}

	return errors.Join(errs...)
}

// pagePath keys the cache by path so query strings and hosts do not split entries
func pagePath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return raw
	}
	return u.Path
}
