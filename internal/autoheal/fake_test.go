package autoheal

import (
	"context"
	"html/template"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"github.com/themizzi/swaglabs/internal/config"
	"go.uber.org/zap/zaptest"
)

// fakeTarget resolves selectors against a static HTML document
type fakeTarget struct {
	mu         sync.Mutex
	url        string
	html       string
	screenshot []byte
	resolved   []string
	timeouts   []time.Duration
}

func newFakeTarget(t *testing.T, url, html string) *fakeTarget {
	t.Helper()
	return &fakeTarget{url: url, html: html, screenshot: []byte("png")}
}

func (f *fakeTarget) URL() string { return f.url }

func (f *fakeTarget) Content() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.html, nil
}

func (f *fakeTarget) Screenshot() ([]byte, error) { return f.screenshot, nil }

func (f *fakeTarget) Resolve(selector string, timeout time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolved = append(f.resolved, selector)
	f.timeouts = append(f.timeouts, timeout)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(f.html))
	if err != nil {
		return false, err
	}
	return doc.Find(selector).Length() > 0, nil
}

func (f *fakeTarget) Locator(string) playwright.Locator { return nil }

func (f *fakeTarget) setHTML(html string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.html = html
}

// timeoutFor returns the wait used for each Resolve of selector, in call order
func (f *fakeTarget) timeoutFor(selector string) []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []time.Duration
	for i, s := range f.resolved {
		if s == selector {
			out = append(out, f.timeouts[i])
		}
	}
	return out
}

func (f *fakeTarget) resolveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.resolved)
}

// fakeProvider answers with SuggestFunc and counts calls
type fakeProvider struct {
	name        string
	SuggestFunc func(ctx context.Context, req SuggestRequest) (Suggestion, error)
	calls       atomic.Int32
}

func (p *fakeProvider) Name() string {
	if p.name == "" {
		return "fake"
	}
	return p.name
}

func (p *fakeProvider) Suggest(ctx context.Context, req SuggestRequest) (Suggestion, error) {
	p.calls.Add(1)
	return p.SuggestFunc(ctx, req)
}

// renderTemplate renders a storefront template the way the server does
func renderTemplate(t *testing.T, name string, data any) string {
	t.Helper()
	tmpl, err := template.ParseFiles("../../templates/" + name)
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, tmpl.Execute(&b, data))
	return b.String()
}

func loginPageHTML(t *testing.T) string {
	return renderTemplate(t, "login.html", map[string]any{
		"Username":  "",
		"Error":     "",
		"Usernames": []string{"standard_user", "locked_out_user"},
	})
}

func testConfig() config.AutoHealConfig {
	cfg := config.DefaultAutoHealConfig()
	cfg.AIProvider = ProviderNone
	cfg.ElementTimeout = 10 * time.Millisecond
	return cfg
}

func buildTestLocator(t *testing.T, cfg config.AutoHealConfig, provider Provider) *Locator {
	t.Helper()
	b := NewBuilder().WithConfig(cfg).WithLogger(zaptest.NewLogger(t))
	if provider != nil {
		b = b.WithProvider(provider)
	}
	l, err := b.Build()
	require.NoError(t, err)
	return l
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
