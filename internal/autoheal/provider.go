package autoheal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Provider names
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderNone      = "none"
)

// maxPromptHTML caps the DOM snapshot sent to a provider
const maxPromptHTML = 60000

// SuggestRequest describes the element a provider should find
type SuggestRequest struct {
	Selector    string
	Description string
	URL         string
	HTML        string
	// Screenshot is a PNG; when set the provider answers from the image
	Screenshot []byte
}

// Suggestion is a provider's answer
type Suggestion struct {
	Selector   string  `json:"selector"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Provider proposes a replacement selector for a broken one
type Provider interface {
	Name() string
	Suggest(ctx context.Context, req SuggestRequest) (Suggestion, error)
}

// ProviderOptions configures an HTTP provider
type ProviderOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewProvider creates the named provider. "none" and "" return a nil Provider.
func NewProvider(name string, opts ProviderOptions) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	var api vendorAPI
	switch name {
	case "", ProviderNone:
		return nil, nil
	case ProviderGemini:
		api = geminiAPI{}
	case ProviderOpenAI:
		api = openAIAPI{}
	case ProviderAnthropic:
		api = anthropicAPI{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w for %s", ErrMissingAPIKey, name)
	}
	return newHTTPProvider(name, api, opts), nil
}

// vendorAPI is the wire format of one AI vendor
type vendorAPI interface {
	defaultModel() string
	defaultBaseURL() string
	newRequest(ctx context.Context, baseURL, model, apiKey, prompt string, screenshot []byte) (*http.Request, error)
	// textPath is the gjson path of the model's answer text
	textPath() string
}

// HTTPProvider talks to a vendor's JSON API
type HTTPProvider struct {
	name       string
	api        vendorAPI
	apiKey     string
	model      string
	baseURL    string
	maxRetries int
	httpClient *http.Client
	logger     *zap.Logger
}

func newHTTPProvider(name string, api vendorAPI, opts ProviderOptions) *HTTPProvider {
	p := &HTTPProvider{
		name:       name,
		api:        api,
		apiKey:     opts.APIKey,
		model:      opts.Model,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		maxRetries: opts.MaxRetries,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
	if p.model == "" {
		p.model = api.defaultModel()
	}
	if p.baseURL == "" {
		p.baseURL = api.defaultBaseURL()
	}
	if p.maxRetries < 0 {
		p.maxRetries = 0
	}
	if p.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		p.httpClient = &http.Client{Timeout: timeout}
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p
}

// Name returns the provider name
func (p *HTTPProvider) Name() string {
	return p.name
}

// Suggest asks the model for a selector, retrying rate limits, server errors and transport failures
func (p *HTTPProvider) Suggest(ctx context.Context, req SuggestRequest) (Suggestion, error) {
	prompt := buildPrompt(req)

	var body []byte
	attempt := 0
	operation := func() error {
		attempt++
		httpReq, err := p.api.newRequest(ctx, p.baseURL, p.model, p.apiKey, prompt, req.Screenshot)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := p.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			p.logger.Debug("AI request failed", zap.String("provider", p.name), zap.Int("attempt", attempt), zap.Error(err))
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			statusErr := &StatusError{Provider: p.name, StatusCode: resp.StatusCode, Body: truncate(string(data), 512)}
			if statusErr.Retryable() {
				p.logger.Debug("AI request will be retried", zap.String("provider", p.name), zap.Int("attempt", attempt), zap.Int("status", resp.StatusCode))
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		body = data
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), uint64(p.maxRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return Suggestion{}, err
	}

	text := gjson.GetBytes(body, p.api.textPath()).String()
	suggestion, err := ParseSuggestion(text)
	if err != nil {
		return Suggestion{}, fmt.Errorf("%s: %w", p.name, err)
	}
	p.logger.Debug("AI suggestion received",
		zap.String("provider", p.name),
		zap.String("selector", suggestion.Selector),
		zap.Float64("confidence", suggestion.Confidence))
	return suggestion, nil
}

func newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// StatusError is a non-200 answer from a provider
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed when repeated
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ParseSuggestion extracts the JSON answer from model output, which may wrap it
// in a markdown fence or surrounding prose
func ParseSuggestion(text string) (Suggestion, error) {
	text = strings.TrimSpace(text)
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}
	if !gjson.Valid(text) {
		return Suggestion{}, fmt.Errorf("%w: answer is not JSON", ErrNoSuggestion)
	}

	result := gjson.Parse(text)
	s := Suggestion{
		Selector:   strings.TrimSpace(result.Get("selector").String()),
		Confidence: result.Get("confidence").Float(),
		Reasoning:  result.Get("reasoning").String(),
	}
	if s.Selector == "" {
		return Suggestion{}, ErrNoSuggestion
	}
	s.Confidence = min(max(s.Confidence, 0), 1)
	return s, nil
}

func buildPrompt(req SuggestRequest) string {
	var b strings.Builder
	b.WriteString("You repair broken CSS selectors in browser tests.\n")
	fmt.Fprintf(&b, "Page URL: %s\n", req.URL)
	fmt.Fprintf(&b, "Broken selector: %s\n", req.Selector)
	fmt.Fprintf(&b, "Element description: %s\n", req.Description)
	if len(req.Screenshot) > 0 {
		b.WriteString("The attached screenshot shows the page. Find the described element on it.\n")
	}
	if req.HTML != "" {
		fmt.Fprintf(&b, "Page HTML:\n%s\n", truncate(req.HTML, maxPromptHTML))
	}
	b.WriteString(`Answer with JSON only: {"selector": "<css selector matching exactly one element>", "confidence": <0..1>, "reasoning": "<short>"}`)
	return b.String()
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func newJSONRequest(ctx context.Context, url string, payload any) (*http.Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
