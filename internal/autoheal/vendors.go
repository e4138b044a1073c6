package autoheal

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
)

type geminiAPI struct{}

func (geminiAPI) defaultModel() string   { return "gemini-2.0-flash" }
func (geminiAPI) defaultBaseURL() string { return "https://generativelanguage.googleapis.com" }
func (geminiAPI) textPath() string       { return "candidates.0.content.parts.0.text" }

func (geminiAPI) newRequest(ctx context.Context, baseURL, model, apiKey, prompt string, screenshot []byte) (*http.Request, error) {
	parts := []map[string]any{{"text": prompt}}
	if len(screenshot) > 0 {
		parts = append(parts, map[string]any{
			"inline_data": map[string]string{
				"mime_type": "image/png",
				"data":      base64.StdEncoding.EncodeToString(screenshot),
			},
		})
	}
	payload := map[string]any{
		"contents":         []map[string]any{{"role": "user", "parts": parts}},
		"generationConfig": map[string]any{"temperature": 0},
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", baseURL, url.PathEscape(model))
	req, err := newJSONRequest(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", apiKey)
	return req, nil
}

type openAIAPI struct{}

func (openAIAPI) defaultModel() string   { return "gpt-4o-mini" }
func (openAIAPI) defaultBaseURL() string { return "https://api.openai.com" }
func (openAIAPI) textPath() string       { return "choices.0.message.content" }

func (openAIAPI) newRequest(ctx context.Context, baseURL, model, apiKey, prompt string, screenshot []byte) (*http.Request, error) {
	content := []map[string]any{{"type": "text", "text": prompt}}
	if len(screenshot) > 0 {
		content = append(content, map[string]any{
			"type": "image_url",
			"image_url": map[string]string{
				"url": "data:image/png;base64," + base64.StdEncoding.EncodeToString(screenshot),
			},
		})
	}
	payload := map[string]any{
		"model":       model,
		"temperature": 0,
		"messages":    []map[string]any{{"role": "user", "content": content}},
	}

	req, err := newJSONRequest(ctx, baseURL+"/v1/chat/completions", payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	return req, nil
}

type anthropicAPI struct{}

const anthropicVersion = "2023-06-01"

func (anthropicAPI) defaultModel() string   { return "claude-3-5-haiku-latest" }
func (anthropicAPI) defaultBaseURL() string { return "https://api.anthropic.com" }
func (anthropicAPI) textPath() string       { return "content.0.text" }

func (anthropicAPI) newRequest(ctx context.Context, baseURL, model, apiKey, prompt string, screenshot []byte) (*http.Request, error) {
	var content []map[string]any
	if len(screenshot) > 0 {
		content = append(content, map[string]any{
			"type": "image",
			"source": map[string]string{
				"type":       "base64",
				"media_type": "image/png",
				"data":       base64.StdEncoding.EncodeToString(screenshot),
			},
		})
	}
	content = append(content, map[string]any{"type": "text", "text": prompt})
	payload := map[string]any{
		"model":      model,
		"max_tokens": 1024,
		"messages":   []map[string]any{{"role": "user", "content": content}},
	}

	req, err := newJSONRequest(ctx, baseURL+"/v1/messages", payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	return req, nil
}
