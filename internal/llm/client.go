// Package llm talks to an OpenAI-compatible chat completion backend.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rtlsmith/rtlsmith/internal/config"
	"github.com/rtlsmith/rtlsmith/internal/domain"
)

// Client produces completions for design prompts.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, system, user string) (string, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// HTTPClient implements Client over the /chat/completions endpoint.
type HTTPClient struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	log        *logrus.Logger
}

// NewClient builds an HTTPClient from the backend configuration.
func NewClient(cfg config.BackendConfig, log *logrus.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey(),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout(),
		},
		log: log,
	}
}

// Complete sends a bare user prompt and returns the completion text.
func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a prompt with an optional system message. The
// completion text comes back verbatim; callers decide what an empty
// completion means.
func (c *HTTPClient) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(system) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})

	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", domain.NewError("generate", c.baseURL, "failed to encode completion request", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", domain.NewError("generate", endpoint, "failed to create completion request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.log.Debugf("calling %s model=%s prompt_len=%d", endpoint, c.model, len(user))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.NewErrorWithSuggestion("generate", endpoint,
			"completion request failed",
			"check backend.base_url and that the backend is reachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewError("generate", endpoint, "failed to read completion response", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("backend returned status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(respBody)))
		return "", domain.NewError("generate", endpoint, msg, nil)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", domain.NewError("generate", endpoint, "failed to decode completion response", err)
	}
	if parsed.Error != nil {
		return "", domain.NewError("generate", endpoint, "backend error: "+parsed.Error.Message, nil)
	}
	if len(parsed.Choices) == 0 {
		return "", domain.NewError("generate", endpoint, "backend returned no completion choices", nil)
	}

	content := parsed.Choices[0].Message.Content
	c.log.Debugf("backend returned %d chars", len(content))
	return content, nil
}
