package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Veraticus/pinpoint/internal/common"
)

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrBadResponse marks a 200 response that carried no usable completion:
// an unreadable body, or no candidates because the provider blocked the
// prompt. It is not retried.
var ErrBadResponse = errors.New("provider returned no usable completion")

// Request is a single prompt sent to a provider.
type Request struct {
	System string
	Prompt string
	// Schema is a JSON schema the response must follow. Providers that can
	// enforce it do so; the rest rely on the prompt.
	Schema json.RawMessage
}

// APIError is a non-2xx response from a provider.
type APIError struct {
	Provider   string
	Body       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, truncate(e.Body, 300))
}

// Unwrap maps authorization failures and throttling onto the shared sentinels.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return common.ErrUnauthorized
	case http.StatusTooManyRequests:
		return common.ErrRateLimit
	default:
		return nil
	}
}

// Retryable reports whether the request may succeed if sent again.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= 500
}

// classify wraps err so the shared retry policy can tell transient failures apart.
func classify(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &common.RetryableError{Err: err, Retryable: apiErr.Retryable()}
	}
	return err
}

// postJSON sends body to url and decodes a 200 response into out.
// Transport failures come back retryable; non-200 responses as *APIError.
func postJSON(ctx context.Context, hc *http.Client, provider, url string, headers map[string]string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &common.RetryableError{Err: fmt.Errorf("%s request failed: %w", provider, err), Retryable: true}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &common.RetryableError{Err: fmt.Errorf("failed to read response: %w", err), Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		return classify(&APIError{Provider: provider, StatusCode: resp.StatusCode, Body: string(respBody)})
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: failed to parse %s response: %w", ErrBadResponse, provider, err)
	}
	return nil
}

type unavailableClient struct {
	err error
}

// Unavailable returns a client whose every call fails with err. It stands in
// for a provider that could not be configured, such as a missing API key.
func Unavailable(err error) Client {
	return &unavailableClient{err: err}
}

func (c *unavailableClient) Complete(context.Context, Request) (string, error) {
	return "", c.err
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
