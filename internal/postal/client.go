package postal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/pinpoint/internal/common"
	"github.com/Veraticus/pinpoint/internal/metrics"
	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/service"
)

// DefaultBaseURL is the public India Post PIN code API.
const DefaultBaseURL = "https://api.postalpincode.in/pincode"

// Lookuper resolves a PIN to its postal reference. It never fails; every
// error path resolves to an unverified reference.
type Lookuper interface {
	Lookup(ctx context.Context, pin string) model.PostalReference
}

// Config holds configuration for the postal lookup client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Client looks PIN codes up against the postal-code service.
type Client struct {
	httpClient *http.Client
	store      Store
	logger     *slog.Logger
	metrics    *metrics.Metrics
	baseURL    string
	retryOpts  service.RetryOptions
}

// NewClient creates a lookup client backed by store. A nil store gets an
// unbounded in-memory cache.
func NewClient(cfg Config, store Store, logger *slog.Logger, m *metrics.Metrics) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	retryOpts := common.DefaultRetryOptions()
	retryOpts.MaxAttempts = 2
	retryOpts.InitialDelay = 500 * time.Millisecond
	if cfg.MaxRetries > 0 {
		retryOpts.MaxAttempts = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		retryOpts.InitialDelay = cfg.RetryDelay
	}

	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		store:      store,
		logger:     logger,
		metrics:    m,
		baseURL:    strings.TrimRight(baseURL, "/"),
		retryOpts:  retryOpts,
	}
}

// Lookup resolves pin, consulting the cache first.
func (c *Client) Lookup(ctx context.Context, pin string) model.PostalReference {
	if !model.IsValidPIN(pin) {
		c.logger.Debug("rejecting malformed PIN", "pin", pin)
		return model.Unverified()
	}

	if ref, ok := c.store.Get(ctx, pin); ok {
		c.logger.Debug("postal cache hit", "pin", pin, "status", ref.Status)
		c.metrics.ObservePostalLookup(true, string(ref.Status))
		return ref
	}

	var ref model.PostalReference
	err := common.WithRetry(ctx, func() error {
		var fetchErr error
		ref, fetchErr = c.fetch(ctx, pin)
		return fetchErr
	}, c.retryOpts)
	if err != nil {
		c.logger.Warn("postal lookup failed", "pin", pin, "error", err)
		ref = model.Unverified()
		// A canceled caller says nothing about the PIN itself.
		if ctx.Err() != nil {
			return ref
		}
	}

	c.store.Set(ctx, pin, ref)
	c.metrics.ObservePostalLookup(false, string(ref.Status))
	c.logger.Debug("postal lookup complete", "pin", pin, "status", ref.Status, "offices", len(ref.Offices))

	return ref
}

// postOfficeResponse is one element of the service's JSON array.
type postOfficeResponse struct {
	Message    string `json:"Message"`
	Status     string `json:"Status"`
	PostOffice []struct {
		Name        string `json:"Name"`
		Taluk       string `json:"Taluk"`
		SubDistrict string `json:"SubDistrict"`
		Block       string `json:"Block"`
		District    string `json:"District"`
		State       string `json:"State"`
	} `json:"PostOffice"`
}

// fetch performs one HTTP lookup. A returned error means the attempt may be
// retried; definitive negative answers come back as an unverified reference.
func (c *Client) fetch(ctx context.Context, pin string) (model.PostalReference, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+pin, nil)
	if err != nil {
		return model.Unverified(), fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Unverified(), &common.RetryableError{Err: fmt.Errorf("%w: %w", common.ErrPostalUpstream, err), Retryable: true}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Unverified(), &common.RetryableError{Err: fmt.Errorf("failed to read response: %w", err), Retryable: true}
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return model.Unverified(), &common.RetryableError{
			Err:       fmt.Errorf("%w (status %d)", common.ErrPostalUpstream, resp.StatusCode),
			Retryable: true,
		}
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("postal service rejected PIN", "pin", pin, "status_code", resp.StatusCode)
		return model.Unverified(), nil
	}

	return parseResponse(body), nil
}

// parseResponse converts the service body into a reference. Anything short of
// a "Success" marker with at least one office is unverified.
func parseResponse(body []byte) model.PostalReference {
	var payload []postOfficeResponse
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return model.Unverified()
	}

	first := payload[0]
	if !strings.EqualFold(strings.TrimSpace(first.Status), "Success") || len(first.PostOffice) == 0 {
		return model.Unverified()
	}

	offices := make([]model.PostOffice, 0, len(first.PostOffice))
	for _, po := range first.PostOffice {
		offices = append(offices, model.PostOffice{
			Name:        strings.TrimSpace(po.Name),
			SubDistrict: firstNonEmpty(po.Taluk, po.SubDistrict, po.Block),
			District:    strings.TrimSpace(po.District),
			State:       strings.TrimSpace(po.State),
		})
	}

	return model.PostalReference{Status: model.ReferenceVerified, Offices: offices}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && !strings.EqualFold(v, "NA") {
			return v
		}
	}
	return ""
}
