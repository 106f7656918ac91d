package extract

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/pinpoint/internal/common"
	"github.com/Veraticus/pinpoint/internal/llm"
	"github.com/Veraticus/pinpoint/internal/metrics"
	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/service"
)

// scriptedClient returns its responses in order, repeating the last one.
type scriptedClient struct {
	mu        sync.Mutex
	responses []scriptedResponse
	requests  []llm.Request
}

type scriptedResponse struct {
	err  error
	text string
}

func (c *scriptedClient) Complete(_ context.Context, req llm.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = append(c.requests, req)
	idx := len(c.requests) - 1
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	r := c.responses[idx]
	return r.text, r.err
}

func (c *scriptedClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

func fastRetry() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func newTestOracle(client llm.Client, m *metrics.Metrics) *Oracle {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOracle(client, Config{Retry: fastRetry()}, logger, m)
}

func transient() error {
	return &common.RetryableError{Err: &llm.APIError{Provider: "test", StatusCode: 503}, Retryable: true}
}

func TestOracle_Extract(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{{
		text: "```json\n{\"PremiseNumber\":\"12\",\"District\":\"Pune\",\"PIN\":\"411001\",\"AddressQuality\":\"Good\"}\n```",
	}}}
	m := metrics.New(prometheus.NewRegistry())
	oracle := newTestOracle(client, m)

	ref := model.PostalReference{
		Status:  model.ReferenceVerified,
		Offices: []model.PostOffice{{Name: "Pune City", SubDistrict: "Pune City", District: "Pune", State: "Maharashtra"}},
	}

	got, err := oracle.Extract(context.Background(), "12 MG Road Pune 411001", ref)
	require.NoError(t, err)
	assert.Equal(t, "12", got.PremiseNumber)
	assert.Equal(t, "411001", got.PIN)
	assert.Equal(t, model.QualityGood, got.AddressQuality)

	require.Equal(t, 1, client.calls())
	req := client.requests[0]
	assert.Contains(t, req.Prompt, "12 MG Road Pune 411001")
	assert.Contains(t, req.Prompt, "Pune City")
	assert.NotEmpty(t, req.System)
	assert.JSONEq(t, string(Schema), string(req.Schema))
	assert.InDelta(t, 1, testutil.ToFloat64(m.OracleCalls.WithLabelValues("ok")), 0)
}

func TestOracle_RetriesTransientFailures(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		{err: transient()},
		{err: transient()},
		{text: `{"District":"Kochi","AddressQuality":"Medium"}`},
	}}
	oracle := newTestOracle(client, nil)

	got, err := oracle.Extract(context.Background(), "Kochi", model.Unverified())
	require.NoError(t, err)
	assert.Equal(t, "Kochi", got.District)
	assert.Equal(t, 3, client.calls())
}

func TestOracle_ExhaustedRetries(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{{err: transient()}}}
	oracle := newTestOracle(client, nil)

	_, err := oracle.Extract(context.Background(), "Kochi", model.Unverified())
	require.ErrorIs(t, err, common.ErrExtractionUnavailable)
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Equal(t, 3, client.calls())
}

func TestOracle_NonRetryableFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		wantIs error
	}{
		{name: "missing credential", err: common.ErrMissingCredential, wantIs: common.ErrMissingCredential},
		{
			name:   "unauthorized",
			err:    &common.RetryableError{Err: &llm.APIError{Provider: "test", StatusCode: 401}},
			wantIs: common.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &scriptedClient{responses: []scriptedResponse{{err: tt.err}}}
			oracle := newTestOracle(client, nil)

			_, err := oracle.Extract(context.Background(), "x", model.Unverified())
			require.ErrorIs(t, err, tt.wantIs)
			assert.NotErrorIs(t, err, common.ErrExtractionUnavailable)
			assert.Equal(t, 1, client.calls())
		})
	}
}

func TestOracle_ParseFailureIsNotRetried(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{{text: "I could not read that address."}}}
	oracle := newTestOracle(client, nil)

	_, err := oracle.Extract(context.Background(), "x", model.Unverified())
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 1, client.calls())
}

func TestOracle_UnusableProviderReply(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "blocked prompt", body: `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`},
		{name: "body is not JSON", body: `not json at all`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := llm.NewClient(llm.Config{Provider: "gemini", APIKey: "k", BaseURL: srv.URL})
			require.NoError(t, err)
			m := metrics.New(prometheus.NewRegistry())
			oracle := newTestOracle(client, m)

			_, err = oracle.Extract(context.Background(), "Kochi", model.Unverified())
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.ErrorIs(t, err, llm.ErrBadResponse)
			assert.NotErrorIs(t, err, common.ErrExtractionUnavailable)
			assert.Equal(t, int32(1), calls.Load())
			assert.InDelta(t, 1, testutil.ToFloat64(m.OracleCalls.WithLabelValues("parse_error")), 0)
		})
	}
}

func TestOracle_FailureMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want string
	}{
		{
			name: "missing credential",
			ctx:  context.Background(),
			err:  common.ErrMissingCredential,
			want: "Text extraction service is not configured: missing API key",
		},
		{
			name: "unauthorized",
			ctx:  context.Background(),
			err:  &llm.APIError{Provider: "test", StatusCode: 403},
			want: "Text extraction service rejected the API key",
		},
		{
			name: "outage",
			ctx:  context.Background(),
			err:  transient(),
			want: "Text extraction service is unavailable, please retry later",
		},
		{
			name: "canceled",
			ctx:  ctx,
			err:  transient(),
			want: "Verification was canceled before it completed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &scriptedClient{responses: []scriptedResponse{{err: tt.err}}}
			oracle := newTestOracle(client, nil)

			_, err := oracle.Extract(tt.ctx, "x", model.Unverified())
			require.Error(t, err)
			assert.Equal(t, tt.want, common.UserMessage(err))
		})
	}
}

func TestOracle_UsesRateLimiter(t *testing.T) {
	limiter := llm.NewRateLimiter(1, 1)

	client := &scriptedClient{responses: []scriptedResponse{{text: `{"State":"Goa"}`}}}
	oracle := NewOracle(client, Config{Limiter: limiter, Retry: fastRetry()}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Drain the bucket so the next call has to wait on the canceled context.
	require.True(t, limiter.TryAcquire())

	_, err := oracle.Extract(ctx, "Panaji", model.Unverified())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, client.calls())
}

func TestBuildPrompt(t *testing.T) {
	verified := model.PostalReference{
		Status: model.ReferenceVerified,
		Offices: []model.PostOffice{
			{Name: "Kukatpally", SubDistrict: "", District: "Medchal Malkajgiri", State: "Telangana"},
		},
	}

	prompt := BuildPrompt("  Plot 9 KPHB 500072 ", verified)
	assert.Contains(t, prompt, "Plot 9 KPHB 500072")
	assert.Contains(t, prompt, "Kukatpally (sub-district: NA, district: Medchal Malkajgiri, state: Telangana)")
	assert.NotContains(t, prompt, "Infer the most likely 6-digit PIN")

	prompt = BuildPrompt("Plot 9 KPHB", model.Unverified())
	assert.Contains(t, prompt, "Infer the most likely 6-digit PIN")
	assert.Contains(t, prompt, "Remove consecutive repeated words")
}
