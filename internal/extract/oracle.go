package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/pinpoint/internal/common"
	"github.com/Veraticus/pinpoint/internal/llm"
	"github.com/Veraticus/pinpoint/internal/metrics"
	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/service"
)

// Extractor is the contract the verification service depends on.
type Extractor interface {
	Extract(ctx context.Context, address string, ref model.PostalReference) (model.ExtractedComponents, error)
}

// Config controls how the Oracle calls its model.
type Config struct {
	// Limiter gates every model call. Nil disables rate limiting.
	Limiter *llm.RateLimiter
	Retry   service.RetryOptions
}

// Oracle extracts address components with a generative model.
type Oracle struct {
	client    llm.Client
	limiter   *llm.RateLimiter
	logger    *slog.Logger
	metrics   *metrics.Metrics
	retryOpts service.RetryOptions
}

// NewOracle creates an Oracle. A zero Retry gets three attempts with 1s, 2s backoff.
func NewOracle(client llm.Client, cfg Config, logger *slog.Logger, m *metrics.Metrics) *Oracle {
	retryOpts := cfg.Retry
	if retryOpts.MaxAttempts == 0 {
		retryOpts = common.DefaultRetryOptions()
	}
	if retryOpts.ShouldRetry == nil {
		retryOpts.ShouldRetry = common.IsRetryable
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Oracle{
		client:    client,
		limiter:   cfg.Limiter,
		logger:    logger,
		metrics:   m,
		retryOpts: retryOpts,
	}
}

// Extract asks the model for the components of address.
//
// A response that cannot be parsed, including a provider reply with no usable
// completion, yields a *ParseError, which callers treat as recoverable. Other
// failures come back as a *common.UserError; those that are neither credential
// problems nor cancellation also wrap ErrExtractionUnavailable.
func (o *Oracle) Extract(ctx context.Context, address string, ref model.PostalReference) (model.ExtractedComponents, error) {
	req := llm.Request{
		System: systemPrompt,
		Prompt: BuildPrompt(address, ref),
		Schema: Schema,
	}

	var response string
	attempt := 0
	err := common.WithRetry(ctx, func() error {
		attempt++
		if o.limiter != nil {
			if err := o.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		var callErr error
		response, callErr = o.client.Complete(ctx, req)
		if callErr != nil {
			o.logger.Debug("extraction attempt failed", "attempt", attempt, "error", callErr)
		}
		return callErr
	}, o.retryOpts)
	if errors.Is(err, llm.ErrBadResponse) {
		o.metrics.ObserveOracleCall("parse_error")
		o.logger.Warn("extraction response was not usable", "error", err)
		return model.ExtractedComponents{}, &ParseError{Err: err}
	}
	if err != nil {
		o.metrics.ObserveOracleCall("error")
		return model.ExtractedComponents{}, callFailure(ctx, err)
	}

	components, err := Parse(response)
	if err != nil {
		o.metrics.ObserveOracleCall("parse_error")
		o.logger.Warn("extraction response was not valid", "error", err, "response", truncate(response, 200))
		return model.ExtractedComponents{}, err
	}

	o.metrics.ObserveOracleCall("ok")
	o.logger.Debug("extraction complete",
		"attempts", attempt,
		"pin", components.PIN,
		"quality", components.AddressQuality)

	return components, nil
}

// callFailure attaches the message an Error record shows for err.
func callFailure(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrMissingCredential):
		return common.NewUserError("Text extraction service is not configured: missing API key", err)
	case errors.Is(err, common.ErrUnauthorized):
		return common.NewUserError("Text extraction service rejected the API key", err)
	case ctx.Err() != nil:
		return common.NewUserError("Verification was canceled before it completed", err)
	default:
		return common.NewUserError("Text extraction service is unavailable, please retry later",
			fmt.Errorf("%w: %w", common.ErrExtractionUnavailable, err))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
