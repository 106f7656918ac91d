package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"

	"github.com/Veraticus/pinpoint/internal/common"
	"github.com/Veraticus/pinpoint/internal/config"
	"github.com/Veraticus/pinpoint/internal/extract"
	"github.com/Veraticus/pinpoint/internal/llm"
	"github.com/Veraticus/pinpoint/internal/metrics"
	"github.com/Veraticus/pinpoint/internal/postal"
	"github.com/Veraticus/pinpoint/internal/reconcile"
	"github.com/Veraticus/pinpoint/internal/service"
	"github.com/Veraticus/pinpoint/internal/storage"
	"github.com/Veraticus/pinpoint/internal/verify"
)

// app holds the wired pipeline shared by the commands.
type app struct {
	verifier *verify.Service
	store    *storage.SQLStorage
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	logger   *slog.Logger
	// credErr is set when the Oracle has no usable credential.
	credErr error
	closers []func() error
}

type appOptions struct {
	// allowMissingCredential substitutes a failing Oracle client instead of
	// refusing to start.
	allowMissingCredential bool
	withStorage            bool
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	a := &app{
		logger:   slog.Default(),
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(a.registry)

	client, err := newLLMClient()
	if err != nil {
		if !errors.Is(err, common.ErrMissingCredential) || !opts.allowMissingCredential {
			return nil, err
		}
		a.logger.Warn("text extraction disabled", "provider", viper.GetString("llm.provider"), "error", err)
		a.credErr = err
		client = llm.Unavailable(err)
	}

	var limiter *llm.RateLimiter
	if rpm := viper.GetInt("llm.rate_limit"); rpm > 0 {
		limiter = llm.NewRateLimiter(rpm, viper.GetInt("llm.rate_burst"))
	}

	retry := common.DefaultRetryOptions()
	if n := viper.GetInt("llm.max_retries"); n > 0 {
		retry.MaxAttempts = n
	}
	if d := viper.GetDuration("llm.retry_delay"); d > 0 {
		retry.InitialDelay = d
	}
	oracle := extract.NewOracle(client, extract.Config{Limiter: limiter, Retry: retry}, a.logger, a.metrics)

	store, err := a.postalStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	lookup := postal.NewClient(postalConfig(), store, a.logger, a.metrics)

	engine := reconcile.NewEngine(lookup, reconcileConfig(), a.logger, a.metrics)

	svcOpts := []verify.Option{verify.WithLogger(a.logger), verify.WithMetrics(a.metrics)}
	if opts.withStorage {
		history, err := a.openStorage(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
		if history != nil {
			svcOpts = append(svcOpts, verify.WithStore(history))
		}
	}

	a.verifier = verify.NewService(lookup, oracle, engine, svcOpts...)
	return a, nil
}

// history returns the record store, or nil when storage is disabled.
func (a *app) history() service.RecordStore {
	if a.store == nil {
		return nil
	}
	return a.store
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to release resource", "error", err)
		}
	}
	a.closers = nil
}

func newLLMClient() (llm.Client, error) {
	provider := strings.ToLower(viper.GetString("llm.provider"))
	return llm.NewClient(llm.Config{
		Provider:    provider,
		APIKey:      apiKey(provider),
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		Timeout:     viper.GetDuration("llm.timeout"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	})
}

// apiKey prefers the configured key and falls back to the provider's
// conventional environment variables.
func apiKey(provider string) string {
	if key := viper.GetString("llm.api_key"); key != "" {
		return key
	}

	var names []string
	switch provider {
	case "openai":
		names = []string{"OPENAI_API_KEY"}
	case "anthropic":
		names = []string{"ANTHROPIC_API_KEY"}
	default:
		names = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	}
	for _, name := range names {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return ""
}

func (a *app) postalStore(ctx context.Context) (postal.Store, error) {
	switch kind := strings.ToLower(viper.GetString("postal.cache")); kind {
	case "", "memory":
		return postal.NewMemoryStore(), nil
	case "lru":
		store, err := postal.NewLRUStore(viper.GetInt("postal.cache_size"))
		if err != nil {
			return nil, fmt.Errorf("failed to create postal cache: %w", err)
		}
		return store, nil
	case "redis":
		url := viper.GetString("postal.redis_url")
		if url == "" {
			return nil, fmt.Errorf("%w: postal.redis_url is required for the redis cache", common.ErrMissingConfig)
		}
		client, err := postal.OpenRedis(ctx, url)
		if err != nil {
			return nil, err
		}
		store := postal.NewRedisStore(client, viper.GetDuration("postal.redis_ttl"), a.logger)
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown postal cache %q", common.ErrInvalidConfig, kind)
	}
}

func reconcileConfig() reconcile.Config {
	cfg := reconcile.DefaultConfig()
	if words := viper.GetStringSlice("reconcile.stop_words"); len(words) > 0 {
		cfg.StopWords = words
	}
	if tokens := viper.GetStringSlice("reconcile.leakage_tokens"); len(tokens) > 0 {
		cfg.LeakageTokens = tokens
	}
	if n := viper.GetInt("reconcile.short_address_threshold"); n > 0 {
		cfg.ShortAddressThreshold = n
	}
	if n := viper.GetInt("reconcile.density_chars_per_component"); n > 0 {
		cfg.DensityCharsPerComponent = n
	}
	if n := viper.GetInt("reconcile.max_density_requirement"); n > 0 {
		cfg.MaxDensityRequirement = n
	}
	if viper.IsSet("reconcile.cap_quality_on_critical") {
		cfg.CapQualityOnCritical = viper.GetBool("reconcile.cap_quality_on_critical")
	}
	return cfg
}

func postalConfig() postal.Config {
	return postal.Config{
		BaseURL:    viper.GetString("postal.base_url"),
		Timeout:    viper.GetDuration("postal.timeout"),
		MaxRetries: viper.GetInt("postal.max_retries"),
		RetryDelay: viper.GetDuration("postal.retry_delay"),
	}
}

// openStorage opens and migrates the history database. A "none" driver
// disables history and returns nil.
func (a *app) openStorage(ctx context.Context) (*storage.SQLStorage, error) {
	driver := strings.ToLower(viper.GetString("storage.driver"))
	if driver == "none" {
		return nil, nil
	}

	store, err := openStorage(ctx, driver)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	a.store = store
	return store, nil
}

// openStorage opens the configured database without migrating it.
func openStorage(ctx context.Context, driver string) (*storage.SQLStorage, error) {
	var source string
	switch driver {
	case "postgres", "postgresql":
		source = viper.GetString("storage.dsn")
		if source == "" {
			return nil, fmt.Errorf("%w: storage.dsn is required for postgres", common.ErrMissingConfig)
		}
	default:
		source = config.ExpandPath(viper.GetString("storage.path"))
	}

	store, err := storage.Open(ctx, driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}
