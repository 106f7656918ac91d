package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/pinpoint/internal/config"
	"github.com/Veraticus/pinpoint/internal/postal"
	"github.com/Veraticus/pinpoint/internal/reconcile"
)

func setDefaults() {
	viper.SetDefault("llm.provider", "gemini")
	viper.SetDefault("llm.timeout", 60*time.Second)
	viper.SetDefault("llm.max_retries", 3)
	viper.SetDefault("llm.retry_delay", time.Second)
	viper.SetDefault("llm.rate_limit", 60)
	viper.SetDefault("llm.rate_burst", 5)
	viper.SetDefault("llm.temperature", 0.1)
	viper.SetDefault("llm.max_tokens", 2048)

	viper.SetDefault("postal.base_url", postal.DefaultBaseURL)
	viper.SetDefault("postal.timeout", 10*time.Second)
	viper.SetDefault("postal.max_retries", 2)
	viper.SetDefault("postal.retry_delay", 500*time.Millisecond)
	viper.SetDefault("postal.cache", "memory")
	viper.SetDefault("postal.cache_size", 10000)
	viper.SetDefault("postal.redis_ttl", 7*24*time.Hour)

	rc := reconcile.DefaultConfig()
	viper.SetDefault("reconcile.short_address_threshold", rc.ShortAddressThreshold)
	viper.SetDefault("reconcile.density_chars_per_component", rc.DensityCharsPerComponent)
	viper.SetDefault("reconcile.max_density_requirement", rc.MaxDensityRequirement)
	viper.SetDefault("reconcile.cap_quality_on_critical", rc.CapQualityOnCritical)

	viper.SetDefault("storage.driver", "sqlite")
	viper.SetDefault("storage.path", filepath.Join(config.DataDir(), "pinpoint.db"))

	viper.SetDefault("batch.workers", 1)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.verify_timeout", 2*time.Minute)
	viper.SetDefault("server.tls", false)
	viper.SetDefault("server.cert_dir", filepath.Join(config.Dir(), "certs"))
	viper.SetDefault("sheets.token_file", filepath.Join(config.Dir(), "sheets-token.json"))
}
