package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/pinpoint/internal/batch"
	"github.com/Veraticus/pinpoint/internal/certs"
	"github.com/Veraticus/pinpoint/internal/config"
	"github.com/Veraticus/pinpoint/internal/httpapi"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the verification HTTP API",
		Long: `Serve POST /api/v1/verify and POST /api/v1/batch, plus /healthz and
/metrics. A missing extraction credential does not stop the server; each
verification then fails with a 500 response.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default from server.addr)")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed localhost certificate")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, appOptions{allowMissingCredential: true, withStorage: true})
	if err != nil {
		return err
	}
	defer a.Close()

	driver := batch.NewDriver(a.verifier, batch.Options{
		Logger:  a.logger,
		Metrics: a.metrics,
		Workers: viper.GetInt("batch.workers"),
	})

	cfg := httpapi.Config{
		Addr:          viper.GetString("server.addr"),
		Gatherer:      a.registry,
		VerifyTimeout: viper.GetDuration("server.verify_timeout"),
	}
	if viper.GetBool("server.tls") {
		store := certs.NewStore(config.ExpandPath(viper.GetString("server.cert_dir")), viper.GetStringSlice("server.tls_hosts")...)
		if cfg.TLS, err = store.TLSConfig(); err != nil {
			return fmt.Errorf("failed to prepare certificate: %w", err)
		}
		a.logger.Info("serving self-signed certificate", "cert", store.CertFile())
	}

	handler := httpapi.NewHandler(a.verifier, driver, a.logger)
	return httpapi.NewServer(handler, cfg, a.logger).Run(ctx)
}
