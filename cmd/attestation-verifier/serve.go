package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	attestation "github.com/kacy/attestation-verifier"
	"github.com/kacy/attestation-verifier/config"
	"github.com/kacy/attestation-verifier/logging"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	configPath string
	host       string
	port       int
	logLevel   string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the verifier HTTP server",
		Long: `Run the verifier HTTP server until interrupted.

Configuration is read from the optional --config file (.yaml, .yml or .toml),
then from ATTEST_* / E2E_MODE / NULLIFIER_SALT / LOG_LEVEL environment
variables, then from flags.

Examples:
  attestation-verifier serve
  attestation-verifier serve --config verifier.yaml --port 8080
  E2E_MODE=true attestation-verifier serve --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			logger := logging.New(appName, cfg.LogLevel, cmd.OutOrStdout())

			ln, err := net.Listen("tcp", cfg.Addr())
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, ln, cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (.yaml, .yml or .toml)")
	cmd.Flags().StringVar(&opts.host, "host", "", "Listen host (overrides config)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Listen port (overrides config)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	return cmd
}

// resolve loads configuration and applies explicitly set flags on top.
func (o *serveOptions) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = o.host
	}
	if flags.Changed("port") {
		cfg.Port = o.port
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// serve runs the verifier on ln until ctx is cancelled, then shuts down
// gracefully.
func serve(ctx context.Context, ln net.Listener, cfg config.Config, logger *logrus.Logger) error {
	handler := attestation.NewServer(attestation.ServerConfig{
		ForceMock:           cfg.ForceMock,
		NullifierSalt:       cfg.NullifierSalt,
		UniqueSessionTokens: cfg.UniqueSessionTokens,
		AllowedOrigins:      cfg.AllowedOrigins,
		Logger:              logger,
	})

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       time.Duration(cfg.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:       time.Duration(cfg.IdleTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	logger.Infof("[%s] verifier listening on %s: %s", attestation.Environment, ln.Addr(), attestation.Disclaimer)
	if cfg.ForceMock {
		logger.Warnf("%s=true: every request is scored as trusted", config.EnvForceMock)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
