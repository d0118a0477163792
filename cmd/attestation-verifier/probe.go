package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	attestation "github.com/kacy/attestation-verifier"
)

var (
	okFmt   = color.New(color.FgGreen).SprintFunc()
	infoFmt = color.New(color.FgYellow).SprintFunc()
	dimFmt  = color.New(color.Faint).SprintFunc()
	errFmt  = color.New(color.FgRed, color.Bold).SprintFunc()
)

var errBelowThreshold = errors.New("trust score below threshold")

type probeOptions struct {
	url     string
	timeout time.Duration
}

func newProbeCmd() *cobra.Command {
	opts := &probeOptions{}

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Call a running verifier",
	}
	cmd.PersistentFlags().StringVar(&opts.url, "url", "http://localhost:3000", "Verifier base URL")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	cmd.AddCommand(newProbeHealthCmd(opts), newProbeVerifyCmd(opts))
	return cmd
}

func newProbeHealthCmd(opts *probeOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check verifier health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.endpoint(attestation.RouteHealth), nil)
			if err != nil {
				return err
			}

			var health attestation.HealthResponse
			if err := do(req, &health); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Status: %s\n", okFmt(health.Status))
			fmt.Fprintf(out, "Environment: %s\n", infoFmt(health.Environment))
			fmt.Fprintf(out, "%s\n", dimFmt(health.Disclaimer))
			return nil
		},
	}
}

type verifyOptions struct {
	platform  string
	token     string
	deviceKey string
	nonce     string
	mock      bool
	minTrust  float64
}

func newProbeVerifyCmd(opts *probeOptions) *cobra.Command {
	v := &verifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Submit an attestation and print the session",
		Long: `Submit an attestation to the verifier and print the resulting session.

Exits non-zero when the request is rejected or the trust score is below
--min-trust.

Examples:
  attestation-verifier probe verify --platform ios --token apple-abc --device-key dk --nonce n1
  attestation-verifier probe verify --platform web --token x --device-key dk --nonce n1 --mock`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := attestation.ParsePlatform(v.platform)
			if err != nil {
				return err
			}

			body, err := json.Marshal(&attestation.Request{
				Platform:       platform,
				IntegrityToken: v.token,
				DeviceKey:      v.deviceKey,
				Nonce:          v.nonce,
			})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.endpoint(attestation.RouteVerify), bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", attestation.ContentTypeJSON)
			if v.mock {
				req.Header.Set(attestation.MockHeader, "true")
			}

			var session attestation.SessionResponse
			if err := do(req, &session); err != nil {
				return err
			}

			scoreFmt := okFmt
			if session.TrustScore < v.minTrust {
				scoreFmt = errFmt
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Token: %s\n", session.Token)
			fmt.Fprintf(out, "Trust score: %s\n", scoreFmt(fmt.Sprintf("%.2f", session.TrustScore)))
			fmt.Fprintf(out, "Nullifier: %s\n", session.Nullifier)
			fmt.Fprintf(out, "Environment: %s\n", infoFmt(session.Environment))
			fmt.Fprintf(out, "%s\n", dimFmt(session.Disclaimer))

			if session.TrustScore < v.minTrust {
				return fmt.Errorf("%w: %.2f < %.2f", errBelowThreshold, session.TrustScore, v.minTrust)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&v.platform, "platform", "", "Client platform: web, ios or android")
	cmd.Flags().StringVar(&v.token, "token", "", "Integrity token")
	cmd.Flags().StringVar(&v.deviceKey, "device-key", "", "Device key")
	cmd.Flags().StringVar(&v.nonce, "nonce", "", "Nonce")
	cmd.Flags().BoolVar(&v.mock, "mock", false, "Request mock mode via the "+attestation.MockHeader+" header")
	cmd.Flags().Float64Var(&v.minTrust, "min-trust", 0.5, "Minimum acceptable trust score")
	_ = cmd.MarkFlagRequired("platform")
	return cmd
}

func (o *probeOptions) endpoint(route string) string {
	return strings.TrimRight(o.url, "/") + route
}

// do sends req and decodes a successful JSON response into dst. Error
// responses are returned as errors carrying the verifier's error code.
func do(req *http.Request, dst any) error {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr attestation.ErrorResponse
		if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.ErrorCode == "" {
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("verifier rejected request (%d %s): %s", resp.StatusCode, apiErr.ErrorCode, apiErr.Error)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
