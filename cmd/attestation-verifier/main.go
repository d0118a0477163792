// Command attestation-verifier runs the DEV attestation verifier and provides
// a small client for probing a running instance.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

const appName = "attestation-verifier"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "DEV-only device attestation verifier",
		Long: `attestation-verifier scores client integrity tokens with heuristic checks,
derives device nullifiers and issues session tokens.

It is a development stand-in: nothing is cryptographically verified and
every response is labeled with the DEV environment.`,
		Version:      Version,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newProbeCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
