package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"safescan/internal/config"
	"safescan/pkg/domain"
	"safescan/pkg/logger"
)

// checkCommand runs a single scan from the command line and prints the
// report as JSON, for ad-hoc use and smoke testing without the HTTP server.
func checkCommand(cfg *config.Config) *cobra.Command {
	var asToken bool

	cmd := &cobra.Command{
		Use:   "check [input]",
		Short: "Scans one input and prints the safety report",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()

			var hint domain.InputType
			if asToken {
				hint = domain.InputTypeToken
			}

			report, err := buildScanner(ctx, cfg).Scan(ctx, args[0], hint)
			if err != nil {
				logger.Fatal(ctx, "scan failed", zap.Error(err))
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				logger.Fatal(ctx, "could not encode report", zap.Error(err))
			}
		},
	}

	cmd.Flags().BoolVar(&asToken, "token", false, "treat an EVM address as a token contract")

	return cmd
}
