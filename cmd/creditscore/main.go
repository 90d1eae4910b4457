package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"msme-credit-scoring-backend/internal/config"
	"msme-credit-scoring-backend/internal/logging"
)

var version = "dev"

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "creditscore",
		Short: "Score mobile-money statements offline",
		Long: `creditscore runs the same pipeline as the API server against a local statement
export: normalize, extract features, score with the classifier (or the rule-based
fallback), and explain the decision.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_ = config.LoadEnv()
			level, _ := cmd.Flags().GetString("log-level")
			logger, err := logging.NewLogger(logging.Config{Level: level, Format: "console", Output: "stderr"})
			if err != nil {
				return err
			}
			logging.SetGlobal(logger)
			return nil
		},
	}

	cmd.PersistentFlags().String("log-level", "error", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("model", config.GetEnv("MODEL_PATH", "credit_model.json"), "path to the JSON model file")

	cmd.AddCommand(scoreCmd())
	cmd.AddCommand(describeCmd())
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
