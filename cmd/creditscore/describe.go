package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"msme-credit-scoring-backend/internal/classifier"
	"msme-credit-scoring-backend/internal/logging"
	"msme-credit-scoring-backend/internal/services/scoring"
)

func describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Show what the model file declares",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			modelPath, _ := cmd.Flags().GetString("model")

			model, err := classifier.LoadFile(modelPath)
			if err != nil {
				return err
			}

			info := scoring.NewAdapter(model, logging.L()).Describe()
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}
