package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"msme-credit-scoring-backend/internal/classifier"
	"msme-credit-scoring-backend/internal/logging"
	"msme-credit-scoring-backend/internal/models"
	"msme-credit-scoring-backend/internal/services/assessment"
	"msme-credit-scoring-backend/internal/services/explain"
	"msme-credit-scoring-backend/internal/services/features"
	"msme-credit-scoring-backend/internal/services/scoring"
	"msme-credit-scoring-backend/internal/services/statement"
)

func scoreCmd() *cobra.Command {
	var (
		summary  bool
		currency string
	)

	cmd := &cobra.Command{
		Use:   "score <statement.csv>",
		Short: "Score a statement and print the assessment",
		Long: `Score reads a statement CSV and prints the assessment as JSON, the same payload
POST /api/predict returns. A missing or unreadable model file is not an error:
the rule-based fallback scores the statement instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath, _ := cmd.Flags().GetString("model")
			svc := newService(modelPath, currency)

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			table, err := statement.ReadCSV(f)
			if err != nil {
				return err
			}

			resp, err := svc.Assess(cmd.Context(), table, filepath.Base(args[0]))
			if err != nil {
				return err
			}

			if summary {
				return writeSummary(cmd.OutOrStdout(), resp)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "print a short text summary instead of JSON")
	cmd.Flags().StringVar(&currency, "currency", "KES", "currency label used in explanations")
	return cmd
}

// newService loads the model when possible and builds the pipeline.
func newService(modelPath, currency string) *assessment.Service {
	logger := logging.L()

	model, err := classifier.LoadFile(modelPath)
	if err != nil {
		logger.Sugar().Warnf("classifier not loaded (%v), using fallback scoring", err)
	}

	return assessment.NewService(
		scoring.NewAdapter(model, logger),
		features.NewExtractor(nil),
		explain.NewEngine(currency),
		assessment.WithLogger(logger),
	)
}

func writeSummary(w io.Writer, resp *models.AssessmentResponse) error {
	p := resp.Prediction
	source := "rule-based fallback"
	if p.ModelUsed {
		source = p.ModelType
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Decision:      %s (score %s, via %s)\n", p.Status, humanize.FtoaWithDigits(p.Score, 2), source)
	fmt.Fprintf(&b, "Limit:         %s\n", humanize.CommafWithDigits(p.Limit, 2))
	fmt.Fprintf(&b, "Interest rate: %s%%\n", humanize.FtoaWithDigits(p.InterestRate, 2))
	fmt.Fprintf(&b, "Behavior:      %s, %s\n", p.Explanations.BusinessBehavior, p.Explanations.RiskAssessment)
	fmt.Fprintf(&b, "Transactions:  %s over %d days\n", humanize.Comma(int64(resp.Features.TransactionCount)), resp.Features.DaysCovered)
	for _, line := range p.Explanations.Explanations {
		fmt.Fprintf(&b, "  - %s\n", line)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
