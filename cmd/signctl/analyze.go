package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"signflow-backend/internal/analysis"
	"signflow-backend/internal/compliance"
	"signflow-backend/internal/extract"
)

var analyzeOutputFormat string

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze a document before sending it for signature",
		Long: `Extract the document text, classify it, and run the compliance
checklist. Works offline: classification uses the deterministic keyword
fallback, no knowledge service required.

Examples:
  # Analyze a contract
  signctl analyze contract.pdf

  # Machine-readable output
  signctl analyze contract.pdf -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeOutputFormat, "output", "o", "human", "Output format (human, json)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Extracting document text..."
	s.Start()

	content, err := extract.FromBytes(context.Background(), data, "", filepath.Base(path))
	if err != nil {
		s.Stop()
		return fmt.Errorf("extract: %w", err)
	}
	s.Stop()
	printSuccess(fmt.Sprintf("Extracted %d words across %d page(s)", content.WordCount, content.PageCount))

	s.Suffix = " Analyzing..."
	s.Start()

	classifier, err := analysis.NewClassifier(nil)
	if err != nil {
		s.Stop()
		return err
	}
	engine, err := compliance.NewEngine(compliance.Config{})
	if err != nil {
		s.Stop()
		return err
	}
	svc := analysis.NewService(nil, nil, nil, classifier, engine)
	result := svc.AnalyzeContent(context.Background(), content, analysis.Context{UserID: "signctl"})

	s.Stop()
	printSuccess("Analysis complete")

	if analyzeOutputFormat == "json" {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printAnalysis(result)
	return nil
}

func printAnalysis(result analysis.Result) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println("Document Analysis")
	fmt.Printf("Type:       %s (%.0f%% confidence)\n", result.Classification.Type, result.Classification.Confidence*100)
	fmt.Printf("Compliance: %s\n", formatComplianceStatus(result.Compliance))
	fmt.Printf("Estimate:   %.0fh to full execution\n", result.EstimatedCompletionHours)
	fmt.Println()

	if len(result.Compliance.Issues) > 0 {
		color.New(color.FgYellow, color.Bold).Println("Issues")
		for _, issue := range result.Compliance.Issues {
			fmt.Printf("  - %s\n", issue)
		}
		fmt.Println()
	}

	if len(result.RiskFactors) > 0 {
		color.New(color.FgRed, color.Bold).Println("Risk factors")
		for _, risk := range result.RiskFactors {
			fmt.Printf("  - [%s/%s] %s\n", risk.Type, risk.Severity, risk.Description)
		}
		fmt.Println()
	}

	if len(result.Recommendations) > 0 {
		color.New(color.FgGreen, color.Bold).Println("Recommendations")
		for _, rec := range result.Recommendations {
			fmt.Printf("  - %s: %s\n", rec.Title, rec.Description)
		}
		fmt.Println()
	}
}

func formatComplianceStatus(result compliance.Result) string {
	label := fmt.Sprintf("%s (score %d/100)", result.Status, result.Score)
	switch result.Status {
	case compliance.StatusCompliant:
		return color.GreenString(label)
	case compliance.StatusNonCompliant:
		return color.RedString(label)
	default:
		return color.YellowString(label)
	}
}

func printSuccess(msg string) {
	color.New(color.FgGreen).Printf("✓ %s\n", msg)
}
