package cli

import (
	"context"
	"fmt"

	"resumedoctor/internal/ai"
	"resumedoctor/internal/analysis"
	"resumedoctor/internal/common"
	"resumedoctor/internal/config"
	"resumedoctor/internal/errors"
	"resumedoctor/internal/extract"
	"resumedoctor/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-pdf]",
	Short: "Run a full health check on a resume PDF",
	Long: `Analyze a resume PDF and produce a complete health-check report.

The report combines two independent tracks:
- Deterministic rule-based scoring (impact, brevity, style) with per-section
  findings. These numbers never depend on the AI model.
- AI-generated summary feedback and section suggestions, merged into the
  rule-based findings. When the model is unavailable the report falls back
  to a deterministic summary.

Pass --job-description or --job-file to also get a missing-keywords
comparison against a job posting.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var (
	analyzeConfig  common.CommandConfig
	jobDescription string
	jobFile        string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVarP(&jobDescription, "job-description", "j", "", "Job description text for keyword comparison")
	analyzeCmd.Flags().StringVar(&jobFile, "job-file", "", "File containing the job description")
	analyzeCmd.MarkFlagsMutuallyExclusive("job-description", "job-file")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	jd := jobDescription
	if jobFile != "" {
		content, err := common.NewFileProcessor(logger).ReadFile(jobFile)
		if err != nil {
			return fmt.Errorf("failed to read job description file: %w", err)
		}
		jd = content
	}

	pipeline, provider, err := buildPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	if provider != nil {
		defer func() {
			if err := provider.Close(); err != nil {
				logger.Warn("Failed to close AI provider", "error", err)
			}
		}()
	}

	logger.Info("Starting resume analysis",
		"file", args[0],
		"has_job_description", jd != "",
		"output_format", analyzeConfig.OutputFormat)

	operation := func(ctx context.Context, doc types.RawDocument) (types.AnalysisResult, error) {
		return pipeline.Analyze(ctx, doc, jd)
	}

	err = common.RunDocumentCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args[0],
		cfg.App.MaxFileSize,
		operation,
	)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	logger.Info("Resume analysis completed successfully")
	return nil
}

// buildPipeline constructs the analysis pipeline shared by the analyze and
// parse commands. A missing API key is not fatal: the pipeline runs with
// the generative track disabled and every report carries the deterministic
// fallback summary.
func buildPipeline(ctx context.Context, cfg *config.Config, logger *errors.Logger) (*analysis.Pipeline, ai.Provider, error) {
	extractor := extract.NewExtractor(cfg.Analysis.SectionHeaders, logger)

	if err := cfg.RequireAPIKey(); err != nil {
		logger.Warn("No AI API key configured, running with deterministic scoring only",
			"error", err.Error())
		return analysis.NewPipeline(extractor, logger,
			analysis.WithGenAITimeout(cfg.Analysis.GenAITimeout)), nil, nil
	}

	provider, err := ai.NewProvider(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create AI provider: %w", err)
	}

	pipeline := analysis.NewPipeline(extractor, logger,
		analysis.WithProvider(provider),
		analysis.WithGenAITimeout(cfg.Analysis.GenAITimeout))
	return pipeline, provider, nil
}
