package cli

import (
	"context"
	"fmt"

	"resumedoctor/internal/analysis"
	"resumedoctor/internal/common"
	"resumedoctor/internal/extract"
	"resumedoctor/internal/types"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [resume-pdf]",
	Short: "Extract structured candidate data from a resume PDF",
	Long: `Parse a resume PDF and print the structured candidate data recovered
from it: full name, email address, skills, and work experience entries.

Parsing is best effort and purely deterministic. Fields that cannot be
recovered are left empty, never reported as errors. No AI model is used.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if parseConfig.OutputFormat == "" {
			parseConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(parseConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runParse,
}

var parseConfig common.CommandConfig

func init() {
	parseCmd.Flags().StringVarP(&parseConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().StringVar(&parseConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// No provider: parsing never touches the generative track.
	extractor := extract.NewExtractor(cfg.Analysis.SectionHeaders, logger)
	pipeline := analysis.NewPipeline(extractor, logger)

	logger.Info("Starting resume parse",
		"file", args[0],
		"output_format", parseConfig.OutputFormat)

	operation := func(ctx context.Context, doc types.RawDocument) (types.ParsedCandidate, error) {
		return pipeline.Parse(doc)
	}

	err := common.RunDocumentCommand(
		cmd.Context(),
		logger,
		parseConfig,
		args[0],
		cfg.App.MaxFileSize,
		operation,
	)
	if err != nil {
		return fmt.Errorf("failed to parse resume: %w", err)
	}

	logger.Info("Resume parse completed successfully")
	return nil
}
