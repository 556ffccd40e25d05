package cli

import (
	"fmt"

	"resumatch/internal/common"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file] [job-file]",
	Short: "Score a resume record against a job record",
	Long: `Score a structured resume record against a job requirement record.
The command takes two arguments: the path to the resume record JSON file and
the path to the job record JSON file. Records carry pre-parsed fields
(skills, education, full text); no document parsing happens here.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if scoreConfig.OutputFormat == "" {
			scoreConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(scoreConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScore,
}

var scoreConfig common.CommandConfig

func init() {
	scoreCmd.Flags().StringVarP(&scoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = scoreCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	pipeline, _, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	err = common.RunEvaluationCommand(
		cmd.Context(),
		logger,
		scoreConfig,
		args[0], args[1],
		pipeline.Evaluate,
	)
	if err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}

	logger.Info("Scoring completed successfully")
	return nil
}
