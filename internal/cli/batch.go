package cli

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"resumatch/internal/common"
	"resumatch/internal/types"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch [job-file] [resume-file]...",
	Short: "Score many resume records against one job record",
	Long: `Score multiple resume records against a single job requirement
record. Evaluations are independent and run concurrently on a bounded
worker pool. Output is a JSON array of per-resume results, in the order
the resume files were given.`,
	Args: cobra.MinimumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if batchWorkers < 1 {
			return fmt.Errorf("--workers must be at least 1")
		}
		return nil
	},
	RunE: runBatch,
}

var (
	batchConfig  common.CommandConfig
	batchWorkers int
)

func init() {
	batchCmd.Flags().StringVarP(&batchConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", runtime.NumCPU(), "Number of concurrent evaluations")
}

// BatchItem is one resume's result within a batch run.
type BatchItem struct {
	ResumeFile string                  `json:"resumeFile"`
	Result     *types.EvaluationResult `json:"result,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	pipeline, _, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	jobFile, resumeFiles := args[0], args[1:]
	fileProcessor := common.NewFileProcessor(logger)

	jobContents, err := fileProcessor.ValidateAndReadFiles(jobFile)
	if err != nil {
		return err
	}
	job, err := common.ParseJobRecord([]byte(jobContents[0]))
	if err != nil {
		return err
	}

	logger.Info("Starting batch scoring",
		"job", jobFile,
		"resumes", len(resumeFiles),
		"workers", batchWorkers)

	items := make([]BatchItem, len(resumeFiles))
	sem := make(chan struct{}, batchWorkers)
	var wg sync.WaitGroup

	for i, resumeFile := range resumeFiles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			items[i] = scoreOne(cmd.Context(), fileProcessor, pipeline.Evaluate, resumeFile, &job)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, item := range items {
		if item.Error == "" {
			succeeded++
		}
	}
	logger.Info("Batch scoring completed",
		"total", len(items),
		"succeeded", succeeded,
		"failed", len(items)-succeeded)

	// Batch output is JSON only.
	batchConfig.OutputFormat = "json"
	return common.NewOutputHandler(logger).HandleOutput(items, batchConfig)
}

func scoreOne(ctx context.Context, fp *common.FileProcessor, evaluate common.EvaluateFunc, resumeFile string, job *types.JobRecord) BatchItem {
	item := BatchItem{ResumeFile: resumeFile}

	contents, err := fp.ValidateAndReadFiles(resumeFile)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	resume, err := common.ParseResumeRecord([]byte(contents[0]))
	if err != nil {
		item.Error = err.Error()
		return item
	}

	result, err := evaluate(ctx, &resume, job)
	if err != nil {
		// Evaluation still completed; carry the result alongside the
		// degraded-input note.
		item.Error = err.Error()
	}
	item.Result = &result
	return item
}
