package common

import (
	"context"

	"resumatch/internal/errors"
	"resumatch/internal/types"
)

// EvaluateFunc runs one evaluation of a resume against a job.
type EvaluateFunc func(context.Context, *types.ResumeRecord, *types.JobRecord) (types.EvaluationResult, error)

// RunEvaluationCommand encapsulates the common logic for file-based CLI
// commands: read and decode the record files, evaluate, write the result.
func RunEvaluationCommand(
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	resumePath, jobPath string,
	evaluate EvaluateFunc,
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	resume, job, err := LoadRecords(fileProcessor, resumePath, jobPath)
	if err != nil {
		return err
	}

	logger.Info("Evaluating resume against job",
		"resume", resumePath,
		"job", jobPath,
		"format", cmdConfig.OutputFormat)

	result, err := evaluate(ctx, &resume, &job)
	if err != nil {
		// Degraded input still yields a complete result; surface the
		// problem but keep the output.
		if !errors.IsType(err, errors.ErrorTypeInput) {
			return err
		}
		logger.LogError(err, "Evaluation completed with degraded input")
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
