package common

import (
	"bytes"
	"encoding/json"
	"fmt"

	"resumatch/internal/errors"
	"resumatch/internal/types"
)

// ParseResumeRecord decodes a resume record from JSON.
func ParseResumeRecord(data []byte) (types.ResumeRecord, error) {
	var resume types.ResumeRecord
	if err := decodeStrict(data, &resume); err != nil {
		return types.ResumeRecord{}, errors.NewValidationError(errors.ErrCodeInvalidRecord,
			"Resume record is not valid JSON", err)
	}
	return resume, nil
}

// ParseJobRecord decodes a job record from JSON.
func ParseJobRecord(data []byte) (types.JobRecord, error) {
	var job types.JobRecord
	if err := decodeStrict(data, &job); err != nil {
		return types.JobRecord{}, errors.NewValidationError(errors.ErrCodeInvalidRecord,
			"Job record is not valid JSON", err)
	}
	return job, nil
}

// LoadRecords reads and decodes the resume and job record files.
func LoadRecords(fp *FileProcessor, resumePath, jobPath string) (types.ResumeRecord, types.JobRecord, error) {
	contents, err := fp.ValidateAndReadFiles(resumePath, jobPath)
	if err != nil {
		return types.ResumeRecord{}, types.JobRecord{}, err
	}

	resume, err := ParseResumeRecord([]byte(contents[0]))
	if err != nil {
		return types.ResumeRecord{}, types.JobRecord{}, err
	}

	job, err := ParseJobRecord([]byte(contents[1]))
	if err != nil {
		return types.ResumeRecord{}, types.JobRecord{}, err
	}

	return resume, job, nil
}

// decodeStrict decodes JSON rejecting unknown fields and trailing content.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected trailing content")
	}
	return nil
}
