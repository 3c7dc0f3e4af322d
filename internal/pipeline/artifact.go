package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/jobpost-checker/internal/schemas"
)

// MarshalArtifact serializes res and checks it against the analysis schema.
func MarshalArtifact(res *Result) ([]byte, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis: %w", err)
	}
	if err := schemas.ValidateAnalysis(data); err != nil {
		return nil, fmt.Errorf("analysis failed schema validation: %w", err)
	}
	return data, nil
}

// WriteArtifact writes the validated JSON form of res to path, creating parent directories.
func WriteArtifact(path string, res *Result) error {
	data, err := MarshalArtifact(res)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write analysis file: %w", err)
	}
	return nil
}
