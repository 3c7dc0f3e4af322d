package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobpost-checker/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an analysis JSON file",
	Long:  "Validate an analysis artifact written by 'analyze --out' against the analysis schema, or any JSON file against a schema given with --schema.",
	RunE:  runValidate,
}

var (
	validateJSONPath   string
	validateSchemaPath string
)

func init() {
	validateCmd.Flags().StringVar(&validateJSONPath, "json", "", "Path to the JSON file to validate (required)")
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "Path to a JSON schema (defaults to the built-in analysis schema)")

	_ = validateCmd.MarkFlagRequired("json")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	if validateSchemaPath != "" {
		err = schemas.ValidateJSON(validateSchemaPath, validateJSONPath)
	} else {
		err = schemas.ValidateAnalysisFile(validateJSONPath)
	}

	out := cmd.OutOrStdout()
	if err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprintf(out, "Validation failed:\n")
			for _, fe := range ve.Errors {
				fmt.Fprintf(out, "  - %s: %s\n", fe.Field, fe.Message)
			}
			return fmt.Errorf("validation failed with %d error(s)", len(ve.Errors))
		}
		return err
	}

	fmt.Fprintf(out, "Validation passed: %s\n", validateJSONPath)
	return nil
}
