package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gayatri1064/summary-extractor/internal/schemas"
)

func newValidateCmd() *cobra.Command {
	var (
		in         string
		kind       string
		schemaPath string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a report or input manifest against its JSON schema",
		Long: `Checks a file against the embedded report or input schema.
With --schema, the file is checked against that schema file instead and --kind is ignored.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			label := kind
			if schemaPath != "" {
				label = filepath.Base(schemaPath) + " document"
				err = schemas.ValidateJSON(schemaPath, in)
			} else {
				data, readErr := os.ReadFile(in)
				if readErr != nil {
					return fmt.Errorf("failed to read %s: %w", in, readErr)
				}
				switch kind {
				case "report":
					err = schemas.ValidateReport(data)
				case "input":
					err = schemas.ValidateInput(data)
				default:
					return fmt.Errorf("unknown kind %q: want report or input", kind)
				}
			}

			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), validationErr.Error())
				return fmt.Errorf("%s is not a valid %s (%d errors)", in, label, len(validationErr.Errors))
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✅ %s is a valid %s\n", in, label)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "Path to the JSON file (required)")
	cmd.Flags().StringVar(&kind, "kind", "report", "What the file is: report or input")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "Path to a JSON Schema file to validate against instead of the embedded ones")

	if err := cmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	return cmd
}
