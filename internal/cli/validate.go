package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/meanfield/internal/config"
	"github.com/roach88/meanfield/internal/fingerprint"
)

// ValidationIssue is one problem found in a configuration file.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool              `json:"valid"`
	Fingerprint string            `json:"fingerprint,omitempty"`
	Errors      []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Check a run configuration against the schema",
		Long: `Validate a .cue or .yaml run configuration without running inference.

Reports every schema violation (unknown fields, non-positive hyperparameters,
malformed data) with its line where known, and prints the configuration
fingerprint when the file is valid.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	formatter.VerboseLog("Validating %s", path)
	if errs := config.Validate(path); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return outputConfigError(formatter, err)
	}
	fp, err := fingerprint.Of(cfg)
	if err != nil {
		return outputCommandError(formatter, config.ErrCodeInvalid, err.Error())
	}

	if formatter.IsJSON() {
		return formatter.Success(ValidationResult{Valid: true, Fingerprint: fp})
	}
	fmt.Fprintf(formatter.Writer, "✓ %s is valid (fingerprint %s)\n", path, fingerprint.Short(fp))
	return nil
}

// outputValidationErrors outputs every validation problem.
func outputValidationErrors(formatter *OutputFormatter, errs []*config.Error) error {
	issues := make([]ValidationIssue, len(errs))
	for i, e := range errs {
		issues[i] = ValidationIssue{Code: e.Code, Message: e.Message, Line: e.Line()}
	}

	if formatter.IsJSON() {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: issues},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return WrapExitError(ExitCommandError, "writing output", err)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, issue := range issues {
		if issue.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", issue.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
}
