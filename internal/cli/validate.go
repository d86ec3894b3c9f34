package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ian97531/origin/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                       `json:"valid"`
	Classes int                        `json:"classes"`
	Errors  []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate class declarations",
		Long: `Validate CUE class declarations without composing them.

Checks that every declaration decodes, that names, members and behavior
references are well formed, and that the inheritance graph has no unknown
parents or cycles.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeCollectAll)
	if loadResult == nil {
		code, message := loadErrorParts(loadErrors[0])
		return outputCommandError(formatter, code, message)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsDir)

	errs := validationErrorsFromLoad(loadErrors)
	for _, spec := range loadResult.Specs {
		formatter.VerboseLog("Validating class: %s", spec.Name)
	}
	errs = append(errs, compiler.ValidateAll(loadResult.Specs)...)

	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	if formatter.IsJSON() {
		return formatter.Success(ValidationResult{Valid: true, Classes: len(loadResult.Specs)})
	}
	fmt.Fprintf(formatter.Writer, "✓ All specs valid (%d class(es))\n", len(loadResult.Specs))
	return nil
}

// ValidateSpecsDir loads and validates every class in dir.
func ValidateSpecsDir(specsDir string) ([]compiler.ValidationError, error) {
	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeCollectAll)
	if loadResult == nil {
		return nil, loadErrors[0]
	}
	errs := validationErrorsFromLoad(loadErrors)
	return append(errs, compiler.ValidateAll(loadResult.Specs)...), nil
}

// validationErrorsFromLoad reports per-class compile failures alongside the
// schema errors so one run shows every problem.
func validationErrorsFromLoad(loadErrors []error) []compiler.ValidationError {
	var out []compiler.ValidationError
	for _, err := range loadErrors {
		code, message := loadErrorParts(err)
		out = append(out, compiler.ValidationError{Field: "load", Message: message, Code: code})
	}
	return out
}

func loadErrorParts(err error) (code, message string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		message = loadErr.Message
		if loadErr.Pos.IsValid() {
			message = fmt.Sprintf("%s:%d:%d: %s",
				loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column(), loadErr.Message)
		}
		return loadErr.Code, message
	}
	return ErrCodeGeneric, err.Error()
}

// outputCommandError writes one error and maps it to ExitCommandError.
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors writes every error and maps them to ExitFailure.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.IsJSON() {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error:  &CLIError{Code: errs[0].Code, Message: errs[0].Message},
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", err.Error())
	}
	return exitErr
}
