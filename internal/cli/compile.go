package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ian97531/origin/internal/class"
	"github.com/ian97531/origin/internal/compiler"
	"github.com/ian97531/origin/internal/engine"
	"github.com/ian97531/origin/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// ClassSummary is the resolved view of one composed class.
type ClassSummary struct {
	Name      string         `json:"name"`
	Parent    string         `json:"parent"`
	ID        string         `json:"id"`
	Ancestors []string       `json:"ancestors"`
	Members   map[string]any `json:"members"`
	Statics   map[string]any `json:"statics"`
}

// CompilationResult holds every declared class, parents first.
type CompilationResult struct {
	Classes []ClassSummary `json:"classes"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <specs-dir>",
		Short: "Compose classes and print their resolved members",
		Long: `Compose CUE class declarations into live classes and print each
class's flattened instance template and class-level members.

Data members print as their values and methods as "<method>". Class
identities are sequential (class-1, class-2, ...) so output is stable.
With --output the result is also written as canonical JSON.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeCollectAll)
	if loadResult == nil {
		code, message := loadErrorParts(loadErrors[0])
		return outputCommandError(formatter, code, message)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsDir)

	errs := validationErrorsFromLoad(loadErrors)
	errs = append(errs, compiler.ValidateAll(loadResult.Specs)...)
	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	eng, err := engine.New(loadResult.Specs,
		engine.WithIDGenerator(class.NewSequenceGenerator("class")),
		engine.WithLogger(opts.Logger()),
	)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}

	result, err := summarize(eng)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	for _, c := range result.Classes {
		formatter.VerboseLog("Composed class: %s (%s)", c.Name, c.ID)
	}

	if opts.Output != "" {
		if err := writeCanonical(result, opts.Output); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	printCompilation(formatter, result, opts.Output)
	return nil
}

// summarize resolves every declared class of eng in composition order.
func summarize(eng *engine.Engine) (*CompilationResult, error) {
	result := &CompilationResult{Classes: []ClassSummary{}}
	for _, name := range eng.ClassNames() {
		c, err := eng.Class(name)
		if err != nil {
			return nil, err
		}
		summary := ClassSummary{
			Name:    name,
			Parent:  c.Superclass().String(),
			ID:      c.ID(),
			Members: canonicalMembers(eng, c.Members()),
			Statics: canonicalMembers(eng, c.Statics()),
		}
		for _, anc := range c.Ancestors()[1:] {
			summary.Ancestors = append(summary.Ancestors, anc.String())
		}
		result.Classes = append(result.Classes, summary)
	}
	return result, nil
}

func canonicalMembers(eng *engine.Engine, members class.Members) map[string]any {
	out := make(map[string]any, len(members))
	for name, v := range members {
		out[name] = eng.Canonical(v)
	}
	return out
}

func (r *CompilationResult) canonical() []any {
	classes := make([]any, len(r.Classes))
	for i, c := range r.Classes {
		ancestors := make([]any, len(c.Ancestors))
		for j, a := range c.Ancestors {
			ancestors[j] = a
		}
		classes[i] = map[string]any{
			"name":      c.Name,
			"parent":    c.Parent,
			"id":        c.ID,
			"ancestors": ancestors,
			"members":   c.Members,
			"statics":   c.Statics,
		}
	}
	return classes
}

// writeCanonical writes r as canonical JSON to path.
func writeCanonical(r *CompilationResult, path string) error {
	data, err := ir.MarshalCanonical(map[string]any{"classes": r.canonical()})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printCompilation(formatter *OutputFormatter, r *CompilationResult, outputFile string) {
	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d class(es)\n\n", len(r.Classes))
	for _, c := range r.Classes {
		fmt.Fprintf(w, "%s (%s) extends %s\n", c.Name, c.ID, strings.Join(c.Ancestors, " -> "))
		for _, name := range ir.SortedKeys(c.Members) {
			fmt.Fprintf(w, "  %s = %s\n", name, formatValue(c.Members[name]))
		}
		for _, name := range ir.SortedKeys(c.Statics) {
			fmt.Fprintf(w, "  static %s = %s\n", name, formatValue(c.Statics[name]))
		}
		fmt.Fprintln(w)
	}
	if outputFile != "" {
		fmt.Fprintf(w, "Wrote canonical JSON to %s\n", outputFile)
	}
}

// formatValue renders a member value as canonical JSON, falling back to
// %v for values the canonical writer rejects.
func formatValue(v any) string {
	if s, ok := v.(string); ok && s == "<method>" {
		return s
	}
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
