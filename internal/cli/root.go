package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ian97531/origin/internal/class"
	"github.com/ian97531/origin/internal/responder"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	ConfigFile  string
	ScenarioDir string // default path for test when none is given

	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Config keys read from origin.yaml.
const (
	configName         = "origin"
	keyFormat          = "format"
	keyVerbose         = "verbose"
	keyScenarios       = "scenarios"
	defaultScenarioDir = "scenarios"
)

// NewRootCommand creates the root command for the origin CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "origin",
		Short: "origin - class composition and notification toolkit",
		Long: `Declare classes in CUE, compose them into live hierarchies and run
YAML scenarios that record how objects call, override and notify each other.

Settings are read from ./origin.yaml (or --config) and overridden by flags.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(opts, cmd.Flags()); err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.configureLogging(cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, keyVerbose, "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, keyFormat, "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "config file (default is ./origin.yaml)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// loadConfig layers defaults, the config file and explicitly set flags into
// opts. A missing ./origin.yaml is not an error; a missing --config file is.
func loadConfig(opts *RootOptions, flags *pflag.FlagSet) error {
	v := viper.New()
	v.SetDefault(keyFormat, "text")
	v.SetDefault(keyVerbose, false)
	v.SetDefault(keyScenarios, defaultScenarioDir)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	for _, key := range []string{keyFormat, keyVerbose} {
		if f := flags.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	opts.Format = v.GetString(keyFormat)
	opts.Verbose = v.GetBool(keyVerbose)
	opts.ScenarioDir = v.GetString(keyScenarios)
	return nil
}

// configureLogging installs a text handler on w for the class and responder
// packages. Verbose enables their debug records.
func (o *RootOptions) configureLogging(w io.Writer) {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	class.SetLogger(o.logger)
	responder.SetLogger(o.logger)
}

// Logger returns the configured logger, or one that discards everything
// when the command runs without the root's pre-run hook.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.logger
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
