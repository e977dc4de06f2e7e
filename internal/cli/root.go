package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roach88/phonebook/internal/config"
	"github.com/roach88/phonebook/internal/logging"
	"github.com/roach88/phonebook/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the phonebook CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "phonebook",
		Short: "Phonebook - contacts and people over HTTP",
		Long: `A phonebook service that stores contacts and people in SQLite
and exposes them through a JSON REST API.`,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the error once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter builds the OutputFormatter shared by every command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// loadConfig resolves the configuration file named by --config, applies the
// command's flag overrides and validates the result. --verbose lowers the
// log level to debug.
func (o *RootOptions) loadConfig(override func(*config.Config)) (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if override != nil {
		override(&cfg)
	}
	if o.Verbose {
		cfg.Logging.Level = zerolog.LevelDebugValue
	}

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid flags", err)
	}
	return cfg, nil
}

// newLogger builds the process logger writing to w.
func newLogger(cfg config.Config, w io.Writer) (zerolog.Logger, error) {
	log, err := logging.New(cfg.Logging, w)
	if err != nil {
		return zerolog.Nop(), WrapExitError(ExitCommandError, "failed to configure logging", err)
	}
	return log, nil
}

// openStore opens the configured database.
func openStore(cfg config.DatabaseConfig) (*store.Store, error) {
	st, err := store.Open(cfg.Path, store.WithDriver(cfg.Driver))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// DatabaseFlags are the database overrides shared by commands that open the
// store.
type DatabaseFlags struct {
	Path   string
	Driver string
}

func (f *DatabaseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Path, "db", "", "path to SQLite database (overrides config)")
	cmd.Flags().StringVar(&f.Driver, "driver", "", "database/sql driver: sqlite3 or sqlite (overrides config)")
}

func (f *DatabaseFlags) apply(cfg *config.Config) {
	if f.Path != "" {
		cfg.Database.Path = f.Path
	}
	if f.Driver != "" {
		cfg.Database.Driver = f.Driver
	}
}
