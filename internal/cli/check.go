package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/phonebook/internal/config"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	DatabaseFlags
	Ping bool
}

// CheckResult is the effective configuration, plus the database status when
// --ping was given.
type CheckResult struct {
	Config   config.Config `json:"config"`
	Database string        `json:"database,omitempty"`
}

func (r CheckResult) String() string {
	out, err := yaml.Marshal(r.Config)
	if err != nil {
		return fmt.Sprintf("%+v", r.Config)
	}
	s := strings.TrimRight(string(out), "\n")
	if r.Database != "" {
		s += "\n# database: " + r.Database
	}
	return s
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and print the effective values",
		Long: `Load the configuration (defaults, --config file, PHONEBOOK_* environment
variables, then flags), validate it and print the result.

With --ping the configured database is also opened and pinged.

Example:
  phonebook check --config ./phonebook.yaml
  phonebook check --db ./phonebook.db --ping --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Ping, "ping", false, "open the database and check the connection")
	opts.DatabaseFlags.register(cmd)

	return cmd
}

func runCheck(opts *CheckOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.loadConfig(opts.DatabaseFlags.apply)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return err
	}

	result := CheckResult{Config: cfg}

	if opts.Ping {
		formatter.VerboseLog("Opening %s with driver %s", cfg.Database.Path, cfg.Database.Driver)
		st, err := openStore(cfg.Database)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return err
		}
		defer st.Close()

		if err := st.Ping(cmd.Context()); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitFailure, "database ping failed", err)
		}
		result.Database = "ok"
	}

	return formatter.Success(result)
}
