package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/phonebook/internal/record"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	DatabaseFlags
	Kind       string
	StartsWith string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the records of one kind",
		Long: `Print the records of one kind straight from the database, ordered by name.

--starts-with keeps only the records whose name starts with the given
prefix, ignoring case.

Example:
  phonebook list --kind people
  phonebook list --kind contacts --starts-with gr --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", record.Contacts.Name, "record kind: contacts or people")
	cmd.Flags().StringVar(&opts.StartsWith, "starts-with", "", "only list names starting with this prefix")
	opts.DatabaseFlags.register(cmd)

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	kind, err := record.KindByName(opts.Kind)
	if err != nil {
		_ = formatter.Error(ErrCodeKind, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --kind", err)
	}

	cfg, err := opts.loadConfig(opts.DatabaseFlags.apply)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return err
	}

	st, err := openStore(cfg.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return err
	}
	defer st.Close()

	var recs []record.Record
	if opts.StartsWith != "" {
		formatter.VerboseLog("Searching %s for names starting with %q", kind.Name, opts.StartsWith)
		recs, err = st.SearchPrefix(cmd.Context(), kind, opts.StartsWith)
		// No match is an empty listing here, not a failure.
		if errors.Is(err, record.ErrNotFound) {
			recs, err = []record.Record{}, nil
		}
	} else {
		recs, err = st.List(cmd.Context(), kind, record.Filter{})
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitFailure, "list failed", err)
	}

	return formatter.Records(recs)
}
