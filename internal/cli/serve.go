package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/phonebook/internal/api"
	"github.com/roach88/phonebook/internal/config"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	DatabaseFlags
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the phonebook HTTP API",
		Long: `Start the phonebook HTTP API.

The database is created if it does not exist. The server stops gracefully
on SIGINT or SIGTERM.

Example:
  phonebook serve --db ./phonebook.db
  phonebook serve --config ./phonebook.yaml --addr 127.0.0.1:9000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address, host:port (overrides config)")
	opts.DatabaseFlags.register(cmd)

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig(func(cfg *config.Config) {
		opts.DatabaseFlags.apply(cfg)
		if opts.Addr != "" {
			cfg.Server.Addr = opts.Addr
		}
	})
	if err != nil {
		return err
	}

	log, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	st, err := openStore(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("error closing database")
		}
	}()
	log.Info().
		Str("path", cfg.Database.Path).
		Str("driver", st.Driver()).
		Msg("database ready")

	// Use command's context if available (for testing)
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(st, log)
	if err := srv.Run(ctx, cfg.Server); err != nil {
		return WrapExitError(ExitFailure, "server error", err)
	}

	log.Info().Msg("server stopped gracefully")
	return nil
}
