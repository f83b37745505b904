package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/idilsaglam/notesload/internal/cli"
	"github.com/idilsaglam/notesload/internal/config"
)

// app is shared by the root command and its subcommands.
type app struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "notesload [token]",
		Short: "Bulk-load notes into the notes API",
		Long: `notesload reads an ordered list of notes from a JSON (or YAML) file and
creates them one by one through the notes API, pausing between requests.

The token is read from JWT_TOKEN (environment or .env file), falling back to
the first argument. Every note is attempted; failures are reported and the
run carries on.`,
		Example: `  notesload eyJhbGciOi...
  JWT_TOKEN=eyJhbGciOi... notesload --file seed.yaml --delay 1s`,
		Args:              usageArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initLogger,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: a.runLoad,
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	config.PersistentFlags(root.PersistentFlags())
	config.Flags(root.Flags())
	root.SetFlagErrorFunc(usageError)

	root.AddCommand(newPreviewCmd(a), newAuthCmd(a))
	return root
}

func (a *app) initLogger(cmd *cobra.Command, args []string) error {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.DisableStacktrace = true
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if a.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// options resolves the config for cmd: defaults, .env, environment, flags.
func (a *app) options(cmd *cobra.Command, args []string) (cli.Options, error) {
	cfg, err := config.Load(config.DotEnvFile, os.Getenv)
	if err != nil {
		return cli.Options{}, err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return cli.Options{}, usageError(cmd, err)
	}
	return cli.Options{
		Config: cfg,
		Args:   args,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		Logger: a.logger,
	}, nil
}

func (a *app) runLoad(cmd *cobra.Command, args []string) error {
	opt, err := a.options(cmd, args)
	if err != nil {
		return err
	}
	// Per-note failures never fail the run.
	_, err = cli.Load(context.Background(), opt)
	return err
}

// usageError prints err with a hint and turns it into exit code 2.
func usageError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\nRun '%s --help' for usage.\n", err, cmd.CommandPath())
	return &cli.ExitError{Code: cli.ExitUsage, Err: err}
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError(cmd, err)
		}
		return nil
	}
}
