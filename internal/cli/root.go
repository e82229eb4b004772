// Package cli implements the uagen command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FranksOps/uagen/internal/config"
	"github.com/FranksOps/uagen/internal/generator"
	"github.com/FranksOps/uagen/internal/storage"
	"github.com/FranksOps/uagen/internal/storage/open"
)

// Version is overridden at build time with -ldflags.
var Version = "0.3.0"

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRootCommand builds the uagen command tree. Running the root command
// without a subcommand generates user-agents.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "uagen",
		Short: "Generate unique Samsung mobile Chrome user-agents",
		Long: `uagen synthesizes plausible Chrome user-agent strings for Samsung Galaxy
devices, weighting device models, Android releases and Chrome versions by
approximate popularity. Every string it emits is recorded in a store and is
never emitted again.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runGenerate,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", generator.ErrInvalidArgument, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (TOML)")
	pf.StringP("output", "o", config.DefaultOutput, "store file path or postgres DSN")
	pf.String("backend", "", "store backend: json, csv, sqlite, bolt or postgres (default inferred from --output)")
	pf.String("log-level", config.DefaultLogLevel, "log level: DEBUG, INFO, WARNING or ERROR")
	addGenerateFlags(root)

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate new unique user-agents and append them to the store",
		Args:  cobra.NoArgs,
		RunE:  a.runGenerate,
	}
	addGenerateFlags(generate)

	root.AddCommand(generate)
	root.AddCommand(a.auditCmd())
	root.AddCommand(a.pickCmd())
	root.AddCommand(a.configCmd())
	root.AddCommand(versionCmd)

	return root
}

// setup resolves configuration and the logger for the command being run.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// loadStore opens the configured backend and reads the whole set.
func (a *app) loadStore(ctx context.Context) (*storage.Set, error) {
	kind, err := open.ParseKind(a.cfg.Backend)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generator.ErrInvalidArgument, err)
	}
	backend, err := open.New(ctx, kind, a.cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer backend.Close()

	set, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}
	return set, nil
}

// Execute runs the root command against os.Args and prints any error.
func Execute() error {
	err := NewRootCommand().Execute()
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

func printError(w io.Writer, err error) {
	color.New(color.FgRed, color.Bold).Fprint(w, "error: ")
	fmt.Fprintln(w, err)
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, generator.ErrInvalidArgument):
		return 2
	default:
		return 1
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of uagen",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "uagen v%s\n", Version)
	},
}
