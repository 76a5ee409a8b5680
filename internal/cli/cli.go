package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"localize-gen/internal/config"
	"localize-gen/internal/watch"
)

// Version is stamped into generated code. Overridden at link time.
var Version = "1.0.0"

// errDiagnostics marks a run that reported error diagnostics. They have
// already been printed.
var errDiagnostics = errors.New("generation reported errors")

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(consoleWriter(os.Stderr))

	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			log.Error().Err(err).Msg("Command failed")
		}
		os.Exit(1)
	}
}

// consoleWriter colors log output only when f is a terminal.
func consoleWriter(f *os.File) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: f, NoColor: !isTerminal(f), TimeFormat: time.DateTime}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type globalFlags struct {
	project    string
	configFile string
}

func newRootCmd() *cobra.Command {
	var gf globalFlags

	rootCmd := &cobra.Command{
		Use:           "localize-gen",
		Short:         "Generate strongly typed localization accessors for Flow Launcher plugins",
		Long:          "Reads Languages/*.xaml resource dictionaries and C# sources, reports localization problems and generates the Localize accessor class.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&gf.project, "project", "p", ".", "Project directory")
	pf.StringVar(&gf.configFile, "config", "", "Configuration file (default <project>/localize.yaml)")
	pf.StringP("output", "o", "", "Output directory for generated files (default: project directory)")
	pf.String("assembly", "", "Assembly name and namespace of the generated code")
	pf.StringP("configuration", "c", "", "Build configuration: Debug or Release")
	pf.Bool("di", false, "Generate for dependency-injection plugins")
	pf.String("canonical", "", "Canonical dictionary language")
	pf.StringSlice("core", nil, "Assemblies that own the translation manager")
	pf.Bool("exclude-unused", false, "Drop unused keys from Release output")
	pf.Int("workers", 0, "Concurrent file workers")
	pf.Int("cache-size", 0, "Entries per stage cache")
	pf.StringSlice("exclude", nil, "Additional exclude globs")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(generateCmd(&gf))
	rootCmd.AddCommand(checkCmd(&gf))
	rootCmd.AddCommand(watchCmd(&gf))

	return rootCmd
}

func generateCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Analyze the project and write the generated accessor files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, gf, true)
		},
	}
}

func checkCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Analyze the project and report diagnostics without writing files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, gf, false)
		},
	}
}

func watchCmd(gf *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever dictionaries, sources or the project file change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			debounce, _ := cmd.Flags().GetDuration("debounce")
			return runWatch(cmd, gf, debounce)
		},
	}
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period before regenerating")
	return cmd
}

func runOnce(cmd *cobra.Command, gf *globalFlags, write bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	r, err := newRunner(cmd, gf)
	if err != nil {
		return err
	}

	out, err := r.run(ctx, write)
	if err != nil {
		return err
	}
	if out.failed {
		return errDiagnostics
	}
	return nil
}

func runWatch(cmd *cobra.Command, gf *globalFlags, debounce time.Duration) error {
	ctx, cancel := setupContext()
	defer cancel()

	r, err := newRunner(cmd, gf)
	if err != nil {
		return err
	}

	log.Info().Str("project", r.cfg.ProjectDir).Msg("Watching for changes")
	w := watch.New(r.cfg.ProjectDir, debounce, r.walker.Relevant)
	return w.Run(ctx, func(ctx context.Context) error {
		_, err := r.run(ctx, true)
		return err
	})
}

// loadConfig layers flags the user set over the file and environment
// configuration.
func loadConfig(flags *pflag.FlagSet, gf *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(gf.project, gf.configFile)
	if err != nil {
		return nil, err
	}
	if flags.Changed("project") {
		cfg.ProjectDir = gf.project
	}
	if flags.Changed("output") {
		cfg.OutputDir, _ = flags.GetString("output")
	}
	if flags.Changed("assembly") {
		cfg.AssemblyName, _ = flags.GetString("assembly")
	}
	if flags.Changed("configuration") {
		cfg.Configuration, _ = flags.GetString("configuration")
	}
	if flags.Changed("di") {
		v, _ := flags.GetBool("di")
		cfg.UseDependencyInjection = &v
	}
	if flags.Changed("canonical") {
		cfg.CanonicalLanguage, _ = flags.GetString("canonical")
	}
	if flags.Changed("core") {
		cfg.CoreAssemblies, _ = flags.GetStringSlice("core")
	}
	if flags.Changed("exclude-unused") {
		cfg.ExcludeUnusedOnOptimize, _ = flags.GetBool("exclude-unused")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("cache-size") {
		cfg.CacheSize, _ = flags.GetInt("cache-size")
	}
	if flags.Changed("exclude") {
		extra, _ := flags.GetStringSlice("exclude")
		cfg.Exclude = append(cfg.Exclude, extra...)
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration invalid: %w", err)
	}
	return cfg, nil
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
