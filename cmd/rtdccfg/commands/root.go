// Package commands provides the CLI commands of rtdccfg.
package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/rtdcconfig/internal/config"
	"github.com/dshills/rtdcconfig/internal/config/loader"
	"github.com/dshills/rtdcconfig/internal/config/registry"
	"github.com/dshills/rtdcconfig/internal/logging"
	"github.com/dshills/rtdcconfig/internal/metrics"
)

// Version information set at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// ExitError carries a process exit code. Its message has already been
// printed when Silent is set.
type ExitError struct {
	Code   int
	Msg    string
	Silent bool
}

func (e *ExitError) Error() string { return e.Msg }

// app holds the global flags and the services built from them.
type app struct {
	logLevel    string
	noChecks    bool
	envPrefix   string
	envFile     string
	dumpMetrics bool

	stdout io.Writer
	stderr io.Writer

	fs      afero.Fs
	schema  *registry.Registry
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:  stdout,
		stderr:  stderr,
		fs:      loader.DefaultFS(),
		schema:  registry.NewWithDefaults(),
		logger:  zap.NewNop(),
		metrics: metrics.New(),
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "rtdccfg",
		Short: "Check and convert RT-DC dataset configuration files",
		Long: `rtdccfg reads the configuration metadata of RT-DC datasets, reports
unknown or malformed entries and converts between the legacy text format,
JSON, TOML and YAML.

Files are merged in the order given. Environment variables such as
RTDC_SETUP__CHANNEL_WIDTH=20 are applied last when --env-prefix is set.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logging.Config{Level: a.logLevel, Development: true})
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetVersionTemplate(fmt.Sprintf("rtdccfg %s (%s)\n", Version, BuildTime))

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	flags.BoolVar(&a.noChecks, "no-checks", false, "Store entries without schema checks")
	flags.StringVar(&a.envPrefix, "env-prefix", "", "Apply environment variables with this prefix (e.g. RTDC_)")
	flags.StringVar(&a.envFile, "env-file", "", "Apply variables from a dotenv file (prefix defaults to RTDC_)")
	flags.BoolVar(&a.dumpMetrics, "metrics", false, "Print Prometheus metrics to stderr on exit")

	root.AddCommand(
		a.checkCommand(),
		a.showCommand(),
		a.convertCommand(),
		a.diffCommand(),
		a.watchCommand(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout, stderr)
	root := a.rootCommand()
	root.SetArgs(args)

	err := root.Execute()
	_ = a.logger.Sync()

	if a.dumpMetrics {
		if merr := a.metrics.WriteText(stderr); merr != nil {
			fmt.Fprintln(stderr, merr)
		}
	}

	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if !exitErr.Silent {
			fmt.Fprintln(stderr, "Error:", exitErr.Msg)
		}
		return exitErr.Code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return 1
}

// load builds a configuration from files and, if requested, the
// environment. Diagnostics are logged, counted and passed to collect.
func (a *app) load(collect config.DiagnosticHandler, paths ...string) (*config.Configuration, error) {
	handler := a.metrics.DiagnosticHandler(func(d config.Diagnostic) {
		logging.DiagnosticHandler(a.logger)(d)
		if collect != nil {
			collect(d)
		}
	})

	opts := []config.Option{
		config.WithFS(a.fs),
		config.WithFiles(paths...),
		config.WithDiagnosticHandler(handler),
	}
	if a.noChecks {
		opts = append(opts, config.WithChecksDisabled())
	}

	cfg, err := config.New(a.schema, opts...)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		a.metrics.SourceLoaded(loader.DetectFormat(p).String())
		a.logger.Debug("loaded configuration file", zap.String("path", p))
	}

	if err := a.applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) applyEnv(cfg *config.Configuration) error {
	if a.envFile != "" {
		table, err := loader.NewEnvLoader(a.envPrefix, a.schema).LoadDotEnv(a.envFile)
		if err != nil {
			return err
		}
		cfg.Update(table)
		a.metrics.SourceLoaded("dotenv")
	}
	if a.envPrefix != "" {
		table, err := loader.NewEnvLoader(a.envPrefix, a.schema).Load()
		if err != nil {
			return err
		}
		cfg.Update(table)
		a.metrics.SourceLoaded("env")
	}
	return nil
}
