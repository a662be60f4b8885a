package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/Azure/mypl/internal/analysis"
	"github.com/Azure/mypl/internal/logging"
	"github.com/Azure/mypl/pkg/config"
)

// app carries the state shared by every subcommand.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfgFile   string
	envFile   string
	overrides string
	verbosity int
	trace     bool

	cfg    *config.Config
	logger logr.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "mypl",
		Short: "Lexer and syntax checker for MyPL programs",
		Long: `mypl tokenizes and validates programs written in MyPL.

Commands:
  lex      print the token stream of a source file
  check    report the first lexical or syntax error of each file
  serve    run the HTTP analysis service`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd) },
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (.yaml, .yml or .toml)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file with MYPL_* variables")
	flags.StringVar(&a.overrides, "set", "", "comma-separated key=value config overrides, e.g. parser.max_depth=64")
	flags.IntVarP(&a.verbosity, "verbosity", "v", 0, "log verbosity (2 includes the grammar trace)")
	flags.BoolVar(&a.trace, "trace", false, "log every grammar rule entered")

	root.AddCommand(newLexCmd(a), newCheckCmd(a), newServeCmd(a), newVersionCmd(a))
	return root
}

// setup resolves the configuration (defaults, file, .env, environment, --set, flags)
// and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return fmt.Errorf("loading %s: %w", a.envFile, err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if err := cfg.ApplyOverrides(a.overrides); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("verbosity") {
		cfg.Log.Verbosity = a.verbosity
	}
	if flags.Changed("trace") {
		cfg.Parser.Trace = a.trace
	}
	if cfg.Parser.Trace && cfg.Log.Verbosity < 2 {
		cfg.Log.Verbosity = 2
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	a.logger, err = logging.New(logging.Options{
		Verbosity:   cfg.Log.Verbosity,
		Development: cfg.Log.Development,
		Build:       version,
	})
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	return nil
}

func (a *app) analyzer() *analysis.Analyzer {
	return analysis.New(a.logger, analysis.Options{
		MaxDepth: a.cfg.Parser.MaxDepth,
		Trace:    a.cfg.Parser.Trace,
	})
}

// open returns the named source; "-" is standard input.
func (a *app) open(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(a.stdin), nil
	}
	return os.Open(name)
}
