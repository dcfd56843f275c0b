package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jward/testgap"
	"github.com/jward/testgap/internal/config"
	"github.com/jward/testgap/internal/extract"
	"github.com/jward/testgap/internal/naming"
	"github.com/jward/testgap/internal/store"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// usageError marks a malformed invocation. It is reported with the command's
// usage text and exits with exitUsage without running the audit.
type usageError struct {
	cmd *cobra.Command
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "Error: %s\n\n%s", ue.err, ue.cmd.UsageString())
			return exitUsage
		}
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitError
	}
	return exitOK
}

// app carries the state shared by the commands of one invocation.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	configFile string
	v          *viper.Viper
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, v: config.New()}

	root := &cobra.Command{
		Use:   "testgap --module_folder=DIR --tests_folder=DIR",
		Short: "Find functions without a correspondingly named test",
		Long: `testgap checks that every source file in a module folder has a test file
named test_<file> in a tests folder, and that every top-level function foo in
the source file has a test function test_foo in that test file.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          a.runAudit,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{cmd: cmd, err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default: .testgap.yaml in the working directory or $HOME)")
	pf.String(config.KeyFormat, "text", "output format: json|text")
	pf.String(config.KeyHistory, "", "SQLite database recording run history")
	pf.BoolP(config.KeyVerbose, "v", false, "verbose logging on stderr")

	f := root.Flags()
	f.String(config.KeyModuleFolder, "", "folder of the modules to be checked")
	f.String(config.KeyTestsFolder, "", "folder where tests are written")
	f.String(config.KeyExtension, testgap.DefaultExtension, "source file extension")
	f.String(config.KeyTestPrefix, naming.DefaultPrefix, "prefix of test files and test functions")
	f.String(config.KeyExtractor, extract.KindLines, "function extractor: lines|treesitter")
	f.String(config.KeyNamingRule, "", "Risor rule (file ending in .risor, or inline) mapping name to its test name")
	f.Bool(config.KeyNoColor, false, "disable colored output")

	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newVersionCmd(a))
	return root
}

// usageArgs reports positional argument errors as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &usageError{cmd: cmd, err: err}
		}
		return nil
	}
}

// loadConfig merges flags, environment and the config file for cmd.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return nil, err
	}
	used, err := config.ReadFile(a.v, a.configFile)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return nil, err
	}
	if used != "" && cfg.Verbose {
		fmt.Fprintf(a.stderr, "Using config file: %s\n", used)
	}
	if err := validateFormat(cfg.Format); err != nil {
		return nil, &usageError{cmd: cmd, err: err}
	}
	return cfg, nil
}

func (a *app) runAudit(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{cmd: cmd, err: err}
	}
	extractor, err := extract.ForName(cfg.Extractor)
	if err != nil {
		return &usageError{cmd: cmd, err: err}
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts := []testgap.Option{
		testgap.WithExtractor(extractor),
		testgap.WithExtension(cfg.Extension),
		testgap.WithPrefix(cfg.TestPrefix),
		testgap.WithLogger(logger),
	}
	if cfg.NamingRule != "" {
		rule, err := naming.LoadRule(cfg.NamingRule, cfg.TestPrefix)
		if err != nil {
			return err
		}
		opts = append(opts, testgap.WithNamer(rule))
	}
	if cfg.Format == "text" {
		opts = append(opts, testgap.WithReporter(testgap.NewTextReporter(a.stdout, cfg.NoColor)))
	}

	start := time.Now()
	summary, err := testgap.New(opts...).Run(cmd.Context(), cfg.ModuleFolder, cfg.TestsFolder)
	if err != nil {
		return err
	}
	logger.Debug("audit finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("modules", len(summary.Modules)),
	)

	if cfg.History != "" {
		if err := recordHistory(cfg.History, start, summary); err != nil {
			return err
		}
	}

	if cfg.Format == "json" {
		return outputJSON(a.stdout, CLIResult{Command: "audit", Results: toCLISummary(summary)})
	}
	return nil
}

// recordHistory appends the run to the SQLite history at dbPath.
func recordHistory(dbPath string, start time.Time, summary *testgap.RunSummary) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	defer s.Close()

	if _, err := s.RecordRun(toStoreRun(start, summary)); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}

// newLogger builds the stderr logger: warnings only by default, development
// output at debug level with --verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	logConfig := zap.NewProductionConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		logConfig = zap.NewDevelopmentConfig()
	}
	logger, err := logConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the testgap version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "testgap %s\n", version)
		},
	}
}
