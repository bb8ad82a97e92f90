// Command batparse parses a batch script and prints its syntax tree.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/batparse/core/treecodec"
	"github.com/aledsdavies/batparse/core/treefmt"
	"github.com/aledsdavies/batparse/core/treejson"
	"github.com/aledsdavies/batparse/runtime/parser"
)

func main() {
	a := &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := a.run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// app holds the process environment so tests can substitute it.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	errColor bool
}

type flags struct {
	format     string
	output     string
	configPath string
	noColor    bool
	warnings   bool
	debug      bool
	watch      bool
	hash       bool
}

func (a *app) run(ctx context.Context, args []string) int {
	a.errColor = a.getenv("NO_COLOR") == "" && ShouldUseColor(ColorAuto, a.stderr)

	cmd := a.newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	err := cmd.ExecuteContext(ctx)
	FormatError(a.stderr, err, a.errColor)
	return ExitCode(err)
}

func (a *app) newRootCmd() *cobra.Command {
	var f flags

	rootCmd := &cobra.Command{
		Use:   "batparse [file|-]",
		Short: "Parse batch scripts into syntax trees",
		Long: "Parse an MS-DOS/Windows batch script and print its syntax tree.\n" +
			"The script is read from the given file, or from standard input when the\n" +
			"argument is '-' or input is piped.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageError(fmt.Sprintf("expected at most one script, got %d", len(args)),
					"run batparse once per file")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(cmd, args, &f)
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err.Error(), "run 'batparse --help' for usage")
	})

	fl := rootCmd.Flags()
	fl.StringVar(&f.format, "format", FormatText, "Output format: text, json or cbor")
	fl.StringVarP(&f.output, "output", "o", "", "Write output to a file instead of stdout")
	fl.StringVar(&f.configPath, "config", "", "Path to configuration file (default "+DefaultConfigFile+" if present)")
	fl.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	fl.BoolVar(&f.warnings, "warnings", false, "Print parse warnings to stderr")
	fl.BoolVar(&f.debug, "debug", false, "Enable debug logging and parse telemetry")
	fl.BoolVar(&f.watch, "watch", false, "Re-parse the file whenever it changes")
	fl.BoolVar(&f.hash, "hash", false, "Print the canonical tree hash instead of the tree")

	return rootCmd
}

func (a *app) execute(cmd *cobra.Command, args []string, f *flags) error {
	cfg, err := resolveConfig(f.configPath, a.getenv)
	if err != nil {
		return &CLIError{
			Type:    ErrTypeConfig,
			Message: "invalid configuration",
			Details: err.Error(),
			Hint:    "check " + configName(f.configPath) + " and the BATPARSE_* environment variables",
			Err:     err,
		}
	}

	fl := cmd.Flags()
	if fl.Changed("format") {
		cfg.Format = f.format
	}
	if fl.Changed("output") {
		cfg.Output = f.output
	}
	if fl.Changed("warnings") {
		cfg.Warnings = f.warnings
	}
	if f.noColor {
		cfg.Color = ColorNever
	}
	if err := Validate(cfg); err != nil {
		return usageError(err.Error(), "run 'batparse --help' for usage")
	}
	a.errColor = ShouldUseColor(cfg.Color, a.stderr)

	logger := newLogger(a.stderr, f.debug)

	src, filename, err := a.readInput(args)
	if err != nil {
		return err
	}
	if f.watch && filename == "" {
		return usageError("--watch needs a script file", "pass a file path instead of reading standard input")
	}

	if err := a.process(cfg, f, src, filename, logger); err != nil {
		if !f.watch {
			return err
		}
		FormatError(a.stderr, err, a.errColor)
	}
	if !f.watch {
		return nil
	}

	watcher, err := NewFileWatcher(filename, cfg.Watch.Debounce, logger)
	if err != nil {
		return ioError("cannot watch "+filename, err)
	}
	err = watcher.Watch(cmd.Context(), func() error {
		src, err := os.ReadFile(filename)
		if err != nil {
			return err
		}
		if err := a.process(cfg, f, src, filename, logger); err != nil {
			FormatError(a.stderr, err, a.errColor)
		}
		return nil
	})
	if err != nil {
		return ioError("watch failed", err)
	}
	return nil
}

// readInput returns the script and its filename; the filename is empty for
// standard input.
func (a *app) readInput(args []string) ([]byte, string, error) {
	if len(args) == 0 && !hasPipedInput(a.stdin) {
		return nil, "", usageError("no input script", "pass a file path, or '-' to read standard input")
	}
	if len(args) == 0 || args[0] == "-" {
		src, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, "", ioError("cannot read standard input", err)
		}
		return src, "", nil
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", ioError("cannot read "+args[0], err)
	}
	return src, args[0], nil
}

// process parses one script and renders it.
func (a *app) process(cfg *Config, f *flags, src []byte, filename string, logger *slog.Logger) (err error) {
	opts := []parser.ParserOpt{parser.WithFilename(filename), parser.WithLogger(logger)}
	if f.debug {
		opts = append(opts, parser.WithTelemetryTiming())
	}

	tree, err := parser.Parse(src, opts...)
	if err != nil {
		return err
	}
	if t := tree.Telemetry; t != nil {
		logger.Debug("parse telemetry",
			"file", filename,
			"lines", t.LineCount,
			"nodes", t.NodeCount,
			"tokens", t.TokenCount,
			"warnings", t.WarningCount,
			"total", t.TotalTime,
		)
	}
	if cfg.Warnings {
		formatWarnings(a.stderr, tree.Warnings, a.errColor)
	}

	out, closeOut, err := a.openOutput(cfg.Output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil && err == nil {
			err = ioError("cannot close "+cfg.Output, cerr)
		}
	}()

	if err := render(out, tree, cfg, f.hash, filename); err != nil {
		return ioError("cannot write output", err)
	}
	return nil
}

func render(out io.Writer, tree *parser.Tree, cfg *Config, hash bool, filename string) error {
	if hash {
		h, err := treecodec.Hash(tree.Root)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, h)
		return err
	}

	switch cfg.Format {
	case FormatJSON:
		doc, err := treejson.NewDocument(tree, filename)
		if err != nil {
			return err
		}
		data, err := treejson.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = out.Write(append(data, '\n'))
		return err
	case FormatCBOR:
		_, err := treecodec.Write(out, tree.Root)
		return err
	default:
		return treefmt.Write(out, tree.Root, treefmt.WithColor(ShouldUseColor(cfg.Color, out)))
	}
}

func (a *app) openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return a.stdout, func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, ioError("cannot create "+path, err)
	}
	return file, file.Close, nil
}

// hasPipedInput reports whether r carries piped data rather than a terminal.
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func configName(path string) string {
	if path != "" {
		return path
	}
	return DefaultConfigFile
}
