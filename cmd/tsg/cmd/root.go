// Package cmd wires the tsg driver's cobra command tree: the root
// command compiles and runs a program from stdin, with version,
// history, and lsp subcommands alongside.
package cmd

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tsg-lang/tsg/internal/diag"
	"github.com/tsg-lang/tsg/internal/driver"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configPath string
	format     string
	entryName  string
	historyDB  string
)

var rootCmd = &cobra.Command{
	Use:   "tsg",
	Short: "tsg compiler and JIT driver",
	Long: `tsg reads an expression-oriented, call-site-monomorphized program
from standard input, resolves and type-checks it, lowers each
(function, argument-type tuple) instantiation to native code through
LLVM, and executes its entry point.`,
	Version:       Version,
	RunE:          runRoot,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "tsg.toml", "path to an optional tsg.toml configuration file")
	rootCmd.PersistentFlags().StringVar(&historyDB, "history", "", "path to a SQLite compile-history database (default: tsg.toml's history, or disabled)")
	rootCmd.Flags().StringVar(&format, "format", "text", "diagnostic/result output format: text or yaml")
	rootCmd.Flags().StringVar(&entryName, "entry", "", "override the entry function name (default: main, or tsg.toml's entry)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var bannerStyle = lipgloss.NewStyle().Bold(true)

// runRoot reads the full source from stdin, runs the pipeline, prints
// diagnostics to stderr as `line:column: message`, prints "syntax ok"
// then "result = <int>" to stdout on success, and exits 1 on any
// diagnostic.
func runRoot(c *cobra.Command, _ []string) error {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	cfg, err := driver.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", configPath, err)
	}
	if entryName != "" {
		cfg.Entry = entryName
	}
	if historyDB != "" {
		cfg.History = historyDB
	}

	start := time.Now()
	outcome, err := driver.RunOptimized(string(src), cfg.Entry, cfg.Optimize)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	if cfg.History != "" {
		recordHistory(cfg.History, string(src), outcome, elapsed)
	}

	if format == "yaml" {
		var result *int32
		if outcome.Result != nil {
			result = &outcome.Result.Value
		}
		out, err := driver.MarshalYAML(outcome.Diagnostics, result)
		if err != nil {
			return err
		}
		os.Stdout.Write(out)
	} else {
		printText(c.ErrOrStderr(), os.Stdout, string(src), outcome)
	}

	if len(outcome.Diagnostics) != 0 {
		return diagnosticError{count: len(outcome.Diagnostics)}
	}
	return nil
}

// diagnosticError signals that the pipeline already rendered its
// diagnostics to stderr; main only needs its exit code, not another
// printed message.
type diagnosticError struct{ count int }

func (e diagnosticError) Error() string { return fmt.Sprintf("%d diagnostic(s)", e.count) }

// IsDiagnosticError reports whether err was already reported to the
// user as rendered diagnostics, so main doesn't print it a second time.
func IsDiagnosticError(err error) bool {
	_, ok := err.(diagnosticError)
	return ok
}

func printText(stderr, stdout io.Writer, src string, outcome driver.Outcome) {
	if len(outcome.Diagnostics) != 0 {
		list := &diag.List{}
		for _, d := range outcome.Diagnostics {
			list.Add(d.Pos, "%s", d.Message)
		}
		diag.WriteTo(stderr, list, src)
		return
	}

	banner := "syntax ok"
	if f, ok := stdout.(interface{ Fd() uintptr }); ok && isatty.IsTerminal(f.Fd()) {
		banner = bannerStyle.Render(banner)
	}
	fmt.Fprintln(stdout, banner)
	fmt.Fprintf(stdout, "result = %d\n", outcome.Result.Value)
}

func recordHistory(path, src string, outcome driver.Outcome, elapsed time.Duration) {
	h, err := driver.OpenHistory(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open history database: %v\n", err)
		return
	}
	defer h.Close()

	sum := sha256.Sum256([]byte(src))
	var result *int32
	if outcome.Result != nil {
		result = &outcome.Result.Value
	}
	if _, err := h.Record(hex.EncodeToString(sum[:]), len(outcome.Diagnostics), result, elapsed); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record history: %v\n", err)
	}
}
