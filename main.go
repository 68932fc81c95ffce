// lokaudit: translation completeness auditor for JSON/YAML locale sets.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/minios-linux/lokaudit/i18n"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Colors. fatih/color drops the escapes when stderr is not a terminal
// or NO_COLOR is set.
var (
	colorInfo    = color.New(color.FgBlue)
	colorSuccess = color.New(color.FgGreen)
	colorWarning = color.New(color.Bold, color.FgYellow)
	colorError   = color.New(color.FgRed)
	colorHeading = color.New(color.Bold, color.FgBlue)
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(color.Error, colorInfo.Sprint("[INFO]")+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(color.Error, colorSuccess.Sprint("[OK]")+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(color.Error, colorWarning.Sprint("[WARN]")+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(color.Error, colorError.Sprint("[ERROR]")+" "+format+"\n", args...)
}

func heading(title string) {
	fmt.Fprintln(color.Error, colorHeading.Sprint(title))
	fmt.Fprintln(color.Error, strings.Repeat("─", 60))
}

// ---------------------------------------------------------------------------
// Exit codes
// ---------------------------------------------------------------------------

const (
	exitClean      = 0
	exitFindings   = 1
	exitFatal      = 2
	exitUnreadable = 3 // a translation document could not be decoded
)

// exitError carries a process exit code out of a command. A nil err means
// the command already reported everything it had to say.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func fatal(err error) error {
	return &exitError{code: exitFatal, err: err}
}

var (
	errFindings   = &exitError{code: exitFindings}
	errUnreadable = &exitError{code: exitUnreadable}
)

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitClean
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFatal
}

// ---------------------------------------------------------------------------
// Flag values
// ---------------------------------------------------------------------------

// enumFlag is a pflag.Value restricted to a fixed set of strings.
type enumFlag struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*enumFlag)(nil)

func newEnumFlag(def string, allowed ...string) *enumFlag {
	return &enumFlag{value: def, allowed: allowed}
}

func (e *enumFlag) String() string { return e.value }

func (e *enumFlag) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	if !lo.Contains(e.allowed, v) {
		return fmt.Errorf("must be one of: %s", strings.Join(e.allowed, ", "))
	}
	e.value = v
	return nil
}

func (e *enumFlag) Type() string { return "string" }

const (
	formatText = "text"
	formatJSON = "json"
)

func newFormatFlag() *enumFlag {
	return newEnumFlag(formatText, formatText, formatJSON)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir    string
	localesDir string
	uiLang     string
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lokaudit",
		Short: i18n.T("Translation completeness auditor for JSON/YAML locale sets"),
		Long: `lokaudit: translation completeness auditor.

Compares every translation document in a locale directory (one JSON or
YAML file per language code) against the reference language and reports
missing keys, values still identical to the reference text, placeholder
mismatches, over-long strings and per-language completeness.

Commands:
  check       Validate every language (exit 1 on findings, 3 on malformed documents)
  stats       Compute completeness and write the results document
  complete    List fully complete languages
  compare     Compare complete languages across two branches
  merge       Deep-merge an in-progress document into a stable one

Configuration is read from .lokaudit.yaml in the project root.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if uiLang != "" {
				i18n.Init(uiLang)
			}
		},
	}

	// Global persistent flags, inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().StringVar(&localesDir, "dir", "", "Locale directory (overrides config and auto-detection)")
	root.PersistentFlags().StringVar(&uiLang, "lang", "", "Interface language (default: from environment)")

	root.AddCommand(
		newCheckCmd(),
		newStatsCmd(),
		newCompleteCmd(),
		newCompareCmd(),
		newMergeCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	// Help text is built before flags are parsed, so it follows the
	// environment; --lang switches the messages printed while running.
	i18n.Init("")

	err := newRootCmd().Execute()
	var ee *exitError
	if err != nil && (!errors.As(err, &ee) || ee.err != nil) {
		logError("%v", err)
	}
	os.Exit(exitCode(err))
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lokaudit version %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit:    %s\n", commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:     %s\n", date)
		},
	}

	return cmd
}
