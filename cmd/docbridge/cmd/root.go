// Package cmd implements the docbridge CLI. Results go to stdout as Elisp
// plists (the Emacs contract) or JSON; logs go to stderr.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gerunddev/docbridge/internal/config"
	"github.com/gerunddev/docbridge/internal/gdocs"
	"github.com/gerunddev/docbridge/internal/logger"
	"github.com/gerunddev/docbridge/internal/output"
	"github.com/gerunddev/docbridge/internal/styles"
)

var (
	flagJSON    bool
	flagVerbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "docbridge",
	Short: "Sync org-mode documents with Google Docs",
	Long: `docbridge converts org-mode documents into Google Docs edit requests and
merges remote comments and suggestions back into the org file. Output is an
Elisp plist by default so Emacs can consume it directly; pass --json for JSON.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		return nil
	},
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON instead of an Elisp plist")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// emit prints a result in the selected output format.
func emit(v any) error {
	useJSON := flagJSON || (cfg != nil && cfg.OutputFormat == config.FormatJSON)
	s, err := output.Format(v, useJSON, true)
	if err != nil {
		return err
	}
	fmt.Println(s)
	return nil
}

// newLogger builds the stderr logger for a command run.
func newLogger() *logger.Logger {
	level := log.WarnLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	return logger.NewWithLevel(os.Stderr, level)
}

// ErrNoRemote is returned when a command needs the Google transport this
// build does not carry.
var ErrNoRemote = errors.New("no Google client configured; use --dry-run, or --annotations for pull")

// offlineClient fails every remote call. Local-only workflows (linking by ID,
// status, dry runs) never reach it.
type offlineClient struct{}

func (offlineClient) CreateDocument(context.Context, string) (string, error) {
	return "", ErrNoRemote
}
func (offlineClient) ClearDocument(context.Context, string) error { return ErrNoRemote }
func (offlineClient) BatchUpdate(context.Context, string, []gdocs.Request) error {
	return ErrNoRemote
}
func (offlineClient) CreateComment(context.Context, string, string) (string, error) {
	return "", ErrNoRemote
}
func (offlineClient) ListComments(context.Context, string) ([]gdocs.Comment, error) {
	return nil, ErrNoRemote
}
func (offlineClient) ListSuggestions(context.Context, string) ([]gdocs.Suggestion, error) {
	return nil, ErrNoRemote
}
func (offlineClient) LatestRevision(context.Context, string) (string, error) {
	return "", ErrNoRemote
}
