// Command pagewire serves the demo application and inspects asset
// manifests.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagewire/internal/errors"

	// Bundled adapters register themselves.
	_ "github.com/vango-dev/pagewire/pkg/adapter/react"
	_ "github.com/vango-dev/pagewire/pkg/adapter/vue"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type globalFlags struct {
	dir       string
	logFormat string
	logLevel  string
	noColor   bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "pagewire",
		Short: "Server-driven page visits for React and Vue front ends",
		Long: `pagewire lets ordinary Go handlers answer with a component name and
its props. First loads get an HTML shell, client visits get JSON, and a
stale asset version forces a full reload.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.noColor {
				errors.DisableColors()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&g.dir, "dir", "C", ".", "Project directory")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "Log format: text or json")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored error output")

	root.AddCommand(
		serveCmd(g),
		adaptersCmd(),
		manifestCmd(),
		versionCmd(),
	)
	return root
}

// newLogger builds the process logger from the global flags.
func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Newf(errors.CategoryCLI, "invalid --log-level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, errors.Newf(errors.CategoryCLI, "invalid --log-format %q", format)
	}
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
