// Package cli wires the tmplsync commands.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tmplsync",
	Short: "Apply rendered templates over customized files, hunk by hunk",
	Long: `tmplsync compares a freshly rendered template tree with a directory
that was generated from an earlier version of the template and then edited
by hand. New files are created, identical files are left alone, and for
every file that differs you decide which changes to take: all of them,
none, hunk by hunk, or line by line.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// logger is configured by setupLogging before any command runs.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: <target-dir>/.tmplsync.yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(applyCmd, statusCmd, previewCmd, serveCmd, versionCmd)
}

func setupLogging(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	slog.SetDefault(logger)
	return nil
}
