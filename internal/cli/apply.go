package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/tmplsync/internal/merge"
	"github.com/sprite-ai/tmplsync/internal/model"
	"github.com/sprite-ai/tmplsync/internal/prompt"
	"github.com/sprite-ai/tmplsync/internal/tui"
	"github.com/sprite-ai/tmplsync/internal/update"
)

var applyCmd = &cobra.Command{
	Use:   "apply <rendered-dir> [target-dir]",
	Short: "Apply a rendered template tree, asking about every changed file",
	Long: `Walk the rendered tree and bring the target directory up to date.
New files are created and identical files are left alone. For every file
that differs you are asked hunk by hunk (or line by line with --line-mode)
which changes to take.

Examples:
  tmplsync apply ./rendered                 # update the current directory
  tmplsync apply ./rendered ./service -C 5  # more context around changes
  tmplsync apply ./rendered --dry-run       # look, but write nothing
  tmplsync apply ./rendered --yes           # take every rendered file as is`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().BoolP("yes", "y", false, "apply every rendered file without asking")
	applyCmd.Flags().Bool("dry-run", false, "show the changes but write nothing")
	applyCmd.Flags().Bool("line-mode", false, "decide every changed line on its own")
	applyCmd.Flags().IntP("context", "C", 3, "lines of context around changes")
	applyCmd.Flags().StringP("output-patch", "o", "", "write all pending changes as a patch to file")
}

func runApply(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(cmd, args)
	if err != nil {
		return err
	}

	opts := ws.cfg.Options()
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		opts.AutoApply = true
	}
	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		opts.DryRun = true
	}
	if lineMode, _ := cmd.Flags().GetBool("line-mode"); lineMode {
		opts.LineMode = true
	}
	mode := opts.Mode()

	patchPath, _ := cmd.Flags().GetString("output-patch")
	if patchPath != "" {
		if err := writePatch(cmd, ws, patchPath); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	printer := tui.NewPrinter(out, ws.color, ws.cfg.Theme)
	term := prompt.NewTerminal(os.Stdin, out)

	decider := merge.NewDecider(opts, term, printer,
		merge.WithContext(ws.context),
		merge.WithLogger(logger))
	updater := update.New(decider,
		update.WithDryRun(mode == model.ModeDryRun),
		update.WithReporter(printer),
		update.WithLogger(logger))

	logger.Debug("applying", "mode", mode, "context", ws.context, "interactive", term.Interactive())

	sum, err := updater.Run(ws.entries)
	if errors.Is(err, prompt.ErrAborted) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
		return nil
	}
	if err != nil {
		return err
	}

	printer.Summary(len(sum.Created), len(sum.Updated), len(sum.Skipped), len(sum.Unchanged))
	return nil
}

func writePatch(cmd *cobra.Command, ws *workspace, path string) error {
	patch, err := update.Patch(ws.entries, ws.context)
	if err != nil {
		return err
	}
	if patch == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "No pending changes; no patch written.")
		return nil
	}
	if err := os.WriteFile(path, []byte(patch), 0o644); err != nil {
		return fmt.Errorf("writing patch: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Patch written to %s\n", path)
	return nil
}
