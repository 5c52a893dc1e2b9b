package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/tmplsync/internal/diff"
	"github.com/sprite-ai/tmplsync/internal/tui"
	"github.com/sprite-ai/tmplsync/internal/update"
)

var previewCmd = &cobra.Command{
	Use:   "preview <rendered-dir> [target-dir]",
	Short: "Browse all pending changes in a full-screen viewer",
	Long: `Open a read-only viewer over every change the rendered tree would make.
Nothing is written; use apply to take the changes.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().IntP("context", "C", 3, "lines of context around changes")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(cmd, args)
	if err != nil {
		return err
	}

	raw, err := update.Patch(ws.entries, ws.context)
	if err != nil {
		return err
	}
	ps, err := diff.ParsePatch(raw)
	if err != nil {
		return err
	}
	if len(ps.Files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No pending changes.")
		return nil
	}

	return tui.Run(ps, ws.color, ws.cfg.Theme)
}
