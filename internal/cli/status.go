package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/tmplsync/internal/diff"
	"github.com/sprite-ai/tmplsync/internal/update"
)

var statusCmd = &cobra.Command{
	Use:   "status <rendered-dir> [target-dir]",
	Short: "List the files the rendered tree would change (non-interactive)",
	Long: `List every file of the rendered tree that differs from the target
directory, with its status and line counts. Nothing is written.

Status letters:
  A  new file
  M  modified
  B  binary, never merged`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntP("context", "C", 3, "lines of context around changes")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(cmd, args)
	if err != nil {
		return err
	}

	type row struct {
		e              update.Entry
		added, deleted int
	}
	var rows []row
	var totalAdded, totalDeleted int

	for _, e := range ws.entries {
		if e.Kind == update.EntryUnchanged {
			continue
		}
		r := row{e: e}
		if e.Kind != update.EntryBinary {
			hunks, err := diff.Hunks(e.RelativePath, e.Current, e.Rendered, ws.context)
			if err != nil {
				return err
			}
			for _, h := range hunks {
				a, d := h.Counts()
				r.added += a
				r.deleted += d
			}
		}
		totalAdded += r.added
		totalDeleted += r.deleted
		rows = append(rows, r)
	}

	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, "Target is up to date.")
		return nil
	}

	fmt.Fprintf(out, "%d file(s) differ, %d insertions(+), %d deletions(-)\n\n", len(rows), totalAdded, totalDeleted)
	for _, r := range rows {
		if r.e.Kind == update.EntryBinary {
			fmt.Fprintf(out, "  %s %s\n", r.e.Kind.Letter(), r.e.RelativePath)
			continue
		}
		fmt.Fprintf(out, "  %s %-50s +%-4d -%d\n", r.e.Kind.Letter(), r.e.RelativePath, r.added, r.deleted)
	}
	return nil
}
