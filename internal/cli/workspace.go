package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/tmplsync/internal/config"
	"github.com/sprite-ai/tmplsync/internal/tui"
	"github.com/sprite-ai/tmplsync/internal/update"
)

// workspace is what every tree command starts from.
type workspace struct {
	renderedDir string
	targetDir   string
	cfg         *config.Config
	context     int
	color       bool
	entries     []update.Entry
}

// loadWorkspace resolves the directories from args, loads the config and
// scans the rendered tree. The target directory defaults to ".".
func loadWorkspace(cmd *cobra.Command, args []string) (*workspace, error) {
	ws := &workspace{renderedDir: args[0], targetDir: "."}
	if len(args) > 1 {
		ws.targetDir = args[1]
	}

	info, err := os.Stat(ws.renderedDir)
	if err != nil {
		return nil, fmt.Errorf("rendered directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("rendered directory: %s is not a directory", ws.renderedDir)
	}

	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath != "" {
		ws.cfg, err = config.Load(cfgPath)
	} else {
		ws.cfg, err = config.LoadDir(ws.targetDir)
	}
	if err != nil {
		return nil, err
	}

	ws.context = ws.cfg.Context
	if f := cmd.Flags().Lookup("context"); f != nil && f.Changed {
		n, _ := cmd.Flags().GetInt("context")
		if n < 0 || n > config.MaxContext {
			return nil, fmt.Errorf("--context must be between 0 and %d", config.MaxContext)
		}
		ws.context = n
	}

	setting := ws.cfg.Color
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		setting = tui.ColorNever
	}
	ws.color = tui.ColorEnabled(os.Stdout, setting, os.Getenv)

	ws.entries, err = update.Scan(ws.renderedDir, ws.targetDir, ws.cfg.Exclude)
	if err != nil {
		return nil, err
	}
	logger.Debug("scanned",
		"rendered", ws.renderedDir,
		"target", ws.targetDir,
		"files", len(ws.entries),
		"pending", len(update.Pending(ws.entries)))
	return ws, nil
}
