package prompt

import "github.com/charmbracelet/bubbles/key"

// Answer keys.
const (
	KeyYes        = "y"
	KeyNo         = "n"
	KeyLineMode   = "l"
	KeyAcceptFile = "f"
	KeySkipFile   = "s"
	KeyAbort      = "a"
)

var (
	yesBinding = key.NewBinding(
		key.WithKeys(KeyYes),
		key.WithHelp(KeyYes, ""),
	)
	noBinding = key.NewBinding(
		key.WithKeys(KeyNo),
		key.WithHelp(KeyNo, ""),
	)
	nextBinding = key.NewBinding(
		key.WithKeys(KeyNo),
		key.WithHelp(KeyNo, "next"),
	)
	lineModeBinding = key.NewBinding(
		key.WithKeys(KeyLineMode),
		key.WithHelp(KeyLineMode, "line-mode for this hunk"),
	)
	linePreviewBinding = key.NewBinding(
		key.WithKeys(KeyLineMode),
		key.WithHelp(KeyLineMode, "line preview"),
	)
	acceptFileBinding = key.NewBinding(
		key.WithKeys(KeyAcceptFile),
		key.WithHelp(KeyAcceptFile, "accept file"),
	)
	skipFileBinding = key.NewBinding(
		key.WithKeys(KeySkipFile),
		key.WithHelp(KeySkipFile, "skip file"),
	)
	abortBinding = key.NewBinding(
		key.WithKeys(KeyAbort),
		key.WithHelp(KeyAbort, "abort"),
	)
)

// Choice sets used by the merge collectors.
var (
	// BlockChoices: [y/N/l=line-mode for this hunk/f=accept file/s=skip file/a=abort]
	BlockChoices = ChoiceSet{
		Bindings: []key.Binding{yesBinding, noBinding, lineModeBinding, acceptFileBinding, skipFileBinding, abortBinding},
		Default:  KeyNo,
	}

	// LineChoices: [y/N/a=abort]
	LineChoices = ChoiceSet{
		Bindings: []key.Binding{yesBinding, noBinding, abortBinding},
		Default:  KeyNo,
	}

	// DryRunChoices: [N=next/l=line preview/a=abort]
	DryRunChoices = ChoiceSet{
		Bindings: []key.Binding{nextBinding, linePreviewBinding, abortBinding},
		Default:  KeyNo,
	}
)
