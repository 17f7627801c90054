package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(tr), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
