package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/canton09/aisales/internal/tui"
)

func newTUICommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app())
		},
	}
}

func runTUI(app *App) error {
	p := tea.NewProgram(tui.New(app.Analyzer, app.Prefs, app.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
