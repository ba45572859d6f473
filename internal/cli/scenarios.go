package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canton09/aisales/internal/adapter/presenter"
)

func newScenariosCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the analysis scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := app().Analyzer.Catalog()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tTITLE\tTRANSCRIPT\tDEFAULT")
			for _, s := range presenter.ToScenarioResponses(catalog.List(), catalog.Default()) {
				def := ""
				if s.Default {
					def = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Key, s.Title, s.TranscriptMode, def)
			}
			return w.Flush()
		},
	}
}
