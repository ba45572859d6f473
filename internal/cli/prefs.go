package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canton09/aisales/internal/adapter/presenter"
	"github.com/canton09/aisales/internal/domain/entities"
)

func newPrefsCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the stored provider and DeepSeek key",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored preferences with the key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := app().Prefs.Load(cmd.Context())
			if err != nil {
				return err
			}
			view := presenter.ToPreferencesResponse(prefs)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "provider: %s\n", view.Provider)
			if view.HasDeepSeekKey {
				fmt.Fprintf(out, "deepseek_api_key: %s\n", view.DeepSeekAPIKey)
			} else {
				fmt.Fprintln(out, "deepseek_api_key: (not set)")
			}
			fmt.Fprintln(out, "note: keys are stored in plaintext")
			return nil
		},
	}

	var (
		provider string
		key      string
		clearKey bool
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Update the stored preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo := app().Prefs
			prefs, err := repo.Load(ctx)
			if err != nil {
				return err
			}

			changed := false
			if cmd.Flags().Changed("provider") {
				p, err := entities.ParseProvider(provider)
				if err != nil {
					return fmt.Errorf("%w: %s", err, provider)
				}
				prefs.Provider = p
				changed = true
			}
			if cmd.Flags().Changed("deepseek-key") {
				prefs.DeepSeekAPIKey = key
				changed = true
			}
			if clearKey {
				prefs.DeepSeekAPIKey = ""
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to change: pass --provider, --deepseek-key or --clear-key")
			}

			if err := repo.Save(ctx, prefs); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "preferences saved (keys are stored in plaintext)")
			return nil
		},
	}
	set.Flags().StringVar(&provider, "provider", "", "deepseek or gemini")
	set.Flags().StringVar(&key, "deepseek-key", "", "DeepSeek API key")
	set.Flags().BoolVar(&clearKey, "clear-key", false, "remove the stored DeepSeek key")

	cmd.AddCommand(show, set)
	return cmd
}
