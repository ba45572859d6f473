package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/canton09/aisales/internal/adapter/presenter"
	"github.com/canton09/aisales/internal/domain/entities"
	"github.com/canton09/aisales/internal/usecase/analysis"
)

type analyzeOptions struct {
	scenario string
	provider string
	apiKey   string
	file     string
	format   string
}

func newAnalyzeCommand(app func() *App) *cobra.Command {
	var o analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one transcript and print the report",
		Long: `Reads a transcript from --file or stdin, runs it through the selected provider and
prints the coaching report as Markdown or JSON.

Without --provider the stored preference is used. Without --api-key the stored
DeepSeek key is used.

Example:
  coach analyze --scenario telesales --file call.txt
  pbpaste | coach analyze --provider gemini --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, app(), o)
		},
	}

	cmd.Flags().StringVarP(&o.scenario, "scenario", "s", "", "scenario key (see `coach scenarios`)")
	cmd.Flags().StringVarP(&o.provider, "provider", "p", "", "deepseek or gemini")
	cmd.Flags().StringVar(&o.apiKey, "api-key", "", "provider API key for this run")
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "transcript file, - for stdin")
	cmd.Flags().StringVar(&o.format, "format", "markdown", "output format: markdown or json")
	return cmd
}

func runAnalyze(cmd *cobra.Command, app *App, o analyzeOptions) error {
	if o.format != "markdown" && o.format != "json" {
		return fmt.Errorf("unknown format %q, want markdown or json", o.format)
	}

	transcript, err := readTranscript(cmd, o.file)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	prefs, err := app.Prefs.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	provider := prefs.Provider
	if o.provider != "" {
		if provider, err = entities.ParseProvider(o.provider); err != nil {
			return fmt.Errorf("%w: %s", err, o.provider)
		}
	}
	key := o.apiKey
	if key == "" && provider == entities.ProviderDeepSeek {
		key = prefs.DeepSeekAPIKey
	}

	result, err := app.Analyzer.Analyze(ctx, analysis.Request{
		Transcript: transcript,
		Scenario:   o.scenario,
		Provider:   provider,
		APIKey:     key,
	})
	if err != nil {
		return userError(err)
	}

	report := presenter.ToReportResponse(result)
	out := cmd.OutOrStdout()

	if o.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(report)
	}

	md := presenter.RenderMarkdown(report)
	if isTerminal(out) {
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100)); err == nil {
			if rendered, err := r.Render(md); err == nil {
				md = rendered
			}
		}
	}
	_, err = io.WriteString(out, md)
	return err
}

func readTranscript(cmd *cobra.Command, file string) (string, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case file != "" && file != "-":
		data, err = os.ReadFile(file)
	case file == "-" || !isTerminal(cmd.InOrStdin()):
		data, err = io.ReadAll(cmd.InOrStdin())
	default:
		return "", fmt.Errorf("no transcript: pass --file or pipe it on stdin")
	}
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
