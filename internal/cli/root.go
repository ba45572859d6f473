package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/canton09/aisales/internal/adapter/repository"
	"github.com/canton09/aisales/internal/domain/entities"
	"github.com/canton09/aisales/internal/domain/repositories"
	"github.com/canton09/aisales/internal/infrastructure/logger"
	"github.com/canton09/aisales/internal/tui"
	"github.com/canton09/aisales/internal/usecase/analysis"
	"github.com/canton09/aisales/internal/usecase/scenario"
	pkgai "github.com/canton09/aisales/pkg/ai"
	"github.com/canton09/aisales/pkg/config"
)

// App is what every subcommand runs against
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Analyzer tui.Analyzer
	Prefs    repositories.PreferenceRepository
}

// Options are the persistent flags
type Options struct {
	LogFile   string
	PrefsFile string
	Verbose   bool
}

// Builder wires an App from the persistent flags
type Builder func(opts Options) (*App, error)

// NewRootCommand returns the coach command tree backed by real providers
func NewRootCommand() *cobra.Command {
	return newRootCommand(BuildApp)
}

func newRootCommand(build Builder) *cobra.Command {
	var (
		opts Options
		app  *App
	)

	root := &cobra.Command{
		Use:   "coach",
		Short: "Sales Coach AI - diagnose sales conversations with DeepSeek or Gemini",
		Long: `coach sends a sales conversation transcript to DeepSeek or Gemini together with a
scenario prompt and renders the coaching report.

Run without arguments to start the interactive dashboard.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			app, err = build(opts)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}

	root.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "log file (default <user cache dir>/aisales/coach.log)")
	root.PersistentFlags().StringVar(&opts.PrefsFile, "prefs", "", "preferences file (default <user config dir>/aisales/preferences.yaml)")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	appFn := func() *App { return app }
	root.AddCommand(
		newTUICommand(appFn),
		newAnalyzeCommand(appFn),
		newPrefsCommand(appFn),
		newScenariosCommand(appFn),
	)
	return root
}

// BuildApp loads the environment configuration and wires the providers.
// Logs always go to a file because the dashboard owns the terminal.
func BuildApp(opts Options) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logFile := opts.LogFile
	if logFile == "" {
		logFile = cfg.Log.File
	}
	if logFile == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cache dir: %w", err)
		}
		logFile = filepath.Join(dir, "aisales", "coach.log")
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	zl, err := logger.New(level, cfg.Log.Format, logFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	prefsFile := opts.PrefsFile
	if prefsFile == "" {
		prefsFile = cfg.Preferences.File
	}
	prefs, err := repository.NewFilePreferenceRepository(prefsFile)
	if err != nil {
		return nil, err
	}

	catalog, err := scenario.NewCatalog(zl)
	if err != nil {
		return nil, err
	}
	if cfg.Analysis.ScenarioFile != "" {
		if err := catalog.LoadFile(cfg.Analysis.ScenarioFile); err != nil {
			return nil, err
		}
	}
	if err := catalog.SetDefault(cfg.Analysis.DefaultScenario); err != nil {
		zl.Warn("cli.default_scenario.ignored", zap.Error(err))
	}

	if cfg.StreamMismatch() {
		zl.Warn("cli.deepseek.stream_without_proxy_stream",
			zap.String("hint", "DEEPSEEK_STREAM=true with DEEPSEEK_PROXY_URL needs PROXY_ALLOW_STREAM=true on the proxy"),
		)
	}

	defaultProvider, _ := entities.ParseProvider(cfg.Analysis.DefaultProvider)
	svc := analysis.NewService(catalog, map[entities.Provider]analysis.Completer{
		entities.ProviderDeepSeek: pkgai.NewDeepSeekClient(&cfg.DeepSeek, zl),
		entities.ProviderGemini:   pkgai.NewGeminiClient(&cfg.Gemini, zl),
	}, analysis.Options{
		Timeout:         cfg.Analysis.Timeout,
		MaxInflight:     cfg.Analysis.MaxInflight,
		StrictJSON:      cfg.Analysis.StrictJSON,
		DefaultProvider: defaultProvider,
	}, zl)

	return &App{Config: cfg, Logger: zl, Analyzer: svc, Prefs: prefs}, nil
}
