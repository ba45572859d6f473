package tui

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/canton09/aisales/errors"
	"github.com/canton09/aisales/internal/adapter/presenter"
	"github.com/canton09/aisales/internal/domain/entities"
	"github.com/canton09/aisales/internal/domain/repositories"
	"github.com/canton09/aisales/internal/usecase/analysis"
	"github.com/canton09/aisales/internal/usecase/scenario"
)

// State is the dashboard phase
type State int

const (
	StateIdle State = iota
	StateAnalyzing
	StateShowingResult
)

func (s State) String() string {
	switch s {
	case StateAnalyzing:
		return "analyzing"
	case StateShowingResult:
		return "showing_result"
	default:
		return "idle"
	}
}

type focus int

const (
	focusTranscript focus = iota
	focusKey
)

// Analyzer runs one analysis
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*entities.AnalysisResult, error)
	Catalog() *scenario.Catalog
}

type tickMsg struct{ run int }

type analysisDoneMsg struct {
	run    int
	result *entities.AnalysisResult
	err    error
}

type prefsSavedMsg struct{ err error }

// Model is the bubbletea model of the dashboard
type Model struct {
	analyzer Analyzer
	prefs    repositories.PreferenceRepository
	logger   *zap.Logger
	styles   Styles
	renderer *glamour.TermRenderer

	transcript textarea.Model
	keyInput   textinput.Model
	spinner    spinner.Model
	viewport   viewport.Model
	focus      focus

	state     State
	provider  entities.Provider
	savedKey  string
	scenarios []*scenario.Scenario
	scenario  int

	run     int
	elapsed int
	cancel  context.CancelFunc
	result  *entities.AnalysisResult
	err     string

	width  int
	height int
}

// New builds the dashboard. Preferences are read once here; a failed load falls back to defaults.
func New(analyzer Analyzer, prefs repositories.PreferenceRepository, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	stored, err := prefs.Load(context.Background())
	if err != nil {
		logger.Warn("tui.preferences.load_failed", zap.Error(err))
		stored = entities.NewPreferences()
	}

	ta := textarea.New()
	ta.Placeholder = "在此处粘贴销售与客户的对话记录..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(12)
	ta.Focus()

	ki := textinput.New()
	ki.Placeholder = "在此处输入 sk- 开头的密钥"
	ki.EchoMode = textinput.EchoPassword
	ki.EchoCharacter = '•'
	ki.SetValue(stored.DeepSeekAPIKey)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	catalog := analyzer.Catalog()
	list := catalog.List()
	selected := 0
	for i, s := range list {
		if s.Key == catalog.Default() {
			selected = i
		}
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		logger.Warn("tui.renderer.unavailable", zap.Error(err))
		renderer = nil
	}

	return Model{
		analyzer:   analyzer,
		prefs:      prefs,
		logger:     logger,
		styles:     DefaultStyles(),
		renderer:   renderer,
		transcript: ta,
		keyInput:   ki,
		spinner:    sp,
		viewport:   viewport.New(80, 20),
		provider:   stored.Provider,
		savedKey:   stored.DeepSeekAPIKey,
		scenarios:  list,
		scenario:   selected,
		width:      80,
		height:     24,
	}
}

// State returns the current phase
func (m Model) State() State { return m.state }

// Provider returns the selected provider
func (m Model) Provider() entities.Provider { return m.provider }

// Err returns the message shown under the form, if any
func (m Model) Err() string { return m.err }

// Elapsed returns the seconds since the running analysis started
func (m Model) Elapsed() int { return m.elapsed }

// Result returns the last successful analysis
func (m Model) Result() *entities.AnalysisResult { return m.result }

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		if m.state != StateAnalyzing || msg.run != m.run {
			return m, nil
		}
		m.elapsed++
		return m, tick(m.run)

	case spinner.TickMsg:
		if m.state != StateAnalyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analysisDoneMsg:
		return m.finish(msg)

	case prefsSavedMsg:
		if msg.err != nil {
			m.logger.Warn("tui.preferences.save_failed", zap.Error(msg.err))
			m.err = errors.ErrPreferencesFailed("save", msg.err).UserMessage()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}

	switch m.state {
	case StateAnalyzing:
		// inputs are disabled until the provider answers
		return m, nil

	case StateShowingResult:
		switch msg.String() {
		case "esc", "b":
			m.state = StateIdle
			cmd := m.focusInput()
			return m, cmd
		case "q":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		m.flushKey()
		return m, tea.Quit
	case "ctrl+s":
		return m.start()
	case "ctrl+p":
		return m.toggleProvider()
	case "ctrl+t":
		if len(m.scenarios) > 0 {
			m.scenario = (m.scenario + 1) % len(m.scenarios)
		}
		return m, nil
	case "ctrl+e":
		if s := m.currentScenario(); s != nil && s.Sample != "" {
			m.transcript.SetValue(strings.TrimSpace(s.Sample))
		}
		return m, nil
	case "tab":
		if m.provider == entities.ProviderDeepSeek && m.focus == focusTranscript {
			m.focus = focusKey
		} else {
			m.focus = focusTranscript
		}
		cmd := tea.Batch(m.focusInput(), m.saveKeyIfChanged())
		return m, cmd
	}

	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state != StateIdle {
		return m, nil
	}
	var cmd tea.Cmd
	if m.focus == focusKey {
		m.keyInput, cmd = m.keyInput.Update(msg)
	} else {
		m.transcript, cmd = m.transcript.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusInput() tea.Cmd {
	if m.focus == focusKey {
		m.transcript.Blur()
		return m.keyInput.Focus()
	}
	m.keyInput.Blur()
	return m.transcript.Focus()
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.transcript.SetWidth(max(w-4, 20))
	m.transcript.SetHeight(max(h-14, 5))
	m.viewport.Width = w
	m.viewport.Height = max(h-4, 5)
	if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(max(w-4, 20))); err == nil {
		m.renderer = r
	}
	if m.result != nil {
		m.viewport.SetContent(m.render(m.result))
	}
}

func (m Model) currentScenario() *scenario.Scenario {
	if len(m.scenarios) == 0 {
		return nil
	}
	return m.scenarios[m.scenario]
}

func (m Model) toggleProvider() (tea.Model, tea.Cmd) {
	if m.provider == entities.ProviderDeepSeek {
		m.provider = entities.ProviderGemini
		m.focus = focusTranscript
	} else {
		m.provider = entities.ProviderDeepSeek
	}
	m.err = ""
	cmd := tea.Batch(m.focusInput(), m.save())
	return m, cmd
}

func (m *Model) saveKeyIfChanged() tea.Cmd {
	key := strings.TrimSpace(m.keyInput.Value())
	if key == m.savedKey {
		return nil
	}
	return m.save()
}

// flushKey saves an edited key synchronously, for use right before quitting
func (m *Model) flushKey() {
	cmd := m.saveKeyIfChanged()
	if cmd == nil {
		return
	}
	if saved, ok := cmd().(prefsSavedMsg); ok && saved.err != nil {
		m.logger.Warn("tui.preferences.save_failed", zap.Error(saved.err))
	}
}

// save persists the provider and key as they are now
func (m *Model) save() tea.Cmd {
	prefs := &entities.Preferences{
		Provider:       m.provider,
		DeepSeekAPIKey: strings.TrimSpace(m.keyInput.Value()),
	}
	m.savedKey = prefs.DeepSeekAPIKey
	repo := m.prefs
	return func() tea.Msg {
		return prefsSavedMsg{err: repo.Save(context.Background(), prefs)}
	}
}

func (m Model) start() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.transcript.Value())
	if text == "" {
		m.err = errors.ErrEmptyTranscript().UserMessage()
		return m, nil
	}
	key := strings.TrimSpace(m.keyInput.Value())
	if m.provider == entities.ProviderDeepSeek && key == "" {
		m.err = errors.ErrMissingAPIKey(entities.ProviderDeepSeek.DisplayName()).UserMessage()
		return m, nil
	}

	scenarioKey := ""
	if s := m.currentScenario(); s != nil {
		scenarioKey = s.Key
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.run++
	m.elapsed = 0
	m.err = ""
	m.state = StateAnalyzing
	m.transcript.Blur()
	m.keyInput.Blur()

	req := analysis.Request{
		Transcript: text,
		Scenario:   scenarioKey,
		Provider:   m.provider,
	}
	if m.provider == entities.ProviderDeepSeek {
		req.APIKey = key
	}

	run := m.run
	analyzer := m.analyzer
	m.logger.Info("tui.analysis.started", zap.String("provider", string(m.provider)), zap.String("scenario", scenarioKey))

	cmd := tea.Batch(
		m.saveKeyIfChanged(),
		m.spinner.Tick,
		tick(run),
		func() tea.Msg {
			res, err := analyzer.Analyze(ctx, req)
			return analysisDoneMsg{run: run, result: res, err: err}
		},
	)
	return m, cmd
}

func (m Model) finish(msg analysisDoneMsg) (tea.Model, tea.Cmd) {
	if msg.run != m.run || m.state != StateAnalyzing {
		return m, nil
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if msg.err != nil {
		m.state = StateIdle
		m.err = userMessage(msg.err)
		m.logger.Warn("tui.analysis.failed", zap.Error(msg.err))
		cmd := m.focusInput()
		return m, cmd
	}

	m.state = StateShowingResult
	m.result = msg.result
	m.viewport.SetContent(m.render(msg.result))
	m.viewport.GotoTop()
	return m, nil
}

func (m Model) render(res *entities.AnalysisResult) string {
	md := presenter.RenderMarkdown(presenter.ToReportResponse(res))
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func userMessage(err error) string {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr.UserMessage()
	}
	return "分析中断，请检查 API 配置。" + " (" + err.Error() + ")"
}

func tick(run int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{run: run} })
}
