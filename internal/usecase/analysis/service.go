package analysis

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/canton09/aisales/errors"
	"github.com/canton09/aisales/internal/domain/entities"
	"github.com/canton09/aisales/internal/infrastructure/metrics"
	"github.com/canton09/aisales/internal/usecase/scenario"
	"github.com/canton09/aisales/pkg/ai"
)

const rawPreviewBytes = 500

// Completer is a provider client
type Completer interface {
	Complete(ctx context.Context, p ai.Prompt) (ai.Completion, error)
	Model() string
}

// serverKeyed is implemented by providers that can fall back to a server-side key
type serverKeyed interface {
	HasServerKey() bool
}

// proxied is implemented by providers that may sit behind the pass-through proxy
type proxied interface {
	ViaProxy() bool
}

// Request is one analysis request
type Request struct {
	Transcript string
	Scenario   string
	Provider   entities.Provider
	APIKey     string
}

// Options tunes the service
type Options struct {
	Timeout         time.Duration
	MaxInflight     int64
	StrictJSON      bool
	DefaultProvider entities.Provider
}

// Service runs transcripts through a provider and decodes the report
type Service struct {
	catalog   *scenario.Catalog
	providers map[entities.Provider]Completer
	decoder   *Decoder
	sem       *semaphore.Weighted
	timeout   time.Duration
	fallback  entities.Provider
	logger    *zap.Logger
}

// NewService creates a new analysis service
func NewService(catalog *scenario.Catalog, providers map[entities.Provider]Completer, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxInflight < 1 {
		opts.MaxInflight = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 180 * time.Second
	}
	if !opts.DefaultProvider.Valid() {
		opts.DefaultProvider = entities.DefaultProvider
	}
	return &Service{
		catalog:   catalog,
		providers: providers,
		decoder:   NewDecoder(opts.StrictJSON),
		sem:       semaphore.NewWeighted(opts.MaxInflight),
		timeout:   opts.Timeout,
		fallback:  opts.DefaultProvider,
		logger:    logger,
	}
}

// Catalog returns the scenario catalog the service renders prompts from
func (s *Service) Catalog() *scenario.Catalog {
	return s.catalog
}

// Analyze validates the request, calls the provider and decodes the report.
// At most MaxInflight analyses run at once; extra callers fail immediately.
func (s *Service) Analyze(ctx context.Context, req Request) (*entities.AnalysisResult, error) {
	transcript := strings.TrimSpace(req.Transcript)
	if transcript == "" {
		return nil, errors.ErrEmptyTranscript()
	}

	provider := req.Provider
	if provider == "" {
		provider = s.fallback
	}
	client, ok := s.providers[provider]
	if !provider.Valid() || !ok {
		return nil, errors.ErrUnsupportedProvider(string(provider))
	}

	sc, err := s.catalog.Get(req.Scenario)
	if err != nil {
		return nil, errors.ErrUnknownScenario(req.Scenario)
	}

	key := strings.TrimSpace(req.APIKey)
	if key == "" && !hasServerKey(client, provider) {
		return nil, errors.ErrMissingAPIKey(provider.DisplayName())
	}

	if !s.sem.TryAcquire(1) {
		return nil, errors.ErrAnalysisInProgress()
	}
	defer s.sem.Release(1)

	metrics.AnalysesInflight.Inc()
	defer metrics.AnalysesInflight.Dec()

	prompt, err := s.catalog.Render(sc, transcript)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}

	result := entities.NewAnalysisResult(provider, sc.Key, client.Model())
	log := s.logger.With(
		zap.String("analysis_id", result.ID.String()),
		zap.String("provider", string(provider)),
		zap.String("scenario", sc.Key),
	)
	log.Info("analysis.started", zap.Int("transcript_bytes", len(transcript)))

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	completion, err := client.Complete(callCtx, ai.Prompt{
		System:     prompt.System,
		User:       prompt.User,
		KeyMoments: prompt.KeyMoments,
		APIKey:     key,
	})
	result.Duration = time.Since(start)
	metrics.AnalysisDuration.WithLabelValues(string(provider)).Observe(result.Duration.Seconds())

	if err != nil {
		viaProxy := false
		if p, ok := client.(proxied); ok {
			viaProxy = p.ViaProxy()
		}
		mapped := mapProviderError(callCtx, provider, viaProxy, s.timeout, err)
		s.observe(provider, mapped)
		log.Error("analysis.provider_failed", zap.Duration("duration", result.Duration), zap.Error(err))
		return nil, mapped
	}
	if completion.Model != "" {
		result.Model = completion.Model
	}

	report, repaired, err := s.decode(completion.Text, sc.WrapperKeys)
	if err != nil {
		mapped := mapDecodeError(provider, err)
		s.observe(provider, mapped)
		log.Error("analysis.decode_failed",
			zap.Error(err),
			zap.String("raw_preview", preview(completion.Text, rawPreviewBytes)),
		)
		return nil, mapped
	}
	if repaired {
		metrics.JSONRepairs.WithLabelValues(string(provider)).Inc()
		log.Warn("analysis.output_repaired", zap.String("raw_preview", preview(completion.Text, rawPreviewBytes)))
	}

	result.Analysis = report
	result.Repaired = repaired
	s.observe(provider, nil)
	log.Info("analysis.completed", zap.Duration("duration", result.Duration), zap.Bool("repaired", repaired))
	return result, nil
}

func (s *Service) decode(text string, wrapperKeys []string) (*entities.SalesVisitAnalysis, bool, error) {
	decoded, err := s.decoder.Decode(text)
	if err != nil {
		return nil, false, err
	}

	var report entities.SalesVisitAnalysis
	if err := json.Unmarshal([]byte(Unwrap(decoded.JSON, wrapperKeys)), &report); err != nil {
		return nil, false, stdErrors.Join(ErrMalformedJSON, err)
	}
	return &report, decoded.Repaired, nil
}

func (s *Service) observe(provider entities.Provider, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		var appErr errors.AppError
		if stdErrors.As(err, &appErr) {
			outcome = strings.ToLower(appErr.Code.String())
		}
	}
	metrics.AnalysesTotal.WithLabelValues(string(provider), outcome).Inc()
}

func hasServerKey(c Completer, p entities.Provider) bool {
	if p.RequiresUserKey() {
		return false
	}
	sk, ok := c.(serverKeyed)
	return ok && sk.HasServerKey()
}

// preview cuts s to at most n bytes without splitting a rune
func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
