package handler

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "github.com/canton09/aisales/internal/adapter/dto/analysis"
	"github.com/canton09/aisales/errors"
	"github.com/canton09/aisales/internal/adapter/presenter"
	"github.com/canton09/aisales/internal/domain/entities"
	"github.com/canton09/aisales/internal/domain/repositories"
	"github.com/canton09/aisales/internal/usecase/analysis"
	"github.com/canton09/aisales/internal/usecase/scenario"
)

// Analyzer is the analysis use case as seen by the HTTP layer
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*entities.AnalysisResult, error)
	Catalog() *scenario.Catalog
}

// AnalysisController exposes the analysis service over HTTP
type AnalysisController struct {
	svc    Analyzer
	prefs  repositories.PreferenceRepository
	logger *zap.Logger
}

// NewAnalysisController creates a new analysis controller.
// prefs may be nil; when set, requests without a provider use the stored one.
// The DeepSeek key is never taken from the store: each caller sends its own.
func NewAnalysisController(svc Analyzer, prefs repositories.PreferenceRepository, logger *zap.Logger) *AnalysisController {
	return &AnalysisController{svc: svc, prefs: prefs, logger: logger}
}

// Analyze runs one transcript through the selected provider
// @Summary      Analyze a sales conversation
// @Description  Sends the transcript to DeepSeek or Gemini with the scenario prompt and returns the defaulted coaching report.
// @Tags         analyses
// @Accept       json
// @Produce      json
// @Param        request  body      analysis.AnalyzeRequest  true  "Transcript, scenario, provider and optional key"
// @Success      200      {object}  analysis.ReportResponse
// @Failure      400      {object}  map[string]interface{}  "Empty transcript, unknown scenario or missing key"
// @Failure      402      {object}  map[string]interface{}  "Provider balance exhausted"
// @Failure      409      {object}  map[string]interface{}  "Another analysis is running"
// @Failure      429      {object}  map[string]interface{}  "Rate limited"
// @Failure      502      {object}  map[string]interface{}  "Provider failed or returned unusable output"
// @Failure      504      {object}  map[string]interface{}  "Analysis timed out"
// @Router       /analyses [post]
func (ac *AnalysisController) Analyze(c echo.Context) error {
	var req dto.AnalyzeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(ac.logger, c, err)
	}

	ctx := c.Request().Context()

	provider := entities.Provider("")
	if req.Provider != "" {
		p, err := entities.ParseProvider(req.Provider)
		if err != nil {
			return HandleError(ac.logger, c, errors.ErrUnsupportedProvider(req.Provider))
		}
		provider = p
	}

	if ac.prefs != nil && provider == "" {
		stored, err := ac.prefs.Load(ctx)
		if err != nil {
			ac.logger.Warn("analysis.preferences_unavailable", zap.Error(err))
		} else {
			provider = stored.Provider
		}
	}

	result, err := ac.svc.Analyze(ctx, analysis.Request{
		Transcript: req.Transcript,
		Scenario:   req.Scenario,
		Provider:   provider,
		APIKey:     req.APIKey,
	})
	if err != nil {
		return HandleError(ac.logger, c, err)
	}

	return HandleSuccess(ac.logger, c, presenter.ToReportResponse(result))
}

// ListScenarios returns the scenario catalog
// @Summary      List analysis scenarios
// @Tags         analyses
// @Produce      json
// @Success      200  {array}  analysis.ScenarioResponse
// @Router       /scenarios [get]
func (ac *AnalysisController) ListScenarios(c echo.Context) error {
	catalog := ac.svc.Catalog()
	return HandleSuccess(ac.logger, c, presenter.ToScenarioResponses(catalog.List(), catalog.Default()))
}
