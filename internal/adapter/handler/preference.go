package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/canton09/aisales/errors"
	dto "github.com/canton09/aisales/internal/adapter/dto/analysis"
	"github.com/canton09/aisales/internal/adapter/presenter"
	"github.com/canton09/aisales/internal/domain/entities"
	"github.com/canton09/aisales/internal/domain/repositories"
)

// Preference serves the stored provider preference and DeepSeek key
type Preference struct {
	repo   repositories.PreferenceRepository
	logger *zap.Logger
}

// NewPreference creates a new preference handler
func NewPreference(repo repositories.PreferenceRepository, logger *zap.Logger) *Preference {
	return &Preference{repo: repo, logger: logger}
}

// Get returns the stored preferences with the key masked
// @Summary      Get preferences
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  analysis.PreferencesResponse
// @Router       /preferences [get]
func (h *Preference) Get(c echo.Context) error {
	prefs, err := h.repo.Load(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrPreferencesFailed("load", err))
	}
	return HandleSuccess(h.logger, c, presenter.ToPreferencesResponse(prefs))
}

// Update changes the provider and/or the DeepSeek key
// @Summary      Update preferences
// @Description  Keys are stored in plaintext. Omit deepseek_api_key to keep the current one, send "" to clear it.
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        request  body      analysis.UpdatePreferencesRequest  true  "New preferences"
// @Success      200      {object}  analysis.PreferencesResponse
// @Failure      400      {object}  map[string]interface{}
// @Router       /preferences [put]
func (h *Preference) Update(c echo.Context) error {
	var req dto.UpdatePreferencesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()
	prefs, err := h.repo.Load(ctx)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrPreferencesFailed("load", err))
	}

	if req.Provider != "" {
		p, err := entities.ParseProvider(req.Provider)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrUnsupportedProvider(req.Provider))
		}
		prefs.Provider = p
	}
	if req.DeepSeekAPIKey != nil {
		prefs.DeepSeekAPIKey = *req.DeepSeekAPIKey
	}

	if err := h.repo.Save(ctx, prefs); err != nil {
		return HandleError(h.logger, c, errors.ErrPreferencesFailed("save", err))
	}
	prefs.Normalize()
	return HandleSuccess(h.logger, c, presenter.ToPreferencesResponse(prefs))
}
