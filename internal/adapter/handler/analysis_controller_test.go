package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/canton09/aisales/errors"
	"github.com/canton09/aisales/internal/adapter/repository"
	"github.com/canton09/aisales/internal/domain/entities"
	"github.com/canton09/aisales/internal/infrastructure/cache"
	"github.com/canton09/aisales/internal/usecase/analysis"
	"github.com/canton09/aisales/internal/usecase/scenario"
	"github.com/canton09/aisales/pkg/ai"
	"github.com/canton09/aisales/pkg/config"
	pkgvalidator "github.com/canton09/aisales/pkg/validator"
)

const cannedReport = `{"summary":{"title":"到店复盘","time":"周六","participants":["销售","客户"],"text":"客户关注价格"},` +
	`"highlights":["主动邀约"],"insights":{"battle_evaluation":"B","customer_intent":"A"}}`

type stubCompleter struct {
	mu        sync.Mutex
	last      ai.Prompt
	calls     int
	text      string
	err       error
	serverKey bool
}

func (s *stubCompleter) Complete(_ context.Context, p ai.Prompt) (ai.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = p
	if s.err != nil {
		return ai.Completion{}, s.err
	}
	return ai.Completion{Text: s.text}, nil
}

func (s *stubCompleter) Model() string      { return "stub-model" }
func (s *stubCompleter) HasServerKey() bool { return s.serverKey }

type apiFixture struct {
	e        *echo.Echo
	deepseek *stubCompleter
	gemini   *stubCompleter
	prefs    *repository.MemoryPreferenceRepository
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	logger := zaptest.NewLogger(t)

	catalog, err := scenario.NewCatalog(logger)
	require.NoError(t, err)

	f := &apiFixture{
		deepseek: &stubCompleter{text: cannedReport},
		gemini:   &stubCompleter{text: cannedReport, serverKey: true},
	}
	svc := analysis.NewService(catalog, map[entities.Provider]analysis.Completer{
		entities.ProviderDeepSeek: f.deepseek,
		entities.ProviderGemini:   f.gemini,
	}, analysis.Options{}, logger)

	store := cache.NewMemoryStore(0)
	t.Cleanup(store.Close)
	f.prefs = repository.NewMemoryPreferenceRepository(store)

	f.e = echo.New()
	f.e.Validator = pkgvalidator.New()
	NewRouter(
		&config.Config{Server: config.ServerConfig{Environment: "test", Version: "v-test"}},
		nil,
		NewAnalysisController(svc, f.prefs, logger),
		NewPreference(f.prefs, logger),
	).Setup(f.e)
	return f
}

func (f *apiFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","environment":"test","version":"v-test"}`, rec.Body.String())
}

func TestAnalyze_DefaultsToGeminiWithServerKey(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(http.MethodPost, "/v1/analyses", `{"transcript":"客户：太贵了"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec)
	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &report))

	assert.Equal(t, "gemini", report["provider"])
	assert.Equal(t, "Gemini", report["provider_name"])
	assert.Equal(t, "store_visit", report["scenario"])
	summary := report["summary"].(map[string]interface{})
	assert.Equal(t, "到店复盘", summary["title"])
	assert.Equal(t, "-", summary["location"])

	assert.Equal(t, 1, f.gemini.calls)
	assert.Empty(t, f.gemini.last.APIKey)
}

func TestAnalyze_StoredProviderButNeverStoredKey(t *testing.T) {
	f := newAPIFixture(t)
	require.NoError(t, f.prefs.Save(context.Background(), &entities.Preferences{
		Provider:       entities.ProviderDeepSeek,
		DeepSeekAPIKey: "sk-stored",
	}))

	// the stored provider applies, the stored key does not
	rec := f.do(http.MethodPost, "/v1/analyses", `{"transcript":"x","scenario":"telesales"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, int(errors.ErrorCode_MISSING_API_KEY), decodeEnvelope(t, rec).Code)
	assert.Zero(t, f.deepseek.calls)
	assert.Zero(t, f.gemini.calls)

	rec = f.do(http.MethodPost, "/v1/analyses", `{"transcript":"x","scenario":"telesales","api_key":"sk-request"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "sk-request", f.deepseek.last.APIKey)
	assert.True(t, f.deepseek.last.KeyMoments)
	assert.Zero(t, f.gemini.calls)
}

func TestAnalyze_KeySetByOneCallerIsNotSpentByAnother(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPut, "/v1/preferences", `{"provider":"deepseek","deepseek_api_key":"sk-callerA"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(http.MethodPost, "/v1/analyses", `{"transcript":"x","provider":"deepseek"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int(errors.ErrorCode_MISSING_API_KEY), decodeEnvelope(t, rec).Code)
	assert.Zero(t, f.deepseek.calls)
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   errors.ErrorCode
	}{
		{"missing transcript", `{"scenario":"store_visit"}`, http.StatusBadRequest, errors.ErrorCode_INVALID_ARGUMENT},
		{"blank transcript", `{"transcript":"   "}`, http.StatusBadRequest, errors.ErrorCode_EMPTY_TRANSCRIPT},
		{"bad provider", `{"transcript":"x","provider":"claude"}`, http.StatusBadRequest, errors.ErrorCode_INVALID_ARGUMENT},
		{"unknown scenario", `{"transcript":"x","scenario":"karaoke"}`, http.StatusBadRequest, errors.ErrorCode_UNKNOWN_SCENARIO},
		{"deepseek without key", `{"transcript":"x","provider":"deepseek"}`, http.StatusBadRequest, errors.ErrorCode_MISSING_API_KEY},
		{"malformed json", `{"transcript":`, http.StatusBadRequest, errors.ErrorCode_INVALID_PAYLOAD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			rec := f.do(http.MethodPost, "/v1/analyses", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, int(tt.code), decodeEnvelope(t, rec).Code)
			assert.Zero(t, f.deepseek.calls)
		})
	}
}

func TestAnalyze_ProviderFailureMessage(t *testing.T) {
	f := newAPIFixture(t)
	f.deepseek.err = &ai.StatusError{Provider: "DeepSeek", StatusCode: http.StatusPaymentRequired}

	rec := f.do(http.MethodPost, "/v1/analyses", `{"transcript":"x","provider":"deepseek","api_key":"sk-1"}`)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, int(errors.ErrorCode_INSUFFICIENT_BALANCE), env.Code)
	assert.NotEmpty(t, env.Message)
}

func TestListScenarios(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(http.MethodGet, "/v1/scenarios", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []struct {
		Key            string `json:"key"`
		TranscriptMode string `json:"transcript_mode"`
		Default        bool   `json:"default"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
	require.Len(t, list, 4)
	assert.Equal(t, "store_visit", list[0].Key)
	assert.True(t, list[0].Default)
	assert.Equal(t, "key_moments", list[1].TranscriptMode)
}

func TestPreferences_GetAndUpdate(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/v1/preferences", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"provider":"gemini"`)

	rec = f.do(http.MethodPut, "/v1/preferences", `{"provider":"deepseek","deepseek_api_key":"sk-1234567890abcd"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := string(decodeEnvelope(t, rec).Data)
	assert.Contains(t, data, `"provider":"deepseek"`)
	assert.NotContains(t, data, "567890")

	stored, err := f.prefs.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sk-1234567890abcd", stored.DeepSeekAPIKey)

	// omitting the key keeps it
	rec = f.do(http.MethodPut, "/v1/preferences", `{"provider":"gemini"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err = f.prefs.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.ProviderGemini, stored.Provider)
	assert.Equal(t, "sk-1234567890abcd", stored.DeepSeekAPIKey)

	rec = f.do(http.MethodPut, "/v1/preferences", `{"provider":"claude"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
