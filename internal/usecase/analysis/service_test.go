package analysis

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/canton09/aisales/errors"
	"github.com/canton09/aisales/internal/domain/entities"
	"github.com/canton09/aisales/internal/usecase/scenario"
	"github.com/canton09/aisales/pkg/ai"
)

func TestMain(m *testing.M) {
	// genai's opencensus dependency starts its stats worker in init
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type fakeProvider struct {
	mu        sync.Mutex
	calls     int
	last      ai.Prompt
	text      string
	err       error
	block     chan struct{}
	serverKey bool
	proxy     bool
}

func (f *fakeProvider) Complete(ctx context.Context, p ai.Prompt) (ai.Completion, error) {
	f.mu.Lock()
	f.calls++
	f.last = p
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ai.Completion{}, ctx.Err()
		}
	}
	if f.err != nil {
		return ai.Completion{}, f.err
	}
	return ai.Completion{Text: f.text, Model: "fake-model"}, nil
}

func (f *fakeProvider) Model() string      { return "fake-model" }
func (f *fakeProvider) HasServerKey() bool { return f.serverKey }
func (f *fakeProvider) ViaProxy() bool     { return f.proxy }

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

const goodReport = `{"summary":{"title":"到店复盘","participants":["销售","客户"]},"highlights":["价格异议"],` +
	`"insights":{"battle_evaluation":"B","customer_intent":"A","next_steps":{"method":"电话","owner":"销售","goal":"邀约试驾"}}}`

func newTestService(t *testing.T, ds, gm *fakeProvider, opts Options) *Service {
	t.Helper()
	catalog, err := scenario.NewCatalog(zaptest.NewLogger(t))
	require.NoError(t, err)
	return NewService(catalog, map[entities.Provider]Completer{
		entities.ProviderDeepSeek: ds,
		entities.ProviderGemini:   gm,
	}, opts, zaptest.NewLogger(t))
}

func appCode(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	var appErr errors.AppError
	require.True(t, stdErrors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestAnalyze_Success(t *testing.T) {
	ds := &fakeProvider{text: "```json\n" + goodReport + "\n```"}
	svc := newTestService(t, ds, &fakeProvider{}, Options{})

	res, err := svc.Analyze(context.Background(), Request{
		Transcript: "  客户：太贵了  ",
		Scenario:   "telesales",
		Provider:   entities.ProviderDeepSeek,
		APIKey:     " sk-1 ",
	})
	require.NoError(t, err)

	assert.Equal(t, entities.ProviderDeepSeek, res.Provider)
	assert.Equal(t, "telesales", res.Scenario)
	assert.Equal(t, "fake-model", res.Model)
	assert.False(t, res.Repaired)
	require.NotNil(t, res.Analysis.Summary)
	assert.Equal(t, "到店复盘", res.Analysis.Summary.Title)
	assert.Equal(t, "A", res.Analysis.Insights.CustomerIntent)

	assert.Equal(t, "sk-1", ds.last.APIKey)
	assert.True(t, ds.last.KeyMoments)
	assert.Contains(t, ds.last.User, "客户：太贵了")
}

func TestAnalyze_UnwrapsAndRepairs(t *testing.T) {
	gm := &fakeProvider{serverKey: true, text: `Sure! {"store_visit":{"summary":{"title":"t"},"highlights":["a"`}
	svc := newTestService(t, &fakeProvider{}, gm, Options{})

	res, err := svc.Analyze(context.Background(), Request{Transcript: "x", Provider: entities.ProviderGemini})
	require.NoError(t, err)
	assert.True(t, res.Repaired)
	assert.Equal(t, "store_visit", res.Scenario)
	assert.Equal(t, "t", res.Analysis.Summary.Title)
	assert.Equal(t, []string{"a"}, res.Analysis.Highlights)
}

func TestAnalyze_ValidationFailsWithoutNetwork(t *testing.T) {
	ds := &fakeProvider{text: goodReport}
	gm := &fakeProvider{text: goodReport}
	svc := newTestService(t, ds, gm, Options{})
	ctx := context.Background()

	_, err := svc.Analyze(ctx, Request{Transcript: "   ", Provider: entities.ProviderGemini})
	assert.Equal(t, errors.ErrorCode_EMPTY_TRANSCRIPT, appCode(t, err))

	_, err = svc.Analyze(ctx, Request{Transcript: "x", Provider: "claude"})
	assert.Equal(t, errors.ErrorCode_UNSUPPORTED_PROVIDER, appCode(t, err))

	_, err = svc.Analyze(ctx, Request{Transcript: "x", Scenario: "karaoke", APIKey: "k"})
	assert.Equal(t, errors.ErrorCode_UNKNOWN_SCENARIO, appCode(t, err))

	_, err = svc.Analyze(ctx, Request{Transcript: "x", Provider: entities.ProviderDeepSeek, APIKey: "  "})
	assert.Equal(t, errors.ErrorCode_MISSING_API_KEY, appCode(t, err))

	// gemini without a request key and without a server key
	_, err = svc.Analyze(ctx, Request{Transcript: "x", Provider: entities.ProviderGemini})
	assert.Equal(t, errors.ErrorCode_MISSING_API_KEY, appCode(t, err))

	assert.Zero(t, ds.Calls())
	assert.Zero(t, gm.Calls())
}

func TestAnalyze_ProviderErrorMapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		proxy bool
		want  errors.ErrorCode
		http  int
	}{
		{"balance", &ai.StatusError{Provider: "DeepSeek", StatusCode: 402}, false, errors.ErrorCode_INSUFFICIENT_BALANCE, http.StatusPaymentRequired},
		{"rate limit", &ai.StatusError{Provider: "DeepSeek", StatusCode: 429}, false, errors.ErrorCode_RATE_LIMITED, http.StatusTooManyRequests},
		{"busy", &ai.StatusError{Provider: "DeepSeek", StatusCode: 503}, false, errors.ErrorCode_PROVIDER_BUSY, http.StatusServiceUnavailable},
		{"unauthorized", &ai.StatusError{Provider: "DeepSeek", StatusCode: 401}, false, errors.ErrorCode_PROVIDER_UNAUTHORIZED, http.StatusUnauthorized},
		{"proxy route missing", &ai.StatusError{Provider: "DeepSeek", StatusCode: 404}, true, errors.ErrorCode_PROXY_ROUTE_MISSING, http.StatusBadGateway},
		{"direct 404", &ai.StatusError{Provider: "DeepSeek", StatusCode: 404, Message: "no such model"}, false, errors.ErrorCode_UPSTREAM_STATUS, http.StatusBadGateway},
		{"proxy timeout", &ai.StatusError{Provider: "DeepSeek", StatusCode: 504}, true, errors.ErrorCode_ANALYSIS_TIMEOUT, http.StatusGatewayTimeout},
		{"other status", &ai.StatusError{Provider: "DeepSeek", StatusCode: 500, Message: "boom"}, false, errors.ErrorCode_UPSTREAM_STATUS, http.StatusBadGateway},
		{"empty content", ai.ErrEmptyContent, false, errors.ErrorCode_EMPTY_MODEL_OUTPUT, http.StatusBadGateway},
		{"network", fmt.Errorf("dial tcp: connection refused"), false, errors.ErrorCode_UPSTREAM_UNREACHABLE, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := &fakeProvider{err: tt.err, proxy: tt.proxy}
			svc := newTestService(t, ds, &fakeProvider{}, Options{})

			_, err := svc.Analyze(context.Background(), Request{Transcript: "x", Provider: entities.ProviderDeepSeek, APIKey: "k"})
			require.Error(t, err)

			var appErr errors.AppError
			require.True(t, stdErrors.As(err, &appErr))
			assert.Equal(t, tt.want, appErr.Code)
			assert.Equal(t, tt.http, appErr.HTTPCode)
		})
	}
}

func TestAnalyze_EmptyContentMentionsProvider(t *testing.T) {
	gm := &fakeProvider{serverKey: true, err: ai.ErrEmptyContent}
	svc := newTestService(t, &fakeProvider{}, gm, Options{})

	_, err := svc.Analyze(context.Background(), Request{Transcript: "x", Provider: entities.ProviderGemini})
	require.Error(t, err)

	var appErr errors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Contains(t, appErr.UserMessage(), "Gemini returned no content")
	assert.ErrorIs(t, err, ai.ErrEmptyContent)
}

func TestAnalyze_MalformedOutput(t *testing.T) {
	for _, text := range []string{"I cannot produce JSON today.", `{"summary":"unterminated`, `{"highlights":"not a list"}`} {
		ds := &fakeProvider{text: text}
		svc := newTestService(t, ds, &fakeProvider{}, Options{})

		_, err := svc.Analyze(context.Background(), Request{Transcript: "x", Provider: entities.ProviderDeepSeek, APIKey: "k"})
		assert.Equal(t, errors.ErrorCode_MALFORMED_MODEL_OUTPUT, appCode(t, err), text)
	}
}

func TestAnalyze_Timeout(t *testing.T) {
	ds := &fakeProvider{block: make(chan struct{})}
	svc := newTestService(t, ds, &fakeProvider{}, Options{Timeout: 20 * time.Millisecond})

	_, err := svc.Analyze(context.Background(), Request{Transcript: "x", Provider: entities.ProviderDeepSeek, APIKey: "k"})
	assert.Equal(t, errors.ErrorCode_ANALYSIS_TIMEOUT, appCode(t, err))
}

func TestAnalyze_SingleInflight(t *testing.T) {
	release := make(chan struct{})
	ds := &fakeProvider{block: release, text: goodReport}
	svc := newTestService(t, ds, &fakeProvider{}, Options{MaxInflight: 1})
	req := Request{Transcript: "x", Provider: entities.ProviderDeepSeek, APIKey: "k"}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Analyze(context.Background(), req)
		done <- err
	}()

	require.Eventually(t, func() bool { return ds.Calls() == 1 }, time.Second, 5*time.Millisecond)

	_, err := svc.Analyze(context.Background(), req)
	assert.Equal(t, errors.ErrorCode_ANALYSIS_IN_PROGRESS, appCode(t, err))
	assert.Equal(t, 1, ds.Calls())

	close(release)
	require.NoError(t, <-done)

	// the slot is free again
	_, err = svc.Analyze(context.Background(), req)
	assert.NoError(t, err)
}

func TestPreview_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "abc", preview("abc", 5))

	// every rune here is three bytes
	s := "客户说太贵了"
	for n := 0; n <= len(s); n++ {
		out := preview(s, n)
		assert.True(t, utf8.ValidString(out), "n=%d", n)
		assert.LessOrEqual(t, len(out), n)
		assert.Equal(t, n/3*3, len(out), "n=%d", n)
	}
}
