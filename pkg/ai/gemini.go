package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/canton09/aisales/pkg/config"
)

const providerGemini = "Gemini"

// ErrMissingGeminiKey is returned when neither the request nor the server config carries a key
var ErrMissingGeminiKey = errors.New("gemini api key not configured")

// GeminiClient generates structured analyses through the Gemini API
type GeminiClient struct {
	apiKey         string
	baseURL        string
	model          string
	thinkingBudget int32
	logger         *zap.Logger

	mu     sync.Mutex
	server *genai.Client
}

// NewGeminiClient creates a Gemini client from config. No network call is made.
func NewGeminiClient(cfg *config.GeminiConfig, logger *zap.Logger) *GeminiClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		apiKey:         strings.TrimSpace(cfg.APIKey),
		baseURL:        cfg.BaseURL,
		model:          cfg.Model,
		thinkingBudget: int32(cfg.ThinkingBudget),
		logger:         logger,
	}
}

// Model returns the configured model name
func (g *GeminiClient) Model() string {
	return g.model
}

// HasServerKey reports whether a server-side key is configured
func (g *GeminiClient) HasServerKey() bool {
	return g.apiKey != ""
}

// sdk returns the SDK client for key. Only the server key's client is kept;
// caller-supplied keys get a client for the one call.
func (g *GeminiClient) sdk(ctx context.Context, key string) (*genai.Client, error) {
	if key != g.apiKey {
		return g.newSDK(ctx, key)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.server != nil {
		return g.server, nil
	}
	c, err := g.newSDK(ctx, key)
	if err != nil {
		return nil, err
	}
	g.server = c
	return c, nil
}

func (g *GeminiClient) newSDK(ctx context.Context, key string) (*genai.Client, error) {
	cc := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return c, nil
}

// Complete sends the prompt with the analysis response schema and returns the JSON text
func (g *GeminiClient) Complete(ctx context.Context, p Prompt) (Completion, error) {
	key := strings.TrimSpace(p.APIKey)
	if key == "" {
		key = g.apiKey
	}
	if key == "" {
		return Completion{}, ErrMissingGeminiKey
	}

	client, err := g.sdk(ctx, key)
	if err != nil {
		return Completion{}, err
	}

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(p.System, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    AnalysisSchema(p.KeyMoments),
	}
	if g.thinkingBudget > 0 {
		genConfig.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(g.thinkingBudget),
		}
	}

	g.logger.Debug("gemini.request",
		zap.String("model", g.model),
		zap.Int32("thinking_budget", g.thinkingBudget),
		zap.Bool("key_moments", p.KeyMoments),
	)

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(p.User), genConfig)
	if err != nil {
		return Completion{}, classifyGemini(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return Completion{}, ErrEmptyContent
	}

	g.logger.Debug("gemini.response",
		zap.Int("length", len(text)),
		zap.Duration("latency", time.Since(start)),
	)
	return Completion{Text: text, Model: g.model}, nil
}

func classifyGemini(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Provider: providerGemini, StatusCode: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &StatusError{Provider: providerGemini, StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message, Err: err}
	}
	return err
}
