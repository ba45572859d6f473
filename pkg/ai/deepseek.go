package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/canton09/aisales/pkg/config"
)

const providerDeepSeek = "DeepSeek"

// DeepSeekClient talks to DeepSeek's OpenAI-compatible chat completion API,
// either directly or through the pass-through proxy.
type DeepSeekClient struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
	stream      bool
	viaProxy    bool
	logger      *zap.Logger
}

// NewDeepSeekClient creates a DeepSeek client from config.
// When cfg.ProxyURL is set, requests go to the proxy and the key is sent in the JSON body.
func NewDeepSeekClient(cfg *config.DeepSeekConfig, logger *zap.Logger) *DeepSeekClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	base := cfg.BaseURL
	viaProxy := strings.TrimSpace(cfg.ProxyURL) != ""
	if viaProxy {
		base = cfg.ProxyURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	opts := []option.RequestOption{
		option.WithBaseURL(base),
		option.WithMaxRetries(0),
	}
	if viaProxy {
		opts = append(opts, option.WithHeaderDel("Authorization"))
	}

	return &DeepSeekClient{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
		stream:      cfg.Stream,
		viaProxy:    viaProxy,
		logger:      logger,
	}
}

// Model returns the configured model name
func (d *DeepSeekClient) Model() string {
	return d.model
}

// ViaProxy reports whether requests go through the pass-through proxy
func (d *DeepSeekClient) ViaProxy() bool {
	return d.viaProxy
}

// Complete sends the prompt and returns the assistant content
func (d *DeepSeekClient) Complete(ctx context.Context, p Prompt) (Completion, error) {
	key := strings.TrimSpace(p.APIKey)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(d.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.System),
			openai.UserMessage(p.User),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(d.temperature),
		MaxTokens:   openai.Int(d.maxTokens),
	}

	var reqOpts []option.RequestOption
	if d.viaProxy {
		reqOpts = append(reqOpts, option.WithJSONSet("apiKey", key))
	} else {
		reqOpts = append(reqOpts, option.WithAPIKey(key))
	}

	d.logger.Debug("deepseek.request",
		zap.String("model", d.model),
		zap.Bool("stream", d.stream),
		zap.Bool("via_proxy", d.viaProxy),
		zap.Int("prompt_bytes", len(p.System)+len(p.User)),
	)

	start := time.Now()
	var (
		text string
		err  error
	)
	if d.stream {
		text, err = d.completeStream(ctx, params, reqOpts)
	} else {
		text, err = d.completeOnce(ctx, params, reqOpts)
	}
	if err != nil {
		return Completion{}, d.classify(err)
	}
	if strings.TrimSpace(text) == "" {
		if d.stream && d.viaProxy {
			d.logger.Warn("deepseek.stream_empty_via_proxy",
				zap.String("hint", "the proxy may be forcing non-streaming answers; set PROXY_ALLOW_STREAM=true or DEEPSEEK_STREAM=false"),
			)
		}
		return Completion{}, ErrEmptyContent
	}

	d.logger.Debug("deepseek.response",
		zap.Int("length", len(text)),
		zap.Duration("latency", time.Since(start)),
	)
	return Completion{Text: text, Model: d.model}, nil
}

func (d *DeepSeekClient) completeOnce(ctx context.Context, params openai.ChatCompletionNewParams, opts []option.RequestOption) (string, error) {
	resp, err := d.client.Chat.Completions.New(ctx, params, opts...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// completeStream concatenates delta.content fragments in arrival order
func (d *DeepSeekClient) completeStream(ctx context.Context, params openai.ChatCompletionNewParams, opts []option.RequestOption) (string, error) {
	stream := d.client.Chat.Completions.NewStreaming(ctx, params, opts...)
	defer stream.Close()

	var b strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) > 0 {
			b.WriteString(chunk.Choices[0].Delta.Content)
		}
	}
	if err := stream.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (d *DeepSeekClient) classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &StatusError{
			Provider:   providerDeepSeek,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return err
}
