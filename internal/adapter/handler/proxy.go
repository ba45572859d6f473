package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/canton09/aisales/internal/infrastructure/metrics"
	"github.com/canton09/aisales/pkg/config"
)

const maxProxyBody = 8 << 20

// Proxy forwards chat-completion payloads to DeepSeek with the caller's key
type Proxy struct {
	upstreamURL string
	timeout     time.Duration
	allowStream bool
	client      *http.Client
	logger      *zap.Logger
}

// NewProxy creates the DeepSeek pass-through handler
func NewProxy(cfg *config.ProxyConfig, logger *zap.Logger) *Proxy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Proxy{
		upstreamURL: cfg.UpstreamURL,
		timeout:     cfg.Timeout,
		allowStream: cfg.AllowStream,
		// the per-request context carries the timeout
		client: &http.Client{},
		logger: logger,
	}
}

type proxyError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Forward godoc
// @Summary      DeepSeek pass-through proxy
// @Description  Forwards an OpenAI-compatible chat completion payload to DeepSeek. The caller's key travels in the body as apiKey.
// @Tags         proxy
// @Accept       json
// @Produce      json
// @Param        payload  body  object  true  "Chat completion payload plus apiKey"
// @Success      200  {object}  object
// @Failure      400  {object}  proxyError
// @Failure      405  {object}  proxyError
// @Failure      413  {object}  proxyError
// @Failure      502  {object}  proxyError
// @Failure      504  {object}  proxyError
// @Router       /api/deepseek-proxy [post]
func (p *Proxy) Forward(c echo.Context) error {
	start := time.Now()
	res := c.Response()
	res.Header().Set("Cache-Control", "no-cache")

	status, err := p.forward(c, start)
	if err != nil {
		p.logger.Error("proxy.failed", zap.Int("status", status), zap.Error(err))
	}

	elapsed := time.Since(start)
	metrics.ProxyRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	metrics.ProxyDuration.Observe(elapsed.Seconds())
	p.logger.Info("proxy.completed",
		zap.String("request_id", getRequestID(c)),
		zap.Int("status", status),
		zap.Duration("duration", elapsed),
	)
	return nil
}

func (p *Proxy) forward(c echo.Context, start time.Time) (int, error) {
	req := c.Request()

	if req.Method != http.MethodPost {
		return p.reply(c, start, http.StatusMethodNotAllowed, proxyError{Error: "Method Not Allowed"}), nil
	}

	raw, err := io.ReadAll(io.LimitReader(req.Body, maxProxyBody+1))
	if err != nil {
		return p.reply(c, start, http.StatusBadRequest, proxyError{Error: "Invalid request body", Details: err.Error()}), err
	}
	if len(raw) > maxProxyBody {
		return p.reply(c, start, http.StatusRequestEntityTooLarge, proxyError{
			Error:   "Payload Too Large",
			Details: fmt.Sprintf("request body exceeds %d bytes", maxProxyBody),
		}), nil
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil || payload == nil {
		return p.reply(c, start, http.StatusBadRequest, proxyError{Error: "Request body must be a JSON object"}), nil
	}

	var apiKey string
	if v, ok := payload["apiKey"]; ok {
		_ = json.Unmarshal(v, &apiKey)
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return p.reply(c, start, http.StatusBadRequest, proxyError{Error: "Missing API Key"}), nil
	}
	delete(payload, "apiKey")

	stream := false
	if p.allowStream {
		if v, ok := payload["stream"]; ok {
			_ = json.Unmarshal(v, &stream)
		}
	} else {
		payload["stream"] = json.RawMessage("false")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return p.reply(c, start, http.StatusInternalServerError, proxyError{Error: "Proxy failed to encode payload", Details: err.Error()}), err
	}

	ctx, cancel := context.WithTimeout(req.Context(), p.timeout)
	defer cancel()

	upReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.upstreamURL, bytes.NewReader(body))
	if err != nil {
		return p.reply(c, start, http.StatusInternalServerError, proxyError{Error: "Proxy failed to build request", Details: err.Error()}), err
	}
	upReq.Header.Set("Content-Type", "application/json")
	upReq.Header.Set("Authorization", "Bearer "+apiKey)
	if stream {
		upReq.Header.Set("Accept", "text/event-stream")
	} else {
		upReq.Header.Set("Accept", "application/json")
	}

	resp, err := p.client.Do(upReq)
	if err != nil {
		return p.upstreamFailure(ctx, c, start, err)
	}
	defer resp.Body.Close()

	if stream && resp.StatusCode < 300 && strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		return p.pipe(c, start, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return p.upstreamFailure(ctx, c, start, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	p.setDuration(c, start)
	return resp.StatusCode, c.Blob(resp.StatusCode, contentType, data)
}

func (p *Proxy) upstreamFailure(ctx context.Context, c echo.Context, start time.Time, err error) (int, error) {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return p.reply(c, start, http.StatusGatewayTimeout, proxyError{
			Error:   "Upstream Timeout",
			Details: fmt.Sprintf("DeepSeek did not answer within %s", p.timeout),
		}), err
	}
	return p.reply(c, start, http.StatusBadGateway, proxyError{
		Error:   "Upstream Unreachable",
		Details: err.Error(),
	}), err
}

// pipe copies an event stream to the client, flushing after every read
func (p *Proxy) pipe(c echo.Context, start time.Time, resp *http.Response) (int, error) {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, resp.Header.Get("Content-Type"))
	res.Header().Set("Connection", "keep-alive")
	p.setDuration(c, start)
	res.WriteHeader(resp.StatusCode)
	res.Flush()

	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := res.Write(buf[:n]); werr != nil {
				return resp.StatusCode, werr
			}
			res.Flush()
		}
		if err == io.EOF {
			return resp.StatusCode, nil
		}
		if err != nil {
			return resp.StatusCode, err
		}
	}
}

func (p *Proxy) reply(c echo.Context, start time.Time, status int, body proxyError) int {
	p.setDuration(c, start)
	_ = c.JSON(status, body)
	return status
}

func (p *Proxy) setDuration(c echo.Context, start time.Time) {
	c.Response().Header().Set("X-Proxy-Duration", fmt.Sprintf("%dms", time.Since(start).Milliseconds()))
}
