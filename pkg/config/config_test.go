package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("PROXY_TIMEOUT", "45s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddr())
	assert.Equal(t, 45*time.Second, cfg.Proxy.Timeout)
	assert.False(t, cfg.Proxy.AllowStream)
	assert.False(t, cfg.RedisEnabled())
	assert.Equal(t, "deepseek-chat", cfg.DeepSeek.Model)
	assert.Equal(t, 4000, cfg.DeepSeek.MaxTokens)
	assert.Equal(t, int64(1), cfg.Analysis.MaxInflight)
}

func TestFromEnv_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"provider", "DEFAULT_PROVIDER", "claude"},
		{"inflight", "ANALYSIS_MAX_INFLIGHT", "0"},
		{"proxy timeout", "PROXY_TIMEOUT", "0s"},
		{"max tokens", "DEEPSEEK_MAX_TOKENS", "-1"},
		{"not a duration", "ANALYSIS_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestRedisEnabled(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, "aisales:preferences", cfg.Redis.Key)
}

func TestStreamMismatch(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.StreamMismatch())

	cfg.DeepSeek.Stream = true
	assert.False(t, cfg.StreamMismatch(), "direct streaming needs no proxy")

	cfg.DeepSeek.ProxyURL = "http://localhost:8080/api/deepseek-proxy"
	assert.True(t, cfg.StreamMismatch())

	cfg.Proxy.AllowStream = true
	assert.False(t, cfg.StreamMismatch())
}
