package scenario

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/canton09/aisales/internal/domain/entities"
)

const overlay = `
default: cold_call
scenarios:
  - key: cold_call
    title: 陌生拜访
    system_instruction: "{{ .Persona }} {{ .Structure }}"
    user_template: "转写: {{ .Transcript }}"
    transcript_mode: key_moments
`

func TestNewCatalog_Builtins(t *testing.T) {
	c, err := NewCatalog(zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"livestream", "store_visit", "telesales", "test_drive"}, c.Keys())
	assert.Equal(t, "store_visit", c.Default())

	s, err := c.Get("")
	require.NoError(t, err)
	assert.Equal(t, "store_visit", s.Key)
	assert.False(t, s.KeyMoments())

	s, err = c.Get("telesales")
	require.NoError(t, err)
	assert.True(t, s.KeyMoments())
	assert.NotEmpty(t, s.Sample)

	_, err = c.Get("karaoke")
	assert.True(t, errors.Is(err, entities.ErrUnknownScenario))
}

func TestRender_InterpolatesTranscript(t *testing.T) {
	c, err := NewCatalog(nil)
	require.NoError(t, err)

	s, err := c.Get("store_visit")
	require.NoError(t, err)

	p, err := c.Render(s, "  客户：太贵了  ")
	require.NoError(t, err)
	assert.Contains(t, p.User, "客户：太贵了")
	assert.Contains(t, p.System, s.Persona)
	assert.Contains(t, p.System, "transcript: [{ speaker, time, text }]")
	assert.NotContains(t, p.System, "key_moments")
	assert.NotContains(t, p.System, "{{")
	assert.False(t, p.KeyMoments)

	s, err = c.Get("livestream")
	require.NoError(t, err)
	p, err = c.Render(s, "主播：大家好")
	require.NoError(t, err)
	assert.Contains(t, p.System, "key_moments: [{ speaker, time, text, insight }]")
	assert.True(t, p.KeyMoments)
}

func TestLoadFile_OverlayAndReplace(t *testing.T) {
	c, err := NewCatalog(zaptest.NewLogger(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0o600))
	require.NoError(t, c.LoadFile(path))

	assert.Equal(t, "cold_call", c.Default())
	assert.Len(t, c.List(), 5)

	s, err := c.Get("cold_call")
	require.NoError(t, err)
	p, err := c.Render(s, "hello")
	require.NoError(t, err)
	assert.Equal(t, "转写: hello", p.User)

	// a second load replaces the overlay instead of stacking it
	require.NoError(t, os.WriteFile(path, []byte("scenarios: []\n"), 0o600))
	require.NoError(t, c.LoadFile(path))
	assert.Len(t, c.List(), 4)
	assert.Equal(t, "store_visit", c.Default())
}

func TestLoadFile_InvalidKeepsPrevious(t *testing.T) {
	c, err := NewCatalog(nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	bad := `
scenarios:
  - key: broken
    title: Broken
    system_instruction: "x"
    user_template: "{{ .Transcript }}"
    transcript_mode: everything
`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o600))
	assert.Error(t, c.LoadFile(path))

	_, err = c.Get("broken")
	assert.Error(t, err)
	assert.Len(t, c.List(), 4)

	require.NoError(t, os.WriteFile(path, []byte("scenarios:\n  - key: [\n"), 0o600))
	assert.Error(t, c.LoadFile(path))
	assert.Error(t, c.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestSetDefault_SurvivesReload(t *testing.T) {
	c, err := NewCatalog(nil)
	require.NoError(t, err)

	assert.True(t, errors.Is(c.SetDefault("karaoke"), entities.ErrUnknownScenario))
	assert.Equal(t, "store_visit", c.Default())

	require.NoError(t, c.SetDefault("telesales"))
	assert.Equal(t, "telesales", c.Default())

	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0o600))
	require.NoError(t, c.LoadFile(path))

	s, err := c.Get("")
	require.NoError(t, err)
	assert.Equal(t, "telesales", s.Key)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, err := NewCatalog(zaptest.NewLogger(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenarios: []\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, c.Watch(ctx, path))
	}()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0o600))

	assert.Eventually(t, func() bool {
		_, err := c.Get("cold_call")
		return err == nil
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	wg.Wait()
}
