package pivot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, float32(90), cfg.Camera.FovY)
	assert.Equal(t, float32(1.2), cfg.HighlightScale)
	assert.Equal(t, string(BackendWGPU), cfg.Backend)
	assert.Greater(t, cfg.Controls.CameraMove, float32(0))
	assert.Greater(t, cfg.Camera.Far, cfg.Camera.Near)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pivot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
scene: arm.json
texture_dir: textures
window:
  width: 640
  title: arm
controls:
  object_turn: 15
highlight_scale: 1.5
strict_textures: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	cfg.Resolve(Flags{})

	assert.Equal(t, "arm.json", cfg.Scene)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "textures"), cfg.TextureDir)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset fields get defaults")
	assert.Equal(t, "arm", cfg.Window.Title)
	assert.Equal(t, float32(15), cfg.Controls.ObjectTurn)
	assert.Equal(t, float32(1.5), cfg.HighlightScale)
	assert.True(t, cfg.StrictTextures)
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "windoww:\n  width: 3\n"))
	assert.Error(t, err)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_ResolveFlags(t *testing.T) {
	cfg := Config{Scene: "a.json", Backend: "wgpu", MaxFrames: 10}
	cfg.Resolve(Flags{Scene: "scenes/b.json", MaxFrames: 2, Debug: true})

	assert.Equal(t, "scenes/b.json", cfg.Scene)
	assert.Equal(t, uint64(2), cfg.MaxFrames)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "scenes", cfg.TextureDir)

	cfg.Resolve(Flags{Headless: true})
	assert.Equal(t, string(BackendRecording), cfg.Backend, "headless always records")
	assert.Equal(t, uint64(2), cfg.MaxFrames, "an explicit frame limit is kept")
}

func TestConfig_HeadlessNeedsFrameLimit(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{Headless: true})
	assert.Equal(t, uint64(1), cfg.MaxFrames)

	windowed := DefaultConfig()
	assert.Zero(t, windowed.MaxFrames, "windowed runs stop when the window closes")
}
