package pivot

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds window, camera and control settings of the viewer.
type Config struct {
	Scene   string `yaml:"scene"`
	Backend string `yaml:"backend"` // "wgpu" or "recording"

	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Controls ControlsConfig `yaml:"controls"`

	// HighlightScale is applied about the selected object's centroid when drawn.
	HighlightScale float32 `yaml:"highlight_scale"`
	StrictTextures bool    `yaml:"strict_textures"`
	TextureDir     string  `yaml:"texture_dir"`

	MaxFrames uint64 `yaml:"max_frames"`
	Headless  bool   `yaml:"headless"`
	Debug     bool   `yaml:"debug"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type CameraConfig struct {
	FovY float32 `yaml:"fov_y"` // degrees
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

// ControlsConfig sets the per-keypress increments. Angles are in degrees.
type ControlsConfig struct {
	CameraMove float32 `yaml:"camera_move"`
	CameraTurn float32 `yaml:"camera_turn"`
	ObjectMove float32 `yaml:"object_move"`
	ObjectTurn float32 `yaml:"object_turn"`
}

// LoadConfig reads a YAML config file. Unknown keys are an error; fields
// not set keep their zero values until Resolve.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.TextureDir != "" && !filepath.IsAbs(cfg.TextureDir) {
		cfg.TextureDir = filepath.Join(filepath.Dir(path), cfg.TextureDir)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Scene     string
	Backend   string
	MaxFrames uint64
	Headless  bool
	Debug     bool
}

// Resolve applies flag overrides and fills unset fields with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.Backend != "" {
		c.Backend = flags.Backend
	}
	if flags.MaxFrames > 0 {
		c.MaxFrames = flags.MaxFrames
	}
	c.Headless = c.Headless || flags.Headless
	c.Debug = c.Debug || flags.Debug

	if c.Backend == "" {
		c.Backend = string(BackendWGPU)
	}
	if c.Headless {
		c.Backend = string(BackendRecording)
		// No window can ask a headless run to stop.
		if c.MaxFrames == 0 {
			c.MaxFrames = 1
		}
	}
	if c.TextureDir == "" && c.Scene != "" {
		c.TextureDir = filepath.Dir(c.Scene)
	}

	if c.Window.Width <= 0 {
		c.Window.Width = 1280
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 720
	}
	if c.Window.Title == "" {
		c.Window.Title = "pivot"
	}

	if c.Camera.FovY <= 0 {
		c.Camera.FovY = 90
	}
	if c.Camera.Near <= 0 {
		c.Camera.Near = 0.1
	}
	if c.Camera.Far <= c.Camera.Near {
		c.Camera.Far = max(100, c.Camera.Near*10)
	}

	if c.Controls.CameraMove <= 0 {
		c.Controls.CameraMove = 0.1
	}
	if c.Controls.CameraTurn <= 0 {
		c.Controls.CameraTurn = 2
	}
	if c.Controls.ObjectMove <= 0 {
		c.Controls.ObjectMove = 0.1
	}
	if c.Controls.ObjectTurn <= 0 {
		c.Controls.ObjectTurn = 2
	}

	if c.HighlightScale <= 0 {
		c.HighlightScale = 1.2
	}
}

// DefaultConfig is an empty config resolved with no flags.
func DefaultConfig() Config {
	var cfg Config
	cfg.Resolve(Flags{})
	return cfg
}

// ConfigModule publishes the config as a resource.
type ConfigModule struct {
	Config Config
}

func (m ConfigModule) Install(app *App, cmd *Commands) {
	cfg := m.Config
	cmd.AddResources(&cfg)
}
