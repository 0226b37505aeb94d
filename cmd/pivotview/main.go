// Command pivotview loads a scene and lets you move the camera and objects
// from the keyboard.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gekko3d/pivot"
	"github.com/gekko3d/pivot/loader"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	scenePath := flag.String("scene", "", "scene file (.json, .gltf, .glb)")
	backend := flag.String("backend", "", "renderer backend: wgpu or recording")
	headless := flag.Bool("headless", false, "run without a window using the recording backend")
	frames := flag.Uint64("frames", 0, "stop after this many frames (0 = until escape)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if err := run(*configPath, pivot.Flags{
		Scene:     *scenePath,
		Backend:   *backend,
		MaxFrames: *frames,
		Headless:  *headless,
		Debug:     *debug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "pivotview: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, flags pivot.Flags) error {
	var cfg pivot.Config
	if configPath != "" {
		var err error
		if cfg, err = pivot.LoadConfig(configPath); err != nil {
			return err
		}
	}
	cfg.Resolve(flags)
	if cfg.Scene == "" {
		return fmt.Errorf("no scene given; use -scene or set scene in the config")
	}

	log := pivot.NewDefaultLogger("pivotview", cfg.Debug)

	scene, err := loader.LoadFile(cfg.Scene)
	if err != nil {
		return err
	}
	log.Infof("Loaded %s: %d objects", cfg.Scene, scene.Len())

	assets := pivot.NewAssetServer()
	if err := assets.LoadSceneTextures(scene, cfg.TextureDir, cfg.StrictTextures, log); err != nil {
		return err
	}

	var window *pivot.WindowState
	if !cfg.Headless {
		if window, err = pivot.OpenWindow(cfg.Window); err != nil {
			return err
		}
		defer window.Close()
	}

	backend, err := pivot.NewBackend(pivot.BackendName(cfg.Backend), window)
	if err != nil {
		return err
	}
	defer backend.Release()

	builder := pivot.NewAppBuilder().
		WithMaxFrames(cfg.MaxFrames).
		UseModule(
			pivot.LoggerModule{Logger: log},
			pivot.ConfigModule{Config: cfg},
			pivot.TimeModule{},
			pivot.InputModule{},
		)
	if window != nil {
		builder.UseModule(pivot.PlatformWindowModule{Window: window})
	}
	builder.UseModule(
		pivot.SceneModule{Scene: scene},
		pivot.AssetServerModule{Server: assets, Dir: cfg.TextureDir, Strict: cfg.StrictTextures},
		pivot.ControlsModule{},
		pivot.HierarchyModule{},
		pivot.RendererModule{Name: pivot.BackendName(cfg.Backend), Backend: backend},
	)

	app := builder.Build()
	app.Run()
	log.Infof("Exited after %d frames", app.Frame())
	return nil
}
