package pivot

import (
	"github.com/gekko3d/pivot/core"
	"github.com/gekko3d/pivot/loader"
)

// SceneState is the viewer's mutable state. Cursor indexes the scene in
// input order; it only counts as a selection while HasSelected is set.
type SceneState struct {
	Scene  *core.Scene
	Camera *core.Camera

	Cursor      int
	HasSelected bool
}

func NewSceneState(scene *core.Scene, camera *core.Camera) *SceneState {
	if camera == nil {
		camera = core.NewCamera()
	}
	return &SceneState{Scene: scene, Camera: camera}
}

// SelectedObject returns nil when nothing is selected.
func (s *SceneState) SelectedObject() *core.SceneObject {
	if !s.HasSelected || s.Cursor < 0 || s.Cursor >= s.Scene.Len() {
		return nil
	}
	return s.Scene.At(s.Cursor)
}

func (s *SceneState) ToggleSelection() {
	if s.Scene.Len() == 0 {
		return
	}
	s.HasSelected = !s.HasSelected
}

// SelectNext moves the cursor forward, wrapping at the end.
func (s *SceneState) SelectNext() {
	if n := s.Scene.Len(); n > 0 {
		s.Cursor = (s.Cursor + 1) % n
	}
}

// SelectPrev moves the cursor backward, wrapping at the start.
func (s *SceneState) SelectPrev() {
	if n := s.Scene.Len(); n > 0 {
		s.Cursor = (s.Cursor - 1 + n) % n
	}
}

// SceneModule installs a SceneState. Scene wins over Path when both are set.
type SceneModule struct {
	Path  string
	Scene *core.Scene
}

func (m SceneModule) Install(app *App, cmd *Commands) {
	scene := m.Scene
	if scene == nil {
		var err error
		if scene, err = loader.LoadFile(m.Path); err != nil {
			app.Logger().Errorf("load scene: %v", err)
			panic(err)
		}
	}

	camera := core.NewCamera()
	if cfg, ok := Resource[Config](app); ok {
		camera.FovY = cfg.Camera.FovY
		camera.Near = cfg.Camera.Near
		camera.Far = cfg.Camera.Far
	}

	cmd.AddResources(NewSceneState(scene, camera))
	app.Logger().Infof("Scene ready: %d objects", scene.Len())
}
