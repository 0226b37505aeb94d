package pivot

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // wgpu owns the surface, no GL context
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}, nil
}

// OpenWindow creates the glfw window used by the wgpu backend.
func OpenWindow(cfg WindowConfig) (*WindowState, error) {
	return createWindowState(cfg.Width, cfg.Height, cfg.Title)
}

func (s *WindowState) ShouldClose() bool {
	return s.windowGlfw.ShouldClose()
}

// FramebufferSize is the drawable size in pixels.
func (s *WindowState) FramebufferSize() (int, int) {
	return s.windowGlfw.GetFramebufferSize()
}

func (s *WindowState) Close() {
	s.windowGlfw.Destroy()
	glfw.Terminate()
}

// PlatformWindowModule publishes an already opened window and polls its
// keyboard into Input every frame.
type PlatformWindowModule struct {
	Window *WindowState
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if m.Window == nil {
		panic("PlatformWindowModule: nil window")
	}
	cmd.AddResources(m.Window)
	app.UseSystem(
		System(windowInputSystem).
			InStage(PreUpdate),
	)
}

func windowInputSystem(s *WindowState, input *Input, cmd *Commands) {
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		action := s.windowGlfw.GetKey(glfwKey)
		input.Set(key, action == glfw.Press || action == glfw.Repeat)
	}

	s.WindowWidth, s.WindowHeight = s.windowGlfw.GetSize()
	input.WindowWidth, input.WindowHeight = s.WindowWidth, s.WindowHeight

	if s.windowGlfw.ShouldClose() {
		cmd.Exit()
	}
}

var keyToGlfw = map[Key]glfw.Key{
	KeyA:          glfw.KeyA,
	KeyD:          glfw.KeyD,
	KeyE:          glfw.KeyE,
	KeyQ:          glfw.KeyQ,
	KeyR:          glfw.KeyR,
	KeyS:          glfw.KeyS,
	KeyW:          glfw.KeyW,
	KeySpace:      glfw.KeySpace,
	KeyEscape:     glfw.KeyEscape,
	KeyRight:      glfw.KeyRight,
	KeyLeft:       glfw.KeyLeft,
	KeyLeftShift:  glfw.KeyLeftShift,
	KeyRightShift: glfw.KeyRightShift,
}
