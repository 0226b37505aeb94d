package pivot

import (
	"fmt"
)

// BackendName identifies a concrete renderer backend.
type BackendName string

const (
	BackendWGPU      BackendName = "wgpu"
	BackendRecording BackendName = "recording"
)

// Frames a recording backend created by NewBackend keeps.
const recordedFrames = 1

// NewBackend creates the named backend. The wgpu backend draws into
// window, which must be non-nil; the recording backend ignores it and
// keeps only the most recent frame.
func NewBackend(name BackendName, window *WindowState) (Backend, error) {
	switch name {
	case BackendRecording:
		rec := NewRecordingBackend()
		rec.KeepFrames = recordedFrames
		return rec, nil
	case BackendWGPU:
		if window == nil {
			return nil, fmt.Errorf("backend %s needs a window", name)
		}
		return NewWGPUBackend(window)
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

// UseRenderer installs exactly one renderer module for backend.
func (app *App) UseRenderer(name BackendName, backend Backend) *App {
	app.Logger().Infof("Renderer selected: %s", name)
	return app.UseModules(RendererModule{Name: name, Backend: backend})
}
