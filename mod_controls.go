package pivot

import (
	"github.com/gekko3d/pivot/core"
	"github.com/go-gl/mathgl/mgl32"
)

// ControlsModule maps key presses to camera and object edits. Every press
// applies one fixed increment from Config.Controls.
//
//	a/d  w/s  q/e   move along view right, forward, up
//	A/D  W/S  Q/E   turn about view up, right, forward
//	space           toggle selection of the object under the cursor
//	left/right      move the cursor while something is selected
//	r               put the selected object back where it was loaded
//	escape          exit
//
// Moves and turns act on the selected object, or on the camera when
// nothing is selected. The camera has no roll.
type ControlsModule struct{}

func (ControlsModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(controlsSystem).
			InStage(Update),
	)
}

type axisKeys struct {
	plus, minus Key
}

var (
	rightKeys   = axisKeys{plus: KeyD, minus: KeyA}
	forwardKeys = axisKeys{plus: KeyW, minus: KeyS}
	upKeys      = axisKeys{plus: KeyE, minus: KeyQ}
)

func (k axisKeys) step(input *Input) float32 {
	var v float32
	if input.JustPressed[k.plus] {
		v++
	}
	if input.JustPressed[k.minus] {
		v--
	}
	return v
}

func controlsSystem(input *Input, state *SceneState, cfg *Config, cmd *Commands, log Logger) {
	if input.JustPressed[KeyEscape] {
		cmd.Exit()
		return
	}

	if input.JustPressed[KeySpace] {
		state.ToggleSelection()
		logSelection(log, state)
	}
	if state.HasSelected {
		switch {
		case input.JustPressed[KeyRight]:
			state.SelectNext()
			logSelection(log, state)
		case input.JustPressed[KeyLeft]:
			state.SelectPrev()
			logSelection(log, state)
		}
	}

	if input.JustPressed[KeyR] {
		if obj := state.SelectedObject(); obj != nil {
			obj.ResetTransform()
			log.Infof("Reset: %s", obj.Name)
		}
	}

	right, forward, up := rightKeys.step(input), forwardKeys.step(input), upKeys.step(input)
	if right == 0 && forward == 0 && up == 0 {
		return
	}

	obj := state.SelectedObject()
	turning := input.Shift()
	switch {
	case obj == nil && !turning:
		m := cfg.Controls.CameraMove
		state.Camera.Translate(right*m, up*m, forward*m)
	case obj == nil:
		a := mgl32.DegToRad(cfg.Controls.CameraTurn)
		// D turns right, which is a negative turn about up.
		state.Camera.Yaw(-right * a)
		state.Camera.Pitch(forward * a)
	case !turning:
		m := cfg.Controls.ObjectMove
		f, r, u := state.Camera.Basis()
		delta := r.Mul(right * m).Add(u.Mul(up * m)).Add(f.Mul(forward * m))
		obj.Position = obj.Position.Add(toParentFrame(state.Scene, obj, delta))
	default:
		a := mgl32.DegToRad(cfg.Controls.ObjectTurn)
		f, r, u := state.Camera.Basis()
		turnObject(state.Scene, obj, -right*a, u)
		turnObject(state.Scene, obj, forward*a, r)
		turnObject(state.Scene, obj, up*a, f)
	}
}

func turnObject(scene *core.Scene, obj *core.SceneObject, angle float32, viewAxis mgl32.Vec3) {
	if angle == 0 {
		return
	}
	core.RotateAboutPivot(obj, angle, toParentFrame(scene, obj, viewAxis))
}

// toParentFrame maps a world-space direction into the frame obj's position
// and rotation are expressed in.
func toParentFrame(scene *core.Scene, obj *core.SceneObject, dir mgl32.Vec3) mgl32.Vec3 {
	if !obj.HasParent() {
		return dir
	}
	parent, ok := scene.Object(obj.ParentName)
	if !ok {
		return dir
	}
	return parent.World.Inv().Mul4x1(dir.Vec4(0)).Vec3()
}

func logSelection(log Logger, state *SceneState) {
	if obj := state.SelectedObject(); obj != nil {
		log.Infof("Selection: %s", obj.Name)
		return
	}
	log.Infof("Selection: none")
}
