package pivot

import (
	"testing"

	"github.com/gekko3d/pivot/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type controlsRig struct {
	app   *App
	input *Input
	state *SceneState
	cfg   Config
}

func newControlsRig(t *testing.T, scene *core.Scene) *controlsRig {
	t.Helper()
	cfg := DefaultConfig()
	app := NewAppBuilder().UseModule(
		ConfigModule{Config: cfg},
		InputModule{},
		SceneModule{Scene: scene},
		ControlsModule{},
		HierarchyModule{},
	).Build()

	input, ok := Resource[Input](app)
	require.True(t, ok)
	state, ok := Resource[SceneState](app)
	require.True(t, ok)
	app.Step()
	return &controlsRig{app: app, input: input, state: state, cfg: cfg}
}

func (r *controlsRig) tap(keys ...Key) {
	for _, k := range keys {
		r.input.Tap(k)
	}
	r.app.Step()
}

func (r *controlsRig) shiftTap(key Key) {
	r.input.Set(KeyLeftShift, true)
	r.tap(key)
	r.input.Set(KeyLeftShift, false)
}

func TestControls_CameraMove(t *testing.T) {
	rig := newControlsRig(t, armScene(t))
	cam := rig.state.Camera
	start := cam.Position
	m := rig.cfg.Controls.CameraMove

	// The default camera looks down +Z, so view right is -X.
	rig.tap(KeyD)
	assertVec3Near(t, start.Add(mgl32.Vec3{-m, 0, 0}), cam.Position)

	rig.tap(KeyW)
	assertVec3Near(t, start.Add(mgl32.Vec3{-m, 0, m}), cam.Position)

	rig.tap(KeyE)
	rig.tap(KeyQ)
	rig.tap(KeyA)
	rig.tap(KeyS)
	assertVec3Near(t, start, cam.Position)
	assertVec3Near(t, mgl32.Vec3{0.5, 0.5, 0}, cam.Center)
}

func TestControls_CameraTurn(t *testing.T) {
	rig := newControlsRig(t, armScene(t))
	cam := rig.state.Camera
	dist := cam.Center.Sub(cam.Position).Len()

	rig.shiftTap(KeyA)
	assert.Greater(t, cam.Center.X(), float32(0.5), "A turns left, toward +X")
	assert.InDelta(t, dist, cam.Center.Sub(cam.Position).Len(), tolerance)

	rig.shiftTap(KeyD)
	assertVec3Near(t, mgl32.Vec3{0.5, 0.5, 0}, cam.Center)

	rig.shiftTap(KeyW)
	assert.Greater(t, cam.Center.Y(), float32(0.5), "W pitches up")
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, -0.5}, cam.Position, "turning never moves the eye")
}

func TestControls_Selection(t *testing.T) {
	rig := newControlsRig(t, armScene(t))
	st := rig.state

	rig.tap(KeyRight)
	assert.Nil(t, st.SelectedObject(), "arrows do nothing without a selection")
	assert.Equal(t, 0, st.Cursor)

	rig.tap(KeySpace)
	require.NotNil(t, st.SelectedObject())
	assert.Equal(t, "arm", st.SelectedObject().Name)

	rig.tap(KeyRight)
	assert.Equal(t, "finger", st.SelectedObject().Name)
	rig.tap(KeyLeft)
	rig.tap(KeyLeft)
	assert.Equal(t, "floor", st.SelectedObject().Name, "left wraps to the last object")

	rig.tap(KeySpace)
	assert.Nil(t, st.SelectedObject())
}

func TestControls_MoveSelected(t *testing.T) {
	scene := armScene(t)
	rig := newControlsRig(t, scene)
	camStart := rig.state.Camera.Position
	m := rig.cfg.Controls.ObjectMove

	rig.tap(KeySpace)
	rig.tap(KeyD)
	rig.tap(KeyE)

	arm := object(t, scene, "arm")
	assertVec3Near(t, mgl32.Vec3{-m, m, 0}, arm.Position)
	assert.Equal(t, camStart, rig.state.Camera.Position, "camera stays put while an object is selected")

	finger := object(t, scene, "finger")
	assertVec3Near(t, mgl32.Vec3{2 - m, m, 0}, finger.WorldPoint(mgl32.Vec3{2, 0, 0}), "children follow")
}

func TestControls_MoveChildInParentFrame(t *testing.T) {
	scene := armScene(t)
	arm := object(t, scene, "arm")
	arm.Rotation = core.RotationAbout(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	rig := newControlsRig(t, scene)
	m := rig.cfg.Controls.ObjectMove

	finger := object(t, scene, "finger")
	before := finger.WorldCentroid()

	rig.tap(KeySpace)
	rig.tap(KeyRight)
	require.Equal(t, "finger", rig.state.SelectedObject().Name)
	rig.tap(KeyD)

	// Screen right is world -X whatever the parent's rotation.
	assertVec3Near(t, before.Add(mgl32.Vec3{-m, 0, 0}), finger.WorldCentroid())
	assertVec3Near(t, mgl32.Vec3{0, 0, -m}, finger.Position)
}

func TestControls_TurnSelected(t *testing.T) {
	scene := armScene(t)
	rig := newControlsRig(t, scene)
	arm := object(t, scene, "arm")
	centroid := arm.WorldCentroid()

	rig.tap(KeySpace)
	rig.shiftTap(KeyE)

	a := mgl32.DegToRad(rig.cfg.Controls.ObjectTurn)
	assertMat4Near(t, core.RotationAbout(a, mgl32.Vec3{0, 0, 1}), arm.Rotation, "E rolls about the view forward axis")
	assertVec3Near(t, centroid, arm.WorldCentroid(), "turning pivots on the centroid")
	assert.Equal(t, mgl32.Vec3{}, arm.Position)
}

func TestControls_ResetSelected(t *testing.T) {
	scene := armScene(t)
	rig := newControlsRig(t, scene)
	arm := object(t, scene, "arm")
	camStart := *rig.state.Camera

	rig.tap(KeyR)
	assert.Equal(t, camStart, *rig.state.Camera, "reset needs a selection")

	rig.tap(KeySpace)
	rig.tap(KeyD)
	rig.shiftTap(KeyW)
	require.NotEqual(t, mgl32.Ident4(), arm.World)

	rig.tap(KeyR)
	assert.Equal(t, arm.Origin, arm.Position)
	assert.Equal(t, mgl32.Ident4(), arm.Rotation)
	assertMat4Near(t, mgl32.Ident4(), arm.World, "resolved world is back to the load-time placement")
	assert.True(t, rig.state.HasSelected, "selection is kept")
}

func TestControls_Escape(t *testing.T) {
	rig := newControlsRig(t, armScene(t))
	rig.tap(KeyEscape)
	assert.True(t, rig.app.Exiting())
}
