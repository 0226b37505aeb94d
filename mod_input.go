package pivot

type Key int

// Keys the viewer binds. Letters are unshifted; Input.Shift tells A from a.
const (
	KeyA Key = iota
	KeyD
	KeyE
	KeyQ
	KeyR
	KeyS
	KeyW
	KeySpace
	KeyEscape
	KeyRight
	KeyLeft
	KeyLeftShift
	KeyRightShift
	keyCount
)

var keyNames = [keyCount]string{
	KeyA: "a", KeyD: "d", KeyE: "e", KeyQ: "q", KeyR: "r", KeyS: "s", KeyW: "w",
	KeySpace: "space", KeyEscape: "escape",
	KeyRight: "right", KeyLeft: "left",
	KeyLeftShift: "lshift", KeyRightShift: "rshift",
}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// Input is the keyboard state for the current frame. The window module
// fills it from glfw; headless runs and tests call Set directly.
type Input struct {
	Pressed     [keyCount]bool
	JustPressed [keyCount]bool

	WindowWidth, WindowHeight int
}

// Set records the key state. A key going down this frame is JustPressed.
func (input *Input) Set(key Key, down bool) {
	if down && !input.Pressed[key] {
		input.JustPressed[key] = true
	}
	input.Pressed[key] = down
}

// Tap presses and releases key within one frame.
func (input *Input) Tap(key Key) {
	input.Set(key, true)
	input.Pressed[key] = false
}

func (input *Input) Shift() bool {
	return input.Pressed[KeyLeftShift] || input.Pressed[KeyRightShift]
}

func (input *Input) clearEdges() {
	input.JustPressed = [keyCount]bool{}
}

type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputEndFrameSystem).
			InStage(Finale),
	)
}

func inputEndFrameSystem(input *Input) {
	input.clearEdges()
}
