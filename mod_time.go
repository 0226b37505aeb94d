package pivot

import (
	"time"
)

type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame uint64
}

type TimeModule struct {
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Dt:   0,
	})
	cmd.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(timeResource *Time, cmd *Commands) {
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
	timeResource.Frame = cmd.Frame()
}
