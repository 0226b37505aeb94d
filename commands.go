package pivot

// Commands is handed to systems that need to change the app itself.
type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// Exit stops the app once the current frame has finished.
func (cmd *Commands) Exit() {
	cmd.app.exiting = true
}

func (cmd *Commands) Frame() uint64 {
	return cmd.app.frame
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
