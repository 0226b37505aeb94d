package pivot

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: NewApp()}
}

// WithMaxFrames stops Run after n frames. Zero runs until exit.
func (b *AppBuilder) WithMaxFrames(n uint64) *AppBuilder {
	b.app.maxFrames = n

	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

func (b *AppBuilder) Build() *App {
	app := b.app
	commands := app.Commands()

	for _, module := range b.modules {
		module.Install(app, commands)
	}

	return app
}
