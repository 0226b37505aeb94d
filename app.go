package pivot

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// App runs registered systems stage by stage, once per frame.
type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any

	frame     uint64
	maxFrames uint64
	exiting   bool
}

func NewApp() *App {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.systems[stage.Name] = make([]systemFn, 0)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, module := range modules {
		module.Install(app, cmd)
	}
	return app
}

// Frame is the number of frames completed so far.
func (app *App) Frame() uint64 {
	return app.frame
}

// Exiting reports whether a system asked the app to stop.
func (app *App) Exiting() bool {
	return app.exiting
}

// Run loops until a system calls Commands.Exit or the frame limit is hit.
func (app *App) Run() {
	app.Logger().Infof("Running %d stages", len(app.stages))
	for !app.exiting {
		app.Step()
		if app.maxFrames > 0 && app.frame >= app.maxFrames {
			app.Logger().Infof("Frame limit %d reached", app.maxFrames)
			break
		}
	}
}

// Step runs every stage once.
func (app *App) Step() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
	}
	app.frame++
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if app.hasResource(resourceType.Elem()) {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

func (app *App) hasResource(t reflect.Type) bool {
	_, ok := app.resources[t]
	return ok
}

// Resource looks up a resource of type T added by a module.
func Resource[T any](app *App) (*T, bool) {
	res, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return res.(*T), true
}

var (
	typeOfCommands = reflect.TypeOf(Commands{})
	typeOfLogger   = reflect.TypeOf((*Logger)(nil)).Elem()
)

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)

		if argType == typeOfLogger {
			args[i] = reflect.ValueOf(app.Logger())
			continue
		}
		if argType.Kind() != reflect.Pointer {
			app.unresolved(systemValue, systemType, argType)
		}

		underlyingType := argType.Elem()
		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(app.Commands())
		} else if resource, ok := app.resources[underlyingType]; ok {
			args[i] = reflect.ValueOf(resource)
		} else {
			app.unresolved(systemValue, systemType, argType)
		}
	}
	systemValue.Call(args)
}

func (app *App) unresolved(systemValue reflect.Value, systemType, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	app.Logger().Errorf("%s", msg)
	panic(msg)
}
